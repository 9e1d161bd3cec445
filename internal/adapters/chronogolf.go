package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/browser"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/extract"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

// Markers the rendered ChronoGolf widget settles into: either tee-time cards
// or an explicit empty state. Waiting for one of the two distinguishes "still
// loading" from "genuinely no availability".
const (
	chronoContentMarker   = ".widget-teetime, .teetime"
	chronoNoResultsMarker = ".no-teetimes, .empty-state"
)

// ChronoGolfAdapter scrapes facilities whose availability only exists after
// client-side rendering. It borrows a session from the browser pool for each
// (course, date) visit and releases it on every exit path.
type ChronoGolfAdapter struct {
	sessions *browser.Manager
	matchers []extract.Matcher
	logger   *logrus.Logger
	baseURL  string
}

func NewChronoGolfAdapter(sessions *browser.Manager, logger *logrus.Logger) *ChronoGolfAdapter {
	return &ChronoGolfAdapter{
		sessions: sessions,
		matchers: extract.DefaultMatchers(),
		logger:   logger,
		baseURL:  "https://www.chronogolf.com",
	}
}

func (a *ChronoGolfAdapter) Source() string { return SourceChronoGolf }

func (a *ChronoGolfAdapter) FetchDay(ctx context.Context, course *models.Course, date string) ([]extract.RawAvailabilityEntry, error) {
	facilityID, ok := course.FacilityID(SourceChronoGolf)
	if !ok {
		return nil, fmt.Errorf("course %s has no chronogolf facility id", course.Slug)
	}

	session, err := a.sessions.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring browser session: %w", err)
	}
	defer a.sessions.Release(session)

	a.sessions.Delay(ctx)

	pageURL := fmt.Sprintf("%s/club/%s/widget?date=%s", a.baseURL, facilityID, date)
	html, err := session.RenderedHTML(ctx, pageURL, chronoContentMarker, chronoNoResultsMarker)
	if err != nil {
		if errors.Is(err, browser.ErrNavigationTimeout) {
			// Timed out before either marker appeared: no result for this
			// unit, recovery happens on the next scheduled run.
			a.logger.WithFields(logrus.Fields{
				"course": course.Slug,
				"date":   date,
			}).Warn("ChronoGolf page never settled, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("chronogolf page for %s: %w", course.Slug, err)
	}

	entries, strategy, err := extract.Run(a.matchers, html)
	if err != nil {
		return nil, fmt.Errorf("extracting chronogolf page for %s: %w", course.Slug, err)
	}

	for i := range entries {
		entries[i].Source = SourceChronoGolf
		entries[i].FacilityID = facilityID
		if entries[i].BookingURL == "" {
			entries[i].BookingURL = pageURL
		}
	}

	a.logger.WithFields(logrus.Fields{
		"course":   course.Slug,
		"date":     date,
		"count":    len(entries),
		"strategy": strategy,
	}).Debug("ChronoGolf fetch complete")
	return entries, nil
}
