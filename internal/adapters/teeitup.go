package adapters

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/extract"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

// TeeItUpAdapter scrapes facilities whose booking pages are server-rendered.
// The pages embed Schema.org SportsEvent JSON-LD per tee time, so the
// structured matcher usually wins; the DOM and free-text matchers cover
// facilities on older page templates.
type TeeItUpAdapter struct {
	fetcher  *Fetcher
	matchers []extract.Matcher
	logger   *logrus.Logger
	baseURL  string
}

func NewTeeItUpAdapter(fetcher *Fetcher, logger *logrus.Logger) *TeeItUpAdapter {
	return &TeeItUpAdapter{
		fetcher:  fetcher,
		matchers: extract.DefaultMatchers(),
		logger:   logger,
		baseURL:  "https://app.teeitup.com",
	}
}

func (a *TeeItUpAdapter) Source() string { return SourceTeeItUp }

func (a *TeeItUpAdapter) FetchDay(ctx context.Context, course *models.Course, date string) ([]extract.RawAvailabilityEntry, error) {
	facilityID, ok := course.FacilityID(SourceTeeItUp)
	if !ok {
		return nil, fmt.Errorf("course %s has no teeitup facility id", course.Slug)
	}

	pageURL := fmt.Sprintf("%s/courses/%s/teetimes?date=%s", a.baseURL, facilityID, date)
	body, err := a.fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("teeitup page for %s: %w", course.Slug, err)
	}

	entries, strategy, err := extract.Run(a.matchers, string(body))
	if err != nil {
		return nil, fmt.Errorf("extracting teeitup page for %s: %w", course.Slug, err)
	}

	for i := range entries {
		entries[i].Source = SourceTeeItUp
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
	}).Debug("TeeItUp fetch complete")
	return entries, nil
}
