package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/browser"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/extract"
)

// Anchor is one geographic search origin. Anchors are chosen so every known
// facility falls inside at least one anchor's search radius; overlap between
// radii is expected and handled by first-seen merging.
type Anchor struct {
	Label     string
	Latitude  float64
	Longitude float64
}

// BayAreaAnchors covers the service region.
var BayAreaAnchors = []Anchor{
	{Label: "san-francisco", Latitude: 37.7749, Longitude: -122.4194},
	{Label: "oakland", Latitude: 37.8044, Longitude: -122.2712},
	{Label: "san-jose", Latitude: 37.3382, Longitude: -121.8863},
	{Label: "santa-rosa", Latitude: 38.4404, Longitude: -122.7141},
}

const (
	golfNowContentMarker   = ".facility-card, [data-facility-id]"
	golfNowNoResultsMarker = ".no-results, .empty-search"
	golfNowScrolls         = 5
	golfNowSettleDelay     = 1500 * time.Millisecond
)

// GolfNowAdapter is the aggregate discovery variant: instead of walking one
// course at a time, it issues broad geographic searches and extracts one
// representative slot per facility — its earliest time at its minimum
// advertised price.
type GolfNowAdapter struct {
	sessions *browser.Manager
	anchors  []Anchor
	logger   *logrus.Logger
	baseURL  string
}

func NewGolfNowAdapter(sessions *browser.Manager, anchors []Anchor, logger *logrus.Logger) *GolfNowAdapter {
	return &GolfNowAdapter{
		sessions: sessions,
		anchors:  anchors,
		logger:   logger,
		baseURL:  "https://www.golfnow.com",
	}
}

func (a *GolfNowAdapter) Source() string { return SourceGolfNow }

// FetchRegion searches every anchor for the given date. Results are merged
// first-seen per facility identifier, so a facility inside two overlapping
// anchor radii is not double-counted.
func (a *GolfNowAdapter) FetchRegion(ctx context.Context, date string) ([]extract.RawAvailabilityEntry, error) {
	var groups [][]extract.RawAvailabilityEntry
	for _, anchor := range a.anchors {
		entries, err := a.searchAnchor(ctx, anchor, date)
		if err != nil {
			// One anchor failing leaves the others worth searching.
			a.logger.WithError(err).WithField("anchor", anchor.Label).Warn("GolfNow anchor search failed")
			continue
		}
		groups = append(groups, entries)
	}
	merged := mergeFirstSeen(groups...)

	a.logger.WithFields(logrus.Fields{
		"date":       date,
		"facilities": len(merged),
	}).Debug("GolfNow region search complete")
	return merged, nil
}

func (a *GolfNowAdapter) searchAnchor(ctx context.Context, anchor Anchor, date string) ([]extract.RawAvailabilityEntry, error) {
	session, err := a.sessions.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring browser session: %w", err)
	}
	defer a.sessions.Release(session)

	a.sessions.Delay(ctx)

	searchURL := fmt.Sprintf("%s/tee-times/search?latitude=%f&longitude=%f&date=%s",
		a.baseURL, anchor.Latitude, anchor.Longitude, date)

	// Result lists lazy-load on scroll; keep scrolling with a settle delay
	// until the page stops growing or the scroll budget runs out.
	html, err := session.ExpandedHTML(ctx, searchURL, golfNowContentMarker, golfNowNoResultsMarker, golfNowScrolls, golfNowSettleDelay)
	if err != nil {
		if errors.Is(err, browser.ErrNavigationTimeout) {
			return nil, nil
		}
		return nil, err
	}

	return a.parseFacilityCards(html)
}

// parseFacilityCards extracts one entry per facility card: the earliest tee
// time shown at the lowest advertised price.
func (a *GolfNowAdapter) parseFacilityCards(html string) ([]extract.RawAvailabilityEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	var entries []extract.RawAvailabilityEntry
	doc.Find(golfNowContentMarker).Each(func(_ int, card *goquery.Selection) {
		facilityID, ok := card.Attr("data-facility-id")
		if !ok || facilityID == "" {
			return
		}

		earliest := earliestTime(card.Text())
		if earliest == "" {
			return
		}

		bookingURL := ""
		if href, ok := card.Find("a").First().Attr("href"); ok {
			if strings.HasPrefix(href, "/") {
				href = a.baseURL + href
			}
			bookingURL = href
		}

		entries = append(entries, extract.RawAvailabilityEntry{
			Source:     SourceGolfNow,
			FacilityID: facilityID,
			TimeText:   earliest,
			PriceTexts: []string{lowestPriceText(card.Text())},
			BookingURL: bookingURL,
		})
	})

	return entries, nil
}

// mergeFirstSeen flattens per-anchor result sets, keeping the first entry
// seen for each facility. Overlapping anchor radii surface the same facility
// more than once.
func mergeFirstSeen(groups ...[]extract.RawAvailabilityEntry) []extract.RawAvailabilityEntry {
	seen := make(map[string]bool)
	var merged []extract.RawAvailabilityEntry
	for _, group := range groups {
		for _, e := range group {
			if seen[e.FacilityID] {
				continue
			}
			seen[e.FacilityID] = true
			merged = append(merged, e)
		}
	}
	return merged
}

func earliestTime(text string) string {
	best := ""
	for _, raw := range lineTimeMatches(text) {
		if t, ok := extract.NormalizeTime(raw); ok {
			if best == "" || t < best {
				best = t
			}
		}
	}
	if best == "" {
		return ""
	}
	return best
}

func lowestPriceText(text string) string {
	best := ""
	var bestVal float64
	for _, raw := range linePriceMatches(text) {
		p := extract.ParsePrice(raw)
		if p == nil {
			continue
		}
		if best == "" || *p < bestVal {
			best, bestVal = raw, *p
		}
	}
	return best
}
