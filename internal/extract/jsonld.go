package extract

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Schema.org event payload as booking pages embed it. Several platforms emit
// one <script type="application/ld+json"> per tee time, each a SportsEvent
// with an Offer carrying the green fee and availability.
type jsonLDEvent struct {
	Type      string      `json:"@type"`
	Name      string      `json:"name"`
	StartDate string      `json:"startDate"`
	Offers    jsonLDOffer `json:"offers"`
	URL       string      `json:"url"`
}

type jsonLDOffer struct {
	Type         string `json:"@type"`
	Price        string `json:"price"`
	Currency     string `json:"priceCurrency"`
	Availability string `json:"availability"`
}

// ExtractJSONLD reads tee times from embedded Schema.org SportsEvent markup.
// Sold-out events (OutOfStock offers) are skipped.
func ExtractJSONLD(doc *goquery.Document) []RawAvailabilityEntry {
	var entries []RawAvailabilityEntry

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		for _, ev := range decodeJSONLDEvents(raw) {
			if !strings.EqualFold(ev.Type, "SportsEvent") {
				continue
			}
			if strings.Contains(ev.Offers.Availability, "OutOfStock") {
				continue
			}
			timeText, ok := jsonLDStartTime(ev.StartDate)
			if !ok {
				continue
			}
			entries = append(entries, RawAvailabilityEntry{
				TimeText:   timeText,
				PriceTexts: []string{ev.Offers.Price},
				BookingURL: ev.URL,
			})
		}
	})

	return entries
}

// decodeJSONLDEvents accepts a single event object or a top-level array of
// them; malformed blocks decode to nothing.
func decodeJSONLDEvents(raw string) []jsonLDEvent {
	if strings.HasPrefix(raw, "[") {
		var events []jsonLDEvent
		if err := json.Unmarshal([]byte(raw), &events); err != nil {
			return nil
		}
		return events
	}
	var ev jsonLDEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return nil
	}
	return []jsonLDEvent{ev}
}

// jsonLDStartTime extracts the clock time from an ISO 8601 startDate.
func jsonLDStartTime(startDate string) (string, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, startDate); err == nil {
			return t.Format("15:04"), true
		}
	}
	return "", false
}
