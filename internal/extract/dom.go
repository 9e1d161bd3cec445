package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors covering the slot-card markup the supported booking platforms
// render. Cards carry the time and price either as data attributes or as
// child elements.
const (
	slotCardSelector = `[data-teetime], .teetime, .tee-time, .booking-slot, .time-slot`
	timeSelector     = `.time, .teetime-time, .booking-start-time`
	priceSelector    = `.price, .rate, .booking-rate`
	cartMarker       = "cart"
)

// ExtractAttributes reads tee times from slot-card markup, preferring data
// attributes over child-element text.
func ExtractAttributes(doc *goquery.Document) []RawAvailabilityEntry {
	var entries []RawAvailabilityEntry

	doc.Find(slotCardSelector).Each(func(_ int, card *goquery.Selection) {
		timeText := cardField(card, "data-time", timeSelector)
		if timeText == "" {
			return
		}

		var priceTexts []string
		if p, ok := card.Attr("data-price"); ok {
			priceTexts = append(priceTexts, p)
		}
		card.Find(priceSelector).Each(func(_ int, ps *goquery.Selection) {
			priceTexts = append(priceTexts, strings.TrimSpace(ps.Text()))
		})

		bookingURL := ""
		if href, ok := card.Find("a").First().Attr("href"); ok {
			bookingURL = href
		}

		entries = append(entries, RawAvailabilityEntry{
			TimeText:    timeText,
			PriceTexts:  priceTexts,
			HolesText:   cardField(card, "data-holes", ".holes"),
			PlayersText: cardField(card, "data-players", ".players, .spots"),
			HasCart:     strings.Contains(strings.ToLower(card.Text()), cartMarker),
			BookingURL:  bookingURL,
		})
	})

	return entries
}

// cardField reads a slot-card field from a data attribute, falling back to
// the text of a child element.
func cardField(card *goquery.Selection, attr, selector string) string {
	if v, ok := card.Attr(attr); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(card.Find(selector).First().Text())
}
