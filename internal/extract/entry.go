// Package extract turns raw page text, DOM fragments and embedded JSON into
// candidate availability entries. Everything in this package is pure: no
// network, no clock, no storage. Adapters feed it whatever a booking platform
// rendered and stamp the results with their own source context.
package extract

// RawAvailabilityEntry is one candidate tee time as it appeared on a page,
// before any normalization. Entries are ephemeral; they are discarded once
// canonicalized.
type RawAvailabilityEntry struct {
	Source      string
	FacilityID  string
	TimeText    string
	PriceTexts  []string
	HolesText   string
	PlayersText string
	HasCart     bool
	BookingURL  string
}

// Dedup collapses entries that refer to the same logical slot. Multiple DOM
// matches for one slot are common when a page repeats the time in several
// elements; the composite key is (normalized time, normalized price).
// Entries whose time cannot be normalized are dropped.
func Dedup(entries []RawAvailabilityEntry) []RawAvailabilityEntry {
	seen := make(map[[2]string]bool, len(entries))
	out := make([]RawAvailabilityEntry, 0, len(entries))
	for _, e := range entries {
		t, ok := NormalizeTime(e.TimeText)
		if !ok {
			continue
		}
		priceKey := ""
		if p := FirstPrice(e.PriceTexts); p != nil {
			priceKey = formatPriceKey(*p)
		}
		key := [2]string{t, priceKey}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

// FirstPrice returns the first parseable price among the raw texts.
func FirstPrice(texts []string) *float64 {
	for _, t := range texts {
		if p := ParsePrice(t); p != nil {
			return p
		}
	}
	return nil
}
