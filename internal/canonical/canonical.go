// Package canonical maps raw availability entries onto the canonical course
// catalog, producing the persisted TeeTimeSlot shape.
package canonical

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/extract"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

const (
	defaultHoles   = 18
	defaultPlayers = 4
)

// Lookup resolves a booking platform's facility identifier to a canonical
// course. Built once per run from the external course catalog.
type Lookup struct {
	byFacility map[facilityKey]*models.Course
}

type facilityKey struct {
	source     string
	facilityID string
}

// NewLookup indexes every (source, facility id) pair the catalog knows about.
func NewLookup(courses []models.Course) *Lookup {
	idx := make(map[facilityKey]*models.Course)
	for i := range courses {
		course := &courses[i]
		for source := range course.FacilityIDs {
			if id, ok := course.FacilityID(source); ok {
				idx[facilityKey{source: source, facilityID: id}] = course
			}
		}
	}
	return &Lookup{byFacility: idx}
}

// Resolve returns the canonical course for a facility identifier.
func (l *Lookup) Resolve(source, facilityID string) (*models.Course, bool) {
	course, ok := l.byFacility[facilityKey{source: source, facilityID: facilityID}]
	return course, ok
}

// Canonicalizer turns raw entries into TeeTimeSlot rows.
type Canonicalizer struct {
	lookup *Lookup
	logger *logrus.Logger
}

func New(lookup *Lookup, logger *logrus.Logger) *Canonicalizer {
	return &Canonicalizer{lookup: lookup, logger: logger}
}

// Canonicalize converts the entries from one scrape pass for a calendar date.
// Entries with unparseable times or unmapped facility identifiers are
// dropped; the latter is logged at warning level since it usually means the
// catalog is missing a mapping, not that the scrape failed.
func (c *Canonicalizer) Canonicalize(entries []extract.RawAvailabilityEntry, date string, scrapedAt time.Time) []models.TeeTimeSlot {
	slots := make([]models.TeeTimeSlot, 0, len(entries))

	for _, e := range entries {
		course, ok := c.lookup.Resolve(e.Source, e.FacilityID)
		if !ok {
			c.logger.WithFields(logrus.Fields{
				"source":      e.Source,
				"facility_id": e.FacilityID,
			}).Warn("No catalog mapping for facility, dropping entry")
			continue
		}

		timeOfDay, ok := extract.NormalizeTime(e.TimeText)
		if !ok {
			continue
		}

		holes := extract.ParseHoles(e.HolesText)
		if holes == 0 {
			holes = defaultHoles
		}
		players := extract.ParsePlayers(e.PlayersText)
		if players == 0 {
			players = defaultPlayers
		}

		price := extract.FirstPrice(e.PriceTexts)
		var originalPrice *float64
		if price != nil && len(e.PriceTexts) > 1 {
			originalPrice = highestPrice(e.PriceTexts, *price)
		}

		slots = append(slots, models.TeeTimeSlot{
			CourseID:      course.ID,
			Date:          date,
			Time:          timeOfDay,
			Datetime:      date + " " + timeOfDay,
			Holes:         holes,
			Players:       players,
			Price:         price,
			OriginalPrice: originalPrice,
			HasCart:       e.HasCart,
			BookingURL:    e.BookingURL,
			Source:        e.Source,
			ScrapedAt:     scrapedAt,
		})
	}

	return slots
}

// highestPrice scans all price texts for a rate strictly above the charged
// price; platforms show the rack rate next to a discounted fee.
func highestPrice(texts []string, charged float64) *float64 {
	var best *float64
	for _, t := range texts {
		p := extract.ParsePrice(t)
		if p == nil || *p <= charged {
			continue
		}
		if best == nil || *p > *best {
			best = p
		}
	}
	return best
}
