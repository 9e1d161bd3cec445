// Package adapters holds one scrape adapter per booking platform. Every
// adapter targets a single (course, date) pair per call and returns zero or
// more raw availability entries; the extraction heuristics themselves live in
// internal/extract.
package adapters

import (
	"context"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/extract"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

// Source tags. A course is scraped by the first adapter in priority order
// whose source tag appears in its facility-identifier map.
const (
	SourceForeUp     = "foreup"
	SourceTeeItUp    = "teeitup"
	SourceChronoGolf = "chronogolf"
	SourceGolfNow    = "golfnow"
)

// Adapter scrapes availability for one course on one calendar date.
type Adapter interface {
	Source() string
	FetchDay(ctx context.Context, course *models.Course, date string) ([]extract.RawAvailabilityEntry, error)
}

// Registry resolves courses to adapters in a fixed priority order: typed
// JSON first, server-rendered HTML second, client-rendered last.
type Registry struct {
	ordered []Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{ordered: adapters}
}

// ForCourse returns the highest-priority adapter that can scrape the course,
// or false when the course has no known source mapping.
func (r *Registry) ForCourse(course *models.Course) (Adapter, bool) {
	for _, a := range r.ordered {
		if course.HasSource(a.Source()) {
			return a, true
		}
	}
	return nil, false
}

// Sources lists the registered source tags in priority order.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(r.ordered))
	for _, a := range r.ordered {
		out = append(out, a.Source())
	}
	return out
}
