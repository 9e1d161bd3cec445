package ranking

import (
	"strconv"
	"strings"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

// timeWindowToleranceMinutes widens the requested window on both sides:
// a 06:00-10:00 request keeps a 10:45 slot, scored down for the distance.
const timeWindowToleranceMinutes = 60

// passesFilters applies every hard constraint. Order-independent: a slot
// either satisfies all constraints or is dropped.
func passesFilters(slot *models.TeeTimeSlot, q *Query) bool {
	if !dateRequested(slot.Date, q.Dates) {
		return false
	}
	if slot.Price != nil {
		if q.MaxPrice != nil && *slot.Price > *q.MaxPrice {
			return false
		}
		if q.MinPrice != nil && *slot.Price < *q.MinPrice {
			return false
		}
	}
	if q.TimeWindow != nil && !withinWindow(slot.Time, q.TimeWindow, timeWindowToleranceMinutes) {
		return false
	}
	if q.MinPlayers > 0 && slot.Players < q.MinPlayers {
		return false
	}
	if q.Holes != nil && slot.Holes != *q.Holes {
		return false
	}
	if q.Region != "" && !courseMatches(slot.Course, q.Region, func(c *models.Course) []string {
		return []string{c.Region, c.City}
	}) {
		return false
	}
	if q.CourseName != "" && !courseMatches(slot.Course, q.CourseName, func(c *models.Course) []string {
		return []string{c.Name}
	}) {
		return false
	}
	if q.MaxDistanceKm != nil && q.UserLocation != nil {
		if slot.Course == nil {
			return false
		}
		d := HaversineKm(q.UserLocation.Latitude, q.UserLocation.Longitude, slot.Course.Latitude, slot.Course.Longitude)
		if d > *q.MaxDistanceKm {
			return false
		}
	}
	return true
}

func dateRequested(date string, dates []string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func courseMatches(course *models.Course, needle string, fields func(*models.Course) []string) bool {
	if course == nil {
		return false
	}
	needle = strings.ToLower(needle)
	for _, f := range fields(course) {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// withinWindow checks an "HH:MM" clock time against a window widened by
// tolerance minutes on each side.
func withinWindow(clock string, w *TimeWindow, toleranceMinutes int) bool {
	t, ok := clockToMinutes(clock)
	if !ok {
		return false
	}
	start, okS := clockToMinutes(w.Start)
	end, okE := clockToMinutes(w.End)
	if !okS || !okE {
		// Malformed window: treat as no time preference.
		return true
	}
	return t >= start-toleranceMinutes && t <= end+toleranceMinutes
}

func clockToMinutes(clock string) (int, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
