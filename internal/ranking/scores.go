package ranking

import (
	"math"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

// Typical regional green-fee band used when no price ceiling is given.
const (
	regionalPriceLow  = 30.0
	regionalPriceHigh = 200.0
)

// scorePrice maps price against the budget. With a ceiling, the fraction
// under budget maps linearly to [50,100]; over-budget slots score 0, though
// the filter stage should already have removed them. Without a ceiling, the
// regional band maps to [100,20]: cheap is good, but not overwhelmingly so.
func scorePrice(slot *models.TeeTimeSlot, q *Query) float64 {
	if slot.Price == nil {
		return 50
	}
	price := *slot.Price

	if q.MaxPrice != nil {
		max := *q.MaxPrice
		if max <= 0 || price > max {
			return 0
		}
		underBudget := (max - price) / max
		return 50 + 50*underBudget
	}

	if price <= regionalPriceLow {
		return 100
	}
	if price >= regionalPriceHigh {
		return 20
	}
	return 100 - (price-regionalPriceLow)/(regionalPriceHigh-regionalPriceLow)*80
}

// timeDecayPerHour is the per-hour penalty for slots outside the requested
// window (which survive filtering thanks to the one-hour tolerance).
const timeDecayPerHour = 30.0

func scoreTime(slot *models.TeeTimeSlot, q *Query) float64 {
	if q.TimeWindow == nil {
		return 80
	}
	t, ok := clockToMinutes(slot.Time)
	if !ok {
		return 80
	}
	start, okS := clockToMinutes(q.TimeWindow.Start)
	end, okE := clockToMinutes(q.TimeWindow.End)
	if !okS || !okE {
		return 80
	}
	if t >= start && t <= end {
		return 100
	}
	var distMinutes int
	if t < start {
		distMinutes = start - t
	} else {
		distMinutes = t - end
	}
	score := 100 - float64(distMinutes)/60*timeDecayPerHour
	return math.Max(score, 0)
}

func scoreDistance(slot *models.TeeTimeSlot, q *Query) float64 {
	if q.UserLocation == nil || slot.Course == nil {
		return 70
	}
	d := HaversineKm(q.UserLocation.Latitude, q.UserLocation.Longitude, slot.Course.Latitude, slot.Course.Longitude)

	if q.MaxDistanceKm != nil && *q.MaxDistanceKm > 0 {
		// Violators were filtered; survivors map linearly to [70,100].
		frac := d / *q.MaxDistanceKm
		if frac > 1 {
			frac = 1
		}
		return 100 - 30*frac
	}

	switch {
	case d <= 5:
		return 100
	case d <= 15:
		return 90
	case d <= 30:
		return 80
	case d <= 50:
		return 65
	case d <= 80:
		return 50
	default:
		return 40
	}
}

// scoreQuality maps the course's aggregate rating through the curve selected
// by the preference mode. Each mode has its own neutral default for unrated
// courses.
func scoreQuality(slot *models.TeeTimeSlot, q *Query) float64 {
	var rating *float64
	if slot.Course != nil {
		rating = slot.Course.Rating
	}

	switch q.QualityMode {
	case QualityHighRated:
		if rating == nil {
			return 50
		}
		switch r := *rating; {
		case r >= 4.5:
			return 100
		case r >= 4.0:
			return 85
		case r >= 3.5:
			return 65
		case r >= 3.0:
			return 45
		default:
			return 30
		}
	case QualityValue:
		// Rating matters little in value mode: a narrow band around 60.
		if rating == nil {
			return 60
		}
		return clamp(50+(*rating-3.0)*10, 40, 75)
	case QualityHiddenGems:
		// Reward solid-but-not-famous courses; the very top of the rating
		// scale is what everyone already knows about.
		if rating == nil {
			return 65
		}
		switch r := *rating; {
		case r >= 3.5 && r <= 4.3:
			return 95
		case r > 4.3:
			return 75
		case r >= 3.0:
			return 70
		default:
			return 45
		}
	default: // balanced
		if rating == nil {
			return 70
		}
		return clamp(60+(*rating-3.0)*20, 40, 100)
	}
}

// scoreValue starts at a neutral 50, adds up to 50 proportional to the
// advertised discount and up to 30 from a rating-to-price ratio, capped at
// 100.
func scoreValue(slot *models.TeeTimeSlot, _ *Query) float64 {
	score := 50.0

	score += slot.DiscountPercent() / 100 * 50

	if slot.Price != nil && *slot.Price > 0 && slot.Course != nil && slot.Course.Rating != nil {
		ratio := *slot.Course.Rating / *slot.Price * 300
		score += math.Min(ratio, 30)
	}

	return math.Min(score, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Reason thresholds: a sub-score crossing its threshold earns the slot a
// human-readable match reason.
func matchReasons(s SubScores, slot *models.TeeTimeSlot) []string {
	var reasons []string
	if s.Price >= 90 {
		reasons = append(reasons, "great price")
	}
	if s.Time >= 95 {
		reasons = append(reasons, "perfect time match")
	}
	if s.Distance >= 90 {
		reasons = append(reasons, "close to you")
	}
	if s.Quality >= 90 {
		reasons = append(reasons, "highly rated course")
	}
	if s.Value >= 85 {
		reasons = append(reasons, "excellent value")
	}
	if slot.DiscountPercent() >= 20 {
		reasons = append(reasons, "discounted rate")
	}
	return reasons
}
