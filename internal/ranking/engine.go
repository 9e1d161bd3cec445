package ranking

import (
	"math"
	"sort"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

// Rank filters the candidate slots against the query's hard constraints,
// scores the survivors and returns them ordered best-first.
//
// Ties in total score keep their input order (stable sort). Candidates
// arrive from the gateway ordered by datetime, so tied slots surface
// earliest-time-first; this is the documented tie-break policy.
func Rank(candidates []models.TeeTimeSlot, q *Query) []ScoredTeeTime {
	if q == nil || q.hasInvalidOptional() {
		return []ScoredTeeTime{}
	}

	w := q.weights()
	scored := make([]ScoredTeeTime, 0, len(candidates))

	for i := range candidates {
		slot := &candidates[i]
		if !passesFilters(slot, q) {
			continue
		}

		s := SubScores{
			Price:    scorePrice(slot, q),
			Time:     scoreTime(slot, q),
			Distance: scoreDistance(slot, q),
			Quality:  scoreQuality(slot, q),
			Value:    scoreValue(slot, q),
		}
		total := s.Price*w.Price + s.Time*w.Time + s.Distance*w.Distance + s.Quality*w.Quality + s.Value*w.Value

		scored = append(scored, ScoredTeeTime{
			Slot:         *slot,
			Scores:       s,
			TotalScore:   round2(total),
			MatchReasons: matchReasons(s, slot),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
