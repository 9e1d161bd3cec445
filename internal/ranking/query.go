// Package ranking filters, scores and orders persisted tee times against a
// searcher's preferences. The engine is pure: no I/O, no clock, and malformed
// inputs degrade to neutral defaults instead of erroring.
package ranking

import (
	"fmt"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

// TimeWindow bounds the preferred start times, inclusive, as "HH:MM".
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Location is a searcher-supplied origin for distance scoring.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// QualityMode selects the rating→score curve.
type QualityMode string

const (
	QualityBalanced   QualityMode = "balanced"
	QualityHighRated  QualityMode = "prioritize-highly-rated"
	QualityValue      QualityMode = "prioritize-value"
	QualityHiddenGems QualityMode = "prioritize-hidden-gems"
)

// Weights are the per-factor multipliers for the combined score.
type Weights struct {
	Price    float64 `json:"price"`
	Time     float64 `json:"time"`
	Distance float64 `json:"distance"`
	Quality  float64 `json:"quality"`
	Value    float64 `json:"value"`
}

func DefaultWeights() Weights {
	return Weights{Price: 0.30, Time: 0.25, Distance: 0.20, Quality: 0.15, Value: 0.10}
}

// Query is one ranked search over the persisted schedule.
type Query struct {
	Dates         []string    `json:"dates"`
	TimeWindow    *TimeWindow `json:"time_window,omitempty"`
	MinPrice      *float64    `json:"min_price,omitempty"`
	MaxPrice      *float64    `json:"max_price,omitempty"`
	Region        string      `json:"region,omitempty"`
	CourseName    string      `json:"course_name,omitempty"`
	MinPlayers    int         `json:"min_players,omitempty"`
	Holes         *int        `json:"holes,omitempty"`
	UserLocation  *Location   `json:"user_location,omitempty"`
	MaxDistanceKm *float64    `json:"max_distance_km,omitempty"`
	QualityMode   QualityMode `json:"quality_mode,omitempty"`
	Weights       *Weights    `json:"weights,omitempty"`
}

// Validate reports missing structurally required parameters. Out-of-range
// optional parameters are not an error; they simply match nothing.
func (q *Query) Validate() error {
	if len(q.Dates) == 0 {
		return fmt.Errorf("at least one date is required")
	}
	return nil
}

// hasInvalidOptional reports optional parameters no slot can ever satisfy.
func (q *Query) hasInvalidOptional() bool {
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return true
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return true
	}
	if q.MaxDistanceKm != nil && *q.MaxDistanceKm < 0 {
		return true
	}
	return false
}

func (q *Query) weights() Weights {
	if q.Weights != nil {
		return *q.Weights
	}
	return DefaultWeights()
}

// SubScores are the five independent 0-100 factor scores.
type SubScores struct {
	Price    float64 `json:"price"`
	Time     float64 `json:"time"`
	Distance float64 `json:"distance"`
	Quality  float64 `json:"quality"`
	Value    float64 `json:"value"`
}

// ScoredTeeTime is a ranked search hit. Never persisted; recomputed per
// query.
type ScoredTeeTime struct {
	Slot         models.TeeTimeSlot `json:"slot"`
	Scores       SubScores          `json:"scores"`
	TotalScore   float64            `json:"total_score"`
	Rank         int                `json:"rank"`
	MatchReasons []string           `json:"match_reasons"`
}
