package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

func candidateSet() []models.TeeTimeSlot {
	course := func(name, region string, lat, lng float64, rating float64) *models.Course {
		return &models.Course{Name: name, City: region, Region: region, Latitude: lat, Longitude: lng, Rating: &rating}
	}

	return []models.TeeTimeSlot{
		{
			Date: "2026-09-04", Time: "07:30", Datetime: "2026-09-04 07:30",
			Holes: 18, Players: 4, Price: priceOf(45),
			Course: course("Sharp Park", "Peninsula", 37.6233, -122.4926, 4.1),
		},
		{
			Date: "2026-09-04", Time: "08:00", Datetime: "2026-09-04 08:00",
			Holes: 18, Players: 4, Price: priceOf(150),
			Course: course("Cinnabar Hills", "South Bay", 37.1749, -121.8457, 4.5),
		},
		{
			Date: "2026-09-04", Time: "14:30", Datetime: "2026-09-04 14:30",
			Holes: 18, Players: 2, Price: priceOf(55),
			Course: course("Tilden Park", "East Bay", 37.9049, -122.2441, 4.0),
		},
	}
}

func TestRankMorningBudgetSearch(t *testing.T) {
	q := &Query{
		Dates:        []string{"2026-09-04"},
		TimeWindow:   &TimeWindow{Start: "06:00", End: "10:00"},
		MaxPrice:     priceOf(100),
		UserLocation: &Location{Latitude: 37.7749, Longitude: -122.4194},
	}

	results := Rank(candidateSet(), q)

	// The expensive slot fails the price filter; the afternoon slot falls
	// outside the window plus tolerance. One survivor.
	require.Len(t, results, 1)
	assert.Equal(t, "Sharp Park", results[0].Slot.Course.Name)
	assert.Equal(t, 1, results[0].Rank)
	assert.Greater(t, results[0].TotalScore, 0.0)
}

func TestRankOrdersByTotalScore(t *testing.T) {
	q := &Query{Dates: []string{"2026-09-04"}}
	results := Rank(candidateSet(), q)

	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].TotalScore, results[i].TotalScore)
		assert.Equal(t, i+1, results[i].Rank)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	q := &Query{
		Dates:       []string{"2026-09-04"},
		TimeWindow:  &TimeWindow{Start: "07:00", End: "15:00"},
		QualityMode: QualityHighRated,
	}

	first := Rank(candidateSet(), q)
	second := Rank(candidateSet(), q)
	assert.Equal(t, first, second)
}

func TestRankTiedScoresKeepInputOrder(t *testing.T) {
	// Identical slots at different times produce identical totals; the
	// earlier input (earlier datetime, per gateway ordering) must rank first.
	course := &models.Course{Name: "Monarch Bay", Region: "East Bay"}
	candidates := []models.TeeTimeSlot{
		{Date: "2026-09-04", Time: "09:00", Datetime: "2026-09-04 09:00", Holes: 18, Players: 4, Price: priceOf(60), Course: course},
		{Date: "2026-09-04", Time: "09:10", Datetime: "2026-09-04 09:10", Holes: 18, Players: 4, Price: priceOf(60), Course: course},
	}

	results := Rank(candidates, &Query{Dates: []string{"2026-09-04"}})
	require.Len(t, results, 2)
	assert.Equal(t, results[0].TotalScore, results[1].TotalScore)
	assert.Equal(t, "09:00", results[0].Slot.Time)
	assert.Equal(t, "09:10", results[1].Slot.Time)
}

func TestRankRejectsImpossibleConstraints(t *testing.T) {
	assert.Empty(t, Rank(candidateSet(), nil))

	assert.Empty(t, Rank(candidateSet(), &Query{
		Dates:    []string{"2026-09-04"},
		MaxPrice: priceOf(-1),
	}))

	assert.Empty(t, Rank(candidateSet(), &Query{
		Dates:    []string{"2026-09-04"},
		MinPrice: priceOf(100),
		MaxPrice: priceOf(50),
	}))
}

func TestRankCustomWeights(t *testing.T) {
	// All weight on price: the cheapest slot must win regardless of quality.
	q := &Query{
		Dates:   []string{"2026-09-04"},
		Weights: &Weights{Price: 1.0},
	}

	results := Rank(candidateSet(), q)
	require.Len(t, results, 3)
	assert.Equal(t, "Sharp Park", results[0].Slot.Course.Name)
}
