package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/extract"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

type namedAdapter struct{ source string }

func (a *namedAdapter) Source() string { return a.source }
func (a *namedAdapter) FetchDay(context.Context, *models.Course, string) ([]extract.RawAvailabilityEntry, error) {
	return nil, nil
}

func TestRegistryForCourse(t *testing.T) {
	registry := NewRegistry(
		&namedAdapter{source: SourceForeUp},
		&namedAdapter{source: SourceTeeItUp},
		&namedAdapter{source: SourceChronoGolf},
	)

	t.Run("Priority order wins", func(t *testing.T) {
		course := &models.Course{FacilityIDs: datatypes.JSONMap{
			"teeitup":    "x",
			"chronogolf": "y",
		}}
		adapter, ok := registry.ForCourse(course)
		require.True(t, ok)
		assert.Equal(t, SourceTeeItUp, adapter.Source())
	})

	t.Run("Unmapped course", func(t *testing.T) {
		_, ok := registry.ForCourse(&models.Course{})
		assert.False(t, ok)
	})

	t.Run("Sources in order", func(t *testing.T) {
		assert.Equal(t, []string{SourceForeUp, SourceTeeItUp, SourceChronoGolf}, registry.Sources())
	})
}
