package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

const teeItUpPage = `<html><body>
<div class="teetime"><span class="time">7:30 AM</span><span class="price">$58</span><a href="/book/1">Book</a></div>
<div class="teetime"><span class="time">7:40 AM</span><span class="price">$58</span></div>
</body></html>`

func TestTeeItUpFetchDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courses/corica-park/teetimes", r.URL.Path)
		assert.Equal(t, "2026-09-04", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(teeItUpPage))
	}))
	defer server.Close()

	adapter := NewTeeItUpAdapter(fastFetcher(SourceTeeItUp), quietLogger())
	adapter.baseURL = server.URL

	course := &models.Course{
		Slug:        "corica-park-south",
		FacilityIDs: datatypes.JSONMap{"teeitup": "corica-park"},
	}

	entries, err := adapter.FetchDay(context.Background(), course, "2026-09-04")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, SourceTeeItUp, entries[0].Source)
	assert.Equal(t, "corica-park", entries[0].FacilityID)
	assert.Equal(t, "/book/1", entries[0].BookingURL)
	// Entries without their own link fall back to the page URL.
	assert.Contains(t, entries[1].BookingURL, "/courses/corica-park/teetimes")
}

func TestTeeItUpFetchDayNoAvailability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>No tee times available for this date.</p></body></html>`))
	}))
	defer server.Close()

	adapter := NewTeeItUpAdapter(fastFetcher(SourceTeeItUp), quietLogger())
	adapter.baseURL = server.URL

	course := &models.Course{Slug: "corica-park-south", FacilityIDs: datatypes.JSONMap{"teeitup": "corica-park"}}
	entries, err := adapter.FetchDay(context.Background(), course, "2026-09-04")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
