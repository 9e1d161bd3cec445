package adapters

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fastFetcher(source string) *Fetcher {
	return NewFetcher(source, 5*time.Second, 100, RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}, quietLogger())
}

func TestForeUpFetchDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/booking/times", r.URL.Path)
		assert.Equal(t, "19348", r.URL.Query().Get("schedule_id"))
		assert.Equal(t, "09-04-2026", r.URL.Query().Get("date"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"time":"2026-09-04 07:30","holes":18,"green_fee":65.00,"cart_fee":18.00,"available_spots":4},
			{"time":"2026-09-04 07:40","holes":18,"green_fee":65.00,"cart_fee":0,"available_spots":2}
		]`))
	}))
	defer server.Close()

	adapter := NewForeUpAdapter(fastFetcher(SourceForeUp), quietLogger())
	adapter.baseURL = server.URL

	course := &models.Course{
		Slug:        "harding-park",
		FacilityIDs: datatypes.JSONMap{"foreup": "19348"},
	}

	entries, err := adapter.FetchDay(context.Background(), course, "2026-09-04")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, SourceForeUp, entries[0].Source)
	assert.Equal(t, "19348", entries[0].FacilityID)
	assert.Equal(t, "07:30", entries[0].TimeText)
	assert.Equal(t, []string{"$65.00"}, entries[0].PriceTexts)
	assert.True(t, entries[0].HasCart)
	assert.False(t, entries[1].HasCart)
	assert.Equal(t, "2", entries[1].PlayersText)
}

func TestForeUpFetchDayRequiresMapping(t *testing.T) {
	adapter := NewForeUpAdapter(fastFetcher(SourceForeUp), quietLogger())

	course := &models.Course{Slug: "mystery-links"}
	_, err := adapter.FetchDay(context.Background(), course, "2026-09-04")
	assert.Error(t, err)
}

func TestForeUpFetchDayBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	adapter := NewForeUpAdapter(fastFetcher(SourceForeUp), quietLogger())
	adapter.baseURL = server.URL

	course := &models.Course{Slug: "harding-park", FacilityIDs: datatypes.JSONMap{"foreup": "19348"}}
	_, err := adapter.FetchDay(context.Background(), course, "2026-09-04")
	assert.Error(t, err)
}
