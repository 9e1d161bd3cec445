package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/storage"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/clock"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/config"
)

func setupSearchRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&models.TeeTimeSlot{}, &models.Course{}))
	require.NoError(t, storage.AutoMigrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	// Pin the clock well before the seeded slots so none are cut off.
	regional, err := clock.NewRegionalAt("America/Los_Angeles",
		time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	cfg := &config.Config{DefaultPageSize: 20, MaxPageSize: 100, SearchCacheTTL: time.Minute}
	handler := NewTeeTimeHandler(storage.NewGateway(db, log), nil, regional, log, cfg)

	router := gin.New()
	router.POST("/api/v1/teetimes/search", handler.Search)
	return router, db
}

func seedSearchData(t *testing.T, db *gorm.DB) {
	t.Helper()
	rating := 4.1
	course := &models.Course{Name: "Sharp Park", Slug: "sharp-park", Region: "Peninsula", Rating: &rating}
	require.NoError(t, db.Create(course).Error)

	price := 55.0
	for _, clockText := range []string{"07:30", "08:00", "14:00"} {
		slot := &models.TeeTimeSlot{
			CourseID: course.ID,
			Date:     "2026-09-04",
			Time:     clockText,
			Datetime: "2026-09-04 " + clockText,
			Holes:    18, Players: 4,
			Price:     &price,
			Source:    "foreup",
			ScrapedAt: time.Now().UTC(),
		}
		require.NoError(t, db.Create(slot).Error)
	}
}

func postSearch(t *testing.T, router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/teetimes/search", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSearchRequiresDates(t *testing.T) {
	router, _ := setupSearchRouter(t)

	rec := postSearch(t, router, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestSearchReturnsRankedResults(t *testing.T) {
	router, db := setupSearchRouter(t)
	seedSearchData(t, db)

	rec := postSearch(t, router, map[string]interface{}{
		"dates":       []string{"2026-09-04"},
		"time_window": map[string]string{"start": "06:00", "end": "10:00"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Rank       int     `json:"rank"`
			TotalScore float64 `json:"total_score"`
			Slot       struct {
				Time string `json:"time"`
			} `json:"slot"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	// The afternoon slot sits outside the window plus tolerance.
	require.Len(t, resp.Data, 2)
	assert.EqualValues(t, 2, resp.Meta.Total)
	assert.Equal(t, 1, resp.Data[0].Rank)
	assert.GreaterOrEqual(t, resp.Data[0].TotalScore, resp.Data[1].TotalScore)
}

func TestSearchPagination(t *testing.T) {
	router, db := setupSearchRouter(t)
	seedSearchData(t, db)

	rec := postSearch(t, router, map[string]interface{}{
		"dates":     []string{"2026-09-04"},
		"page":      2,
		"page_size": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []json.RawMessage `json:"data"`
		Meta struct {
			Page       int   `json:"page"`
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.EqualValues(t, 3, resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestSearchKeyIgnoresPaging(t *testing.T) {
	maxPrice := 80.0
	base := searchRequest{Page: 1, PageSize: 20}
	base.Dates = []string{"2026-09-04"}
	base.MaxPrice = &maxPrice

	paged := base
	paged.Page = 3
	paged.PageSize = 50

	// Every page of one query reads and writes the same cached result set.
	assert.Equal(t, searchKey(&base), searchKey(&paged))

	other := base
	other.Dates = []string{"2026-09-05"}
	assert.NotEqual(t, searchKey(&base), searchKey(&other))
}
