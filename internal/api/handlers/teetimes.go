package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/cache"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/ranking"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/storage"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/clock"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/config"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/utils"
)

// TeeTimeHandler serves ranked availability searches.
type TeeTimeHandler struct {
	gateway  *storage.Gateway
	cache    *cache.Service
	regional *clock.Regional
	logger   *logrus.Logger
	cfg      *config.Config
}

func NewTeeTimeHandler(gateway *storage.Gateway, cacheSvc *cache.Service, regional *clock.Regional, logger *logrus.Logger, cfg *config.Config) *TeeTimeHandler {
	return &TeeTimeHandler{
		gateway:  gateway,
		cache:    cacheSvc,
		regional: regional,
		logger:   logger,
		cfg:      cfg,
	}
}

type searchRequest struct {
	ranking.Query
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type searchResult struct {
	Results []ranking.ScoredTeeTime `json:"results"`
	Total   int                     `json:"total"`
}

// Search ranks persisted slots against the caller's preferences. Results are
// cached briefly; past slots for the current day are excluded.
func (h *TeeTimeHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid search request", err.Error())
		return
	}
	if err := req.Query.Validate(); err != nil {
		utils.SendValidationError(c, "Invalid search request", err.Error())
		return
	}
	req.Page, req.PageSize = normalizePage(req.Page, req.PageSize, h.cfg)

	// The cached value is the full unpaginated result set, so the key must
	// ignore the paging fields: every page of one query shares an entry.
	key := searchKey(&req)
	var result searchResult
	if h.cache != nil {
		if err := h.cache.Get(c.Request.Context(), key, &result); err == nil {
			h.respond(c, &result, req.Page, req.PageSize)
			return
		} else if !errors.Is(err, cache.ErrMiss) {
			h.logger.WithError(err).Warn("Search cache read failed")
		}
	}

	candidates, err := h.gateway.CandidateSlots(c.Request.Context(), req.Dates, h.regional.CutoffNow())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load candidate slots")
		utils.SendInternalError(c, "Failed to search tee times")
		return
	}

	scored := ranking.Rank(candidates, &req.Query)
	result = searchResult{Results: scored, Total: len(scored)}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), key, &result, h.cfg.SearchCacheTTL); err != nil {
			h.logger.WithError(err).Warn("Search cache write failed")
		}
	}
	h.respond(c, &result, req.Page, req.PageSize)
}

func searchKey(req *searchRequest) string {
	return cache.SearchCacheKey(req.Query)
}

func (h *TeeTimeHandler) respond(c *gin.Context, result *searchResult, page, pageSize int) {
	start := (page - 1) * pageSize
	if start > len(result.Results) {
		start = len(result.Results)
	}
	end := start + pageSize
	if end > len(result.Results) {
		end = len(result.Results)
	}

	totalPages := (result.Total + pageSize - 1) / pageSize
	utils.SendSuccessWithMeta(c, result.Results[start:end], &utils.Meta{
		Page:       page,
		PerPage:    pageSize,
		Total:      int64(result.Total),
		TotalPages: totalPages,
	})
}

func normalizePage(page, pageSize int, cfg *config.Config) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}
	return page, pageSize
}
