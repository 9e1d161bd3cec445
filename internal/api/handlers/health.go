package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/scrape"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/database"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/utils"
)

// HealthHandler exposes liveness and scrape-run status.
type HealthHandler struct {
	db        *database.DB
	scheduler *scrape.Scheduler
}

func NewHealthHandler(db *database.DB, scheduler *scrape.Scheduler) *HealthHandler {
	return &HealthHandler{db: db, scheduler: scheduler}
}

// Health reports process and database liveness.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if sqlDB, err := h.db.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"time":   time.Now().UTC(),
	})
}

// ScrapeStatus reports the scheduler state and the last run summary.
func (h *HealthHandler) ScrapeStatus(c *gin.Context) {
	if h.scheduler == nil {
		utils.SendNotFound(c, "Scraping is not enabled on this instance")
		return
	}
	utils.SendSuccess(c, h.scheduler.Status())
}
