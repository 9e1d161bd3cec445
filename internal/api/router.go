// Package api wires the HTTP surface: ranked searches, the course catalog
// and operational status.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/api/handlers"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/cache"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/scrape"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/storage"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/clock"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/config"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/database"
)

// SetupRoutes registers all /api/v1 routes on the given group.
func SetupRoutes(group *gin.RouterGroup, db *database.DB, gateway *storage.Gateway, cacheSvc *cache.Service, scheduler *scrape.Scheduler, regional *clock.Regional, logger *logrus.Logger, cfg *config.Config) {
	teeTimeHandler := handlers.NewTeeTimeHandler(gateway, cacheSvc, regional, logger, cfg)
	courseHandler := handlers.NewCourseHandler(gateway, logger)
	healthHandler := handlers.NewHealthHandler(db, scheduler)

	group.POST("/teetimes/search", teeTimeHandler.Search)

	group.GET("/courses", courseHandler.ListCourses)
	group.GET("/courses/:slug", courseHandler.GetCourse)

	group.GET("/scrape/status", healthHandler.ScrapeStatus)
}
