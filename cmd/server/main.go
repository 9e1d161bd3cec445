package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/adapters"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/api"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/api/handlers"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/api/middleware"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/browser"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/cache"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/scrape"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/storage"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/clock"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/config"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger := logrus.StandardLogger()
	if cfg.IsDevelopment() {
		logger.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	regional, err := clock.NewRegional(cfg.ServiceTimezone)
	if err != nil {
		logrus.Fatalf("Failed to load service timezone: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := storage.AutoMigrate(db.DB); err != nil {
		logrus.Fatalf("Failed to migrate schema: %v", err)
	}
	gateway := storage.NewGateway(db.DB, logger)
	cacheService := cache.NewService(redisClient)

	// Browser sessions back the client-rendered sources. A failed Chrome
	// boot disables those sources rather than the whole server.
	sessions := browser.NewManager(browser.Options{
		ChromePath:        cfg.ChromePath,
		PoolSize:          cfg.BrowserPoolSize,
		RestartEvery:      cfg.BrowserRestartEvery,
		NavigationTimeout: cfg.NavigationTimeout,
		DelayBase:         cfg.RequestDelayBase,
		DelayJitter:       cfg.RequestDelayJitter,
	}, logger)
	var discovery scrape.DiscoverySource
	registered := []adapters.Adapter{}
	if err := sessions.Start(context.Background()); err != nil {
		logger.WithError(err).Warn("Browser sessions unavailable, client-rendered sources disabled")
		sessions = nil
	} else {
		defer sessions.Stop()
		registered = append(registered, adapters.NewChronoGolfAdapter(sessions, logger))
		discovery = adapters.NewGolfNowAdapter(sessions, adapters.BayAreaAnchors, logger)
	}

	retry := adapters.RetryPolicy{MaxAttempts: cfg.RetryMaxAttempts, BaseDelay: cfg.RetryBaseDelay}
	registered = append([]adapters.Adapter{
		adapters.NewForeUpAdapter(adapters.NewFetcher(adapters.SourceForeUp, cfg.FetchTimeout, cfg.SourceRateLimit, retry, logger), logger),
		adapters.NewTeeItUpAdapter(adapters.NewFetcher(adapters.SourceTeeItUp, cfg.FetchTimeout, cfg.SourceRateLimit, retry, logger), logger),
	}, registered...)
	registry := adapters.NewRegistry(registered...)

	orchestrator := scrape.NewOrchestrator(registry, discovery, gateway, sessions, regional, logger, scrape.Options{
		LookaheadDays:     cfg.LookaheadDays,
		SourceConcurrency: cfg.SourceConcurrency,
		InterCourseDelay:  cfg.InterCourseDelay,
	})

	interval, err := time.ParseDuration(cfg.ScrapeInterval)
	if err != nil {
		logger.Warnf("Invalid scrape interval, using default 4h: %v", err)
		interval = 4 * time.Hour
	}
	scheduler := scrape.NewScheduler(orchestrator, gateway, cacheService, regional, logger, interval)
	if err := scheduler.Start(); err != nil {
		logger.Errorf("Failed to start scrape scheduler: %v", err)
	}
	defer scheduler.Stop()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(db, scheduler)
	router.GET("/health", healthHandler.Health)

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, gateway, cacheService, scheduler, regional, logger, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}
