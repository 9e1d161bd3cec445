// One-shot scrape run CLI. Exit code is zero even when individual courses
// fail; only a broken store or an unusable browser at startup is fatal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/adapters"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/browser"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/scrape"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/storage"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/clock"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/config"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/database"
)

var (
	flagDays    int
	flagVerbose bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scraper",
		Short: "Scrape Bay Area tee time availability",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one scrape pass over the lookahead window",
		RunE:  runScrape,
	}
	runCmd.Flags().IntVar(&flagDays, "days", 0, "Lookahead days (default from config)")
	runCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(runCmd)
	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logrus.StandardLogger()
	if flagVerbose || cfg.IsDevelopment() {
		logger.SetLevel(logrus.DebugLevel)
	}

	regional, err := clock.NewRegional(cfg.ServiceTimezone)
	if err != nil {
		return fmt.Errorf("loading service timezone: %w", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := storage.AutoMigrate(db.DB); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	gateway := storage.NewGateway(db.DB, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sessions := browser.NewManager(browser.Options{
		ChromePath:        cfg.ChromePath,
		PoolSize:          cfg.BrowserPoolSize,
		RestartEvery:      cfg.BrowserRestartEvery,
		NavigationTimeout: cfg.NavigationTimeout,
		DelayBase:         cfg.RequestDelayBase,
		DelayJitter:       cfg.RequestDelayJitter,
	}, logger)
	if err := sessions.Start(ctx); err != nil {
		return fmt.Errorf("starting browser sessions: %w", err)
	}
	defer sessions.Stop()

	retry := adapters.RetryPolicy{MaxAttempts: cfg.RetryMaxAttempts, BaseDelay: cfg.RetryBaseDelay}
	registry := adapters.NewRegistry(
		adapters.NewForeUpAdapter(adapters.NewFetcher(adapters.SourceForeUp, cfg.FetchTimeout, cfg.SourceRateLimit, retry, logger), logger),
		adapters.NewTeeItUpAdapter(adapters.NewFetcher(adapters.SourceTeeItUp, cfg.FetchTimeout, cfg.SourceRateLimit, retry, logger), logger),
		adapters.NewChronoGolfAdapter(sessions, logger),
	)
	discovery := adapters.NewGolfNowAdapter(sessions, adapters.BayAreaAnchors, logger)

	days := cfg.LookaheadDays
	if flagDays > 0 {
		days = flagDays
	}

	orchestrator := scrape.NewOrchestrator(registry, discovery, gateway, sessions, regional, logger, scrape.Options{
		LookaheadDays:     days,
		SourceConcurrency: cfg.SourceConcurrency,
		InterCourseDelay:  cfg.InterCourseDelay,
	})

	summary, err := orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("scrape run: %w", err)
	}

	fmt.Printf("Scraped %d/%d courses (%d skipped), wrote %d slots in %s\n",
		summary.CoursesSucceeded, summary.CoursesAttempted, summary.CoursesSkipped,
		summary.SlotsWritten, summary.Elapsed.Round(100*time.Millisecond))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
