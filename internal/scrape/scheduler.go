package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/cache"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/storage"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/clock"
)

// Scheduler runs the orchestrator on a fixed interval in server mode and
// purges departed slots nightly. Overlapping runs are suppressed.
type Scheduler struct {
	orchestrator *Orchestrator
	gateway      *storage.Gateway
	cache        *cache.Service
	regional     *clock.Regional
	logger       *logrus.Logger
	cron         *cron.Cron
	interval     time.Duration

	mu        sync.Mutex
	isRunning bool
	inFlight  bool
	lastError error
}

func NewScheduler(orchestrator *Orchestrator, gateway *storage.Gateway, cacheSvc *cache.Service, regional *clock.Regional, logger *logrus.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		gateway:      gateway,
		cache:        cacheSvc,
		regional:     regional,
		logger:       logger,
		cron:         cron.New(),
		interval:     interval,
	}
}

// Start schedules the recurring scrape and the nightly purge, then kicks off
// an initial run in the background.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return fmt.Errorf("failed to schedule scrape runs: %w", err)
	}
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeStale); err != nil {
		return fmt.Errorf("failed to schedule nightly purge: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	go s.runOnce()

	s.logger.WithField("interval", s.interval.String()).Info("Scrape scheduler started")
	return nil
}

// Stop halts the cron and waits for any scheduled entry to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scrape scheduler stopped")
}

func (s *Scheduler) runOnce() {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.logger.Warn("Previous scrape run still in flight, skipping")
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	_, err := s.orchestrator.Run(context.Background())

	s.mu.Lock()
	s.inFlight = false
	s.lastError = err
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).Error("Scheduled scrape run failed")
		return
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSearches(context.Background()); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate search cache after scrape")
		}
	}
}

func (s *Scheduler) purgeStale() {
	n, err := s.gateway.PurgeBefore(context.Background(), s.regional.Today())
	if err != nil {
		s.logger.WithError(err).Error("Failed to purge departed slots")
		return
	}
	s.logger.WithField("purged", n).Info("Purged departed slots")
}

// Status reports scheduler state for the operational endpoint.
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":   s.isRunning,
		"in_flight": s.inFlight,
		"interval":  s.interval.String(),
	}
	if s.lastError != nil {
		status["last_error"] = s.lastError.Error()
	}
	if summary := s.orchestrator.LastSummary(); summary != nil {
		status["last_run"] = summary
	}

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}
	status["next_runs"] = nextRuns
	return status
}
