// Package scrape drives adapters across the course catalog and the lookahead
// window. Every (course, date) pair is an isolated unit of work: one failing
// facility never aborts the run.
package scrape

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/adapters"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/browser"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/canonical"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/extract"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/storage"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/clock"
)

// DiscoverySource is the aggregate variant of a scrape source: one region-wide
// search per date instead of one fetch per course.
type DiscoverySource interface {
	Source() string
	FetchRegion(ctx context.Context, date string) ([]extract.RawAvailabilityEntry, error)
}

type Options struct {
	LookaheadDays     int
	SourceConcurrency int
	InterCourseDelay  time.Duration
}

// RunSummary aggregates one orchestrated run for observability. Individual
// unit failures are counted here, never surfaced to callers.
type RunSummary struct {
	StartedAt        time.Time     `json:"started_at"`
	CoursesAttempted int           `json:"courses_attempted"`
	CoursesSucceeded int           `json:"courses_succeeded"`
	CoursesSkipped   int           `json:"courses_skipped"`
	SlotsWritten     int64         `json:"slots_written"`
	Elapsed          time.Duration `json:"elapsed"`
}

type Orchestrator struct {
	registry  *adapters.Registry
	discovery DiscoverySource
	gateway   *storage.Gateway
	sessions  *browser.Manager
	regional  *clock.Regional
	logger    *logrus.Logger
	opts      Options

	mu          sync.Mutex
	lastSummary *RunSummary
}

// NewOrchestrator wires a run. discovery and sessions may be nil when no
// client-rendered source is configured.
func NewOrchestrator(
	registry *adapters.Registry,
	discovery DiscoverySource,
	gateway *storage.Gateway,
	sessions *browser.Manager,
	regional *clock.Regional,
	logger *logrus.Logger,
	opts Options,
) *Orchestrator {
	if opts.LookaheadDays < 1 {
		opts.LookaheadDays = 1
	}
	if opts.SourceConcurrency < 1 {
		opts.SourceConcurrency = 1
	}
	return &Orchestrator{
		registry:  registry,
		discovery: discovery,
		gateway:   gateway,
		sessions:  sessions,
		regional:  regional,
		logger:    logger,
		opts:      opts,
	}
}

// Run scrapes the cross product of lookahead dates and mapped courses, then
// the aggregate discovery source, and returns the run summary. The returned
// error is reserved for catastrophic conditions (catalog unreadable); unit
// failures only lower the succeeded count.
func (o *Orchestrator) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{StartedAt: start.UTC()}

	courses, err := o.gateway.Courses(ctx)
	if err != nil {
		return nil, err
	}
	lookup := canonical.NewLookup(courses)
	canon := canonical.New(lookup, o.logger)
	dates := o.regional.DateWindow(o.opts.LookaheadDays)

	o.logger.WithFields(logrus.Fields{
		"courses": len(courses),
		"dates":   len(dates),
	}).Info("Starting scrape run")

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		semaphores = o.sourceSemaphores()
	)

	for i := range courses {
		course := &courses[i]
		adapter, ok := o.registry.ForCourse(course)
		if !ok {
			summary.CoursesSkipped++
			o.logger.WithField("course", course.Slug).Debug("No source mapping, skipping course")
			continue
		}
		summary.CoursesAttempted++

		wg.Add(1)
		go func() {
			defer wg.Done()
			written, failed := o.scrapeCourse(ctx, adapter, canon, course, dates, semaphores[adapter.Source()])
			mu.Lock()
			summary.SlotsWritten += written
			if !failed {
				summary.CoursesSucceeded++
			}
			mu.Unlock()
			if o.sessions != nil {
				o.sessions.NoteFacility()
			}
		}()
	}
	wg.Wait()

	if o.discovery != nil {
		summary.SlotsWritten += o.runDiscovery(ctx, canon, courses, dates)
	}

	summary.Elapsed = time.Since(start)
	o.mu.Lock()
	o.lastSummary = summary
	o.mu.Unlock()

	o.logger.WithFields(logrus.Fields{
		"attempted": summary.CoursesAttempted,
		"succeeded": summary.CoursesSucceeded,
		"skipped":   summary.CoursesSkipped,
		"slots":     summary.SlotsWritten,
		"elapsed":   summary.Elapsed.Round(time.Second).String(),
	}).Info("Scrape run complete")
	return summary, nil
}

// scrapeCourse processes every lookahead date for one course. Reports
// whether any unit failed; an empty day is success, not failure.
func (o *Orchestrator) scrapeCourse(ctx context.Context, adapter adapters.Adapter, canon *canonical.Canonicalizer, course *models.Course, dates []string, sem chan struct{}) (written int64, failed bool) {
	for _, date := range dates {
		if ctx.Err() != nil {
			return written, true
		}
		n, ok := o.scrapeUnit(ctx, adapter, canon, course, date, sem)
		written += n
		if !ok {
			failed = true
		}
		if o.opts.InterCourseDelay > 0 {
			select {
			case <-time.After(o.opts.InterCourseDelay):
			case <-ctx.Done():
				return written, failed
			}
		}
	}
	return written, failed
}

// scrapeUnit is one isolated (course, date) scrape pass.
func (o *Orchestrator) scrapeUnit(ctx context.Context, adapter adapters.Adapter, canon *canonical.Canonicalizer, course *models.Course, date string, sem chan struct{}) (written int64, ok bool) {
	select {
	case sem <- struct{}{}:
		defer func() { <-sem }()
	case <-ctx.Done():
		return 0, false
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.WithFields(logrus.Fields{
				"course": course.Slug,
				"date":   date,
				"panic":  r,
			}).Error("Scrape unit panicked")
			written, ok = 0, false
		}
	}()

	entries, err := adapter.FetchDay(ctx, course, date)
	if err != nil {
		o.logger.WithError(err).WithFields(logrus.Fields{
			"course": course.Slug,
			"date":   date,
			"source": adapter.Source(),
		}).Warn("Scrape unit failed")
		return 0, false
	}

	slots := canon.Canonicalize(entries, date, time.Now().UTC())
	n, err := o.gateway.ReplaceTuple(ctx, course.ID, date, adapter.Source(), slots)
	if err != nil {
		o.logger.WithError(err).WithFields(logrus.Fields{
			"course": course.Slug,
			"date":   date,
		}).Error("Failed to persist scrape pass")
		return 0, false
	}
	return n, true
}

// runDiscovery executes the aggregate location-search source for every date
// and persists one representative slot per discovered facility. Every catalog
// course carrying a mapping for this source gets its tuple replaced — with an
// empty set when the search no longer returns the facility, so its previous
// slot does not outlive the pass that last saw it.
func (o *Orchestrator) runDiscovery(ctx context.Context, canon *canonical.Canonicalizer, courses []models.Course, dates []string) int64 {
	source := o.discovery.Source()
	var written int64
	for _, date := range dates {
		entries, err := o.discovery.FetchRegion(ctx, date)
		if err != nil {
			o.logger.WithError(err).WithField("date", date).Warn("Discovery search failed")
			continue
		}

		grouped := groupByCourse(canon.Canonicalize(entries, date, time.Now().UTC()))
		for i := range courses {
			course := &courses[i]
			if !course.HasSource(source) {
				continue
			}
			n, err := o.gateway.ReplaceTuple(ctx, course.ID, date, source, grouped[course.ID])
			if err != nil {
				o.logger.WithError(err).WithFields(logrus.Fields{
					"course": course.Slug,
					"date":   date,
				}).Error("Failed to persist discovery pass")
				continue
			}
			written += n
		}
	}
	return written
}

func groupByCourse(slots []models.TeeTimeSlot) map[uuid.UUID][]models.TeeTimeSlot {
	grouped := make(map[uuid.UUID][]models.TeeTimeSlot)
	for _, s := range slots {
		grouped[s.CourseID] = append(grouped[s.CourseID], s)
	}
	return grouped
}

func (o *Orchestrator) sourceSemaphores() map[string]chan struct{} {
	sems := make(map[string]chan struct{})
	for _, source := range o.registry.Sources() {
		sems[source] = make(chan struct{}, o.opts.SourceConcurrency)
	}
	return sems
}

// LastSummary returns the most recent run summary, or nil before the first
// run.
func (o *Orchestrator) LastSummary() *RunSummary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSummary
}
