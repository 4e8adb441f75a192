package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/code19m/errx"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/logger"
)

const (
	enqueueTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Scheduler turns cron expressions into enqueued tasks.
type Scheduler interface {
	// AddOrUpdateRecurring registers a named recurring schedule. Registering
	// an existing name replaces its operation, payload, expression and
	// options.
	AddOrUpdateRecurring(name, operationID string, payload any, cronExpr string, opts ...ScheduleOption) error

	// RemoveRecurring drops a named schedule. Unknown names are a no-op.
	RemoveRecurring(name string)

	// TriggerNow enqueues a schedule's task immediately, regardless of its
	// cron expression.
	TriggerNow(ctx context.Context, name string) error

	// ListNames returns the names of all registered schedules.
	ListNames() []string

	// Start begins the scheduler loop.
	// Blocks until Stop is called or the context is cancelled.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the scheduler.
	Stop() error
}

type recurringTrack struct {
	operationID  string
	payload      any
	cronSchedule cron.Schedule
	enqueueOpts  []EnqueueOption

	lastRun time.Time
	nextRun time.Time
}

// NewScheduler creates a Scheduler enqueueing through the given database.
func NewScheduler(db *bun.DB, opts ...SchedulerOption) Scheduler {
	options := defaultSchedulerOptions()
	for _, opt := range opts {
		opt(&options)
	}

	parser := cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)

	return &scheduler{
		db:            db,
		enqueuer:      options.enqueuer,
		checkInterval: options.checkInterval,
		cronParser:    parser,
		schedulesMap:  map[string]recurringTrack{},
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
		logger:        logger.Named("jobs.scheduler"),
	}
}

type scheduler struct {
	db *bun.DB

	enqueuer      Enqueuer
	checkInterval time.Duration
	cronParser    cron.Parser

	schedulesMap map[string]recurringTrack
	mu           sync.RWMutex

	stopCh    chan struct{}
	stoppedCh chan struct{}

	logger logger.Logger
}

func (s *scheduler) AddOrUpdateRecurring(
	name, operationID string,
	payload any,
	cronExpr string,
	opts ...ScheduleOption,
) error {
	options := defaultScheduleOptions()
	for _, opt := range opts {
		opt(&options)
	}

	// the parser understands a CRON_TZ= prefix; a timezone option adds it
	if options.timezone != "" {
		cronExpr = "CRON_TZ=" + options.timezone + " " + cronExpr
	}

	cronSchedule, err := s.cronParser.Parse(cronExpr)
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"cron_expr": cronExpr, "name": name}))
	}

	now := time.Now()
	track := recurringTrack{
		operationID:  operationID,
		payload:      payload,
		cronSchedule: cronSchedule,
		enqueueOpts:  options.enqueueOpts,
		lastRun:      now,
		nextRun:      cronSchedule.Next(now),
	}

	s.mu.Lock()
	s.schedulesMap[name] = track
	s.mu.Unlock()

	s.logger.With(
		"name", name,
		"operation_id", operationID,
		"cron_expr", cronExpr,
		"next_run", track.nextRun.Format(time.RFC3339),
	).Info("recurring schedule registered")

	return nil
}

func (s *scheduler) RemoveRecurring(name string) {
	s.mu.Lock()
	delete(s.schedulesMap, name)
	s.mu.Unlock()
}

func (s *scheduler) TriggerNow(ctx context.Context, name string) error {
	s.mu.RLock()
	track, ok := s.schedulesMap[name]
	s.mu.RUnlock()
	if !ok {
		return errx.New(
			"schedule not found",
			errx.WithCode(CodeScheduleNotFound),
			errx.WithDetails(errx.D{"name": name}),
		)
	}

	_, err := s.enqueuer.Enqueue(ctx, s.db, track.operationID, track.payload, track.enqueueOpts...)
	if err != nil {
		return errx.Wrap(err)
	}

	return nil
}

func (s *scheduler) ListNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.schedulesMap))
	for name := range s.schedulesMap {
		names = append(names, name)
	}
	return names
}

func (s *scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-s.stopCh:
			close(s.stoppedCh)
			return nil

		case now := <-ticker.C:
			s.checkSchedules(now)
		}
	}
}

func (s *scheduler) Stop() error {
	close(s.stopCh)

	select {
	case <-s.stoppedCh:
		return nil
	case <-time.After(shutdownTimeout):
		return errx.New("scheduler shutdown timeout exceeded")
	}
}

func (s *scheduler) checkSchedules(now time.Time) {
	// copy under read lock; enqueueDue re-fetches under write lock to
	// update nextRun without racing AddOrUpdateRecurring
	s.mu.RLock()
	due := make(map[string]recurringTrack, len(s.schedulesMap))
	for name, track := range s.schedulesMap {
		if !now.Before(track.nextRun) {
			due[name] = track
		}
	}
	s.mu.RUnlock()

	for name, track := range due {
		log := s.logger.With(
			"name", name,
			"operation_id", track.operationID,
			"next_run", track.nextRun.Format(time.RFC3339),
		)

		if err := s.enqueueDue(name, track); err != nil {
			log.WithError(err).Error("task scheduling failed")
		} else {
			log.Info("task scheduled")
		}
	}
}

func (s *scheduler) enqueueDue(name string, track recurringTrack) error {
	ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
	defer cancel()

	_, err := s.enqueuer.Enqueue(ctx, s.db, track.operationID, track.payload, track.enqueueOpts...)
	if err != nil {
		return errx.Wrap(err)
	}

	s.mu.Lock()
	if current, ok := s.schedulesMap[name]; ok {
		current.lastRun = track.nextRun
		current.nextRun = current.cronSchedule.Next(track.nextRun)
		s.schedulesMap[name] = current
	}
	s.mu.Unlock()

	return nil
}
