package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/logger"
)

// Worker polls for due tasks and dispatches them to registered handlers.
type Worker interface {
	// Register binds a handler to an operation id. A task whose operation
	// has no handler is marked failed immediately.
	Register(operationID string, handler Handler)

	// Start begins the polling loop.
	// Blocks until Stop is called or the context is cancelled.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the worker.
	Stop() error
}

// NewWorker creates a Worker polling the given database.
func NewWorker(db *bun.DB, opts ...WorkerOption) Worker {
	options := defaultWorkerOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &worker{
		db:             db,
		queue:          options.queue,
		concurrency:    options.concurrency,
		pollInterval:   options.pollInterval,
		batchSize:      options.batchSize,
		processTimeout: options.processTimeout,
		handlers:       make(map[string]Handler),
		stopCh:         make(chan struct{}),
		logger:         logger.Named("jobs.worker"),
	}
}

type worker struct {
	db *bun.DB

	queue          string
	concurrency    int
	pollInterval   time.Duration
	batchSize      int
	processTimeout time.Duration

	handlers map[string]Handler
	mu       sync.RWMutex

	stopCh    chan struct{}
	stopOnce  sync.Once
	stoppedWg sync.WaitGroup

	logger logger.Logger
}

func (w *worker) Register(operationID string, handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[operationID] = handler
}

func (w *worker) Start(ctx context.Context) error {
	for range w.concurrency {
		w.stoppedWg.Add(1)
		go func() {
			defer w.stoppedWg.Done()
			w.loop(ctx)
		}()
	}

	w.stoppedWg.Wait()
	return nil
}

func (w *worker) Stop() error {
	w.stopOnce.Do(func() { close(w.stopCh) })

	done := make(chan struct{})
	go func() {
		w.stoppedWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(shutdownTimeout):
		return errx.New("worker shutdown timeout exceeded")
	}
}

func (w *worker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.pollOnce(ctx)
		}
	}
}

// pollOnce claims and processes one batch of due tasks.
func (w *worker) pollOnce(ctx context.Context) {
	var candidates []Task
	err := w.db.NewSelect().Model(&candidates).
		Where("status = ?", StatusPending).
		Where("queue = ?", w.queue).
		Where("scheduled_at <= ?", time.Now()).
		OrderExpr("id ASC").
		Limit(w.batchSize).
		Scan(ctx)
	if err != nil {
		w.logger.WithContext(ctx).WithError(err).Error("task poll failed")
		return
	}

	for i := range candidates {
		claimed, err := w.claim(ctx, &candidates[i])
		if err != nil {
			w.logger.WithContext(ctx).WithError(err).Error("task claim failed")
			continue
		}
		if !claimed {
			continue // another worker got it first
		}

		w.process(ctx, &candidates[i])
	}
}

// claim transitions pending -> running with an optimistic update, so
// concurrent workers never process the same task twice.
func (w *worker) claim(ctx context.Context, task *Task) (bool, error) {
	now := time.Now()
	res, err := w.db.NewUpdate().Model((*Task)(nil)).
		Set("status = ?", StatusRunning).
		Set("started_at = ?", now).
		Where("id = ?", task.ID).
		Where("status = ?", StatusPending).
		Exec(ctx)
	if err != nil {
		return false, errx.Wrap(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err)
	}
	if affected != 1 {
		return false, nil
	}

	task.Status = StatusRunning
	task.StartedAt = &now
	return true, nil
}

func (w *worker) process(ctx context.Context, task *Task) {
	log := w.logger.WithContext(ctx).With(
		"task_id", task.ID,
		"operation_id", task.OperationID,
		"attempt", task.Attempts+1,
	)

	handler := w.handlerFor(task.OperationID)
	if handler == nil {
		err := errx.New(
			"no handler registered for operation",
			errx.WithCode(CodeUnknownOperation),
			errx.WithDetails(errx.D{"operation_id": task.OperationID}),
		)
		log.WithError(err).Error("task dropped")
		w.finish(ctx, task, StatusFailed, err.Error())
		return
	}

	handlerCtx, cancel := context.WithTimeout(ctx, w.processTimeout)
	defer cancel()

	if err := runHandler(handlerCtx, handler, task.Payload); err != nil {
		task.Attempts++
		if task.Attempts >= task.MaxAttempts {
			log.WithError(err).Error("task failed permanently")
			w.finish(ctx, task, StatusFailed, err.Error())
		} else {
			log.WithError(err).Warn("task failed, will retry")
			w.release(ctx, task, err.Error())
		}
		return
	}

	log.Info("task processed")
	w.finish(ctx, task, StatusSucceeded, "")
}

func (w *worker) handlerFor(operationID string) Handler {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.handlers[operationID]
}

// runHandler isolates handler panics so one bad task cannot kill the loop.
func runHandler(ctx context.Context, handler Handler, payload []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errx.New("panic recovered in task handler", errx.WithDetails(errx.D{
				"panic_values": r,
			}))
		}
	}()

	return handler(ctx, payload)
}

func (w *worker) finish(ctx context.Context, task *Task, status, lastError string) {
	now := time.Now()
	_, err := w.db.NewUpdate().Model((*Task)(nil)).
		Set("status = ?", status).
		Set("attempts = ?", task.Attempts).
		Set("last_error = ?", lastError).
		Set("finished_at = ?", now).
		Where("id = ?", task.ID).
		Exec(ctx)
	if err != nil {
		w.logger.WithContext(ctx).WithError(err).Error("task state update failed")
	}
}

// release puts a retryable task back to pending with its error recorded.
func (w *worker) release(ctx context.Context, task *Task, lastError string) {
	_, err := w.db.NewUpdate().Model((*Task)(nil)).
		Set("status = ?", StatusPending).
		Set("attempts = ?", task.Attempts).
		Set("last_error = ?", lastError).
		Where("id = ?", task.ID).
		Exec(ctx)
	if err != nil {
		w.logger.WithContext(ctx).WithError(err).Error("task release failed")
	}
}
