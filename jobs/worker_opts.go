package jobs

import "time"

const (
	defaultConcurrency    = 1
	defaultPollInterval   = time.Second
	defaultBatchSize      = 10
	defaultProcessTimeout = time.Minute
)

// WorkerOption configures a Worker.
type WorkerOption func(*workerOptions)

type workerOptions struct {
	queue          string
	concurrency    int
	pollInterval   time.Duration
	batchSize      int
	processTimeout time.Duration
}

func defaultWorkerOptions() workerOptions {
	return workerOptions{
		queue:          DefaultQueue,
		concurrency:    defaultConcurrency,
		pollInterval:   defaultPollInterval,
		batchSize:      defaultBatchSize,
		processTimeout: defaultProcessTimeout,
	}
}

// WithWorkerQueue sets the queue the worker claims tasks from.
// Default is DefaultQueue.
func WithWorkerQueue(queue string) WorkerOption {
	return func(opts *workerOptions) {
		opts.queue = queue
	}
}

// WithConcurrency sets the number of polling goroutines.
// Default is 1.
func WithConcurrency(concurrency int) WorkerOption {
	return func(opts *workerOptions) {
		if concurrency > 0 {
			opts.concurrency = concurrency
		}
	}
}

// WithPollInterval sets how often each goroutine polls for due tasks.
// Default is one second.
func WithPollInterval(interval time.Duration) WorkerOption {
	return func(opts *workerOptions) {
		if interval > 0 {
			opts.pollInterval = interval
		}
	}
}

// WithBatchSize sets how many tasks one poll may claim.
// Default is 10.
func WithBatchSize(batchSize int) WorkerOption {
	return func(opts *workerOptions) {
		if batchSize > 0 {
			opts.batchSize = batchSize
		}
	}
}

// WithProcessTimeout bounds a single handler execution.
// Default is one minute.
func WithProcessTimeout(timeout time.Duration) WorkerOption {
	return func(opts *workerOptions) {
		if timeout > 0 {
			opts.processTimeout = timeout
		}
	}
}
