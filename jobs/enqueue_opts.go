package jobs

import "time"

const defaultMaxAttempts = 3

// EnqueueOption is a functional option for customizing task enqueueing.
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	queue       string
	maxAttempts int
	scheduledAt time.Time
}

func defaultEnqueueOptions() enqueueOptions {
	return enqueueOptions{
		queue:       DefaultQueue,
		maxAttempts: defaultMaxAttempts,
		scheduledAt: time.Now(),
	}
}

// WithQueue routes the task to a named queue.
// Default is DefaultQueue.
func WithQueue(queue string) EnqueueOption {
	return func(opts *enqueueOptions) {
		opts.queue = queue
	}
}

// WithMaxAttempts specifies the retry limit.
// Default is 3.
func WithMaxAttempts(maxAttempts int) EnqueueOption {
	return func(opts *enqueueOptions) {
		opts.maxAttempts = maxAttempts
	}
}

// WithScheduledAt specifies when the task becomes available.
// Default is now.
func WithScheduledAt(scheduledAt time.Time) EnqueueOption {
	return func(opts *enqueueOptions) {
		opts.scheduledAt = scheduledAt
	}
}
