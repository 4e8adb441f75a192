package jobs

import "time"

const defaultCheckInterval = time.Second

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*schedulerOptions)

type schedulerOptions struct {
	checkInterval time.Duration
	enqueuer      Enqueuer
}

func defaultSchedulerOptions() schedulerOptions {
	return schedulerOptions{
		checkInterval: defaultCheckInterval,
		enqueuer:      NewEnqueuer(),
	}
}

// WithCheckInterval sets how often due schedules are evaluated.
// Default is one second.
func WithCheckInterval(interval time.Duration) SchedulerOption {
	return func(opts *schedulerOptions) {
		if interval > 0 {
			opts.checkInterval = interval
		}
	}
}

// WithEnqueuer overrides the enqueuer the scheduler writes tasks through.
func WithEnqueuer(enqueuer Enqueuer) SchedulerOption {
	return func(opts *schedulerOptions) {
		if enqueuer != nil {
			opts.enqueuer = enqueuer
		}
	}
}

// ScheduleOption configures one recurring schedule.
type ScheduleOption func(*scheduleOptions)

type scheduleOptions struct {
	timezone    string
	enqueueOpts []EnqueueOption
}

func defaultScheduleOptions() scheduleOptions {
	return scheduleOptions{}
}

// WithTimezone evaluates the cron expression in the given IANA timezone
// instead of the scheduler's local time.
func WithTimezone(tz string) ScheduleOption {
	return func(opts *scheduleOptions) {
		opts.timezone = tz
	}
}

// WithEnqueueOptions forwards enqueue options (queue, retry limit, delay)
// to every task the schedule creates.
func WithEnqueueOptions(enqueueOpts ...EnqueueOption) ScheduleOption {
	return func(opts *scheduleOptions) {
		opts.enqueueOpts = append(opts.enqueueOpts, enqueueOpts...)
	}
}
