package wrapper

import (
	"context"
	"time"

	"github.com/clearstack/pkg/cqrs/command"
	"github.com/clearstack/pkg/logger"
)

// DefaultSlowThreshold is the elapsed time above which an execution is
// reported as slow.
const DefaultSlowThreshold = 500 * time.Millisecond

type PerformanceCommandWrapper[I command.Input, R command.Result] struct {
	logger    logger.Logger
	next      command.Command[I, R]
	cmdName   string
	threshold time.Duration
}

// NewPerformanceCommandWrapper warns when a command takes longer than the
// threshold. A non-positive threshold falls back to DefaultSlowThreshold.
func NewPerformanceCommandWrapper[I command.Input, R command.Result](
	logger logger.Logger,
	cmdName string,
	threshold time.Duration,
) command.WrapFunc[I, R] {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}

	return func(next command.Command[I, R]) command.Command[I, R] {
		return &PerformanceCommandWrapper[I, R]{
			logger:    logger.Named("cqrs.command.performance").With("command_name", cmdName),
			next:      next,
			cmdName:   cmdName,
			threshold: threshold,
		}
	}
}

func (cmd *PerformanceCommandWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	start := time.Now()

	result, err := cmd.next.Execute(ctx, input)

	duration := time.Since(start)
	if duration > cmd.threshold {
		cmd.logger.
			WithContext(ctx).
			With("execution_time", duration.String()).
			With("threshold", cmd.threshold.String()).
			With("input", input).
			Warn("slow command execution")
	}

	return result, err
}
