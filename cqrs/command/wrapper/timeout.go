package wrapper

import (
	"context"
	"time"

	"github.com/clearstack/pkg/cqrs/command"
)

// TimeoutCommandWrapper enforces a per-execution deadline on the wrapped
// command via the context.
type TimeoutCommandWrapper[I command.Input, R command.Result] struct {
	timeout time.Duration
	next    command.Command[I, R]
}

func NewTimeoutCommandWrapper[I command.Input, R command.Result](timeout time.Duration) command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &TimeoutCommandWrapper[I, R]{
			timeout: timeout,
			next:    next,
		}
	}
}

func (w *TimeoutCommandWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	return w.next.Execute(ctx, input)
}
