package wrapper

import (
	"context"
	"fmt"
	"runtime"

	"github.com/code19m/errx"

	"github.com/clearstack/pkg/cqrs/query"
	"github.com/clearstack/pkg/logger"
)

const stackTraceSize = 4096

type RecoveryQueryWrapper[I query.Input, R query.Result] struct {
	logger    logger.Logger
	next      query.Query[I, R]
	queryName string
}

// NewRecoveryQueryWrapper converts a panic in the handler chain into an
// error carrying the stack trace and panic values.
func NewRecoveryQueryWrapper[I query.Input, R query.Result](
	logger logger.Logger,
	queryName string,
) query.WrapFunc[I, R] {
	return func(next query.Query[I, R]) query.Query[I, R] {
		return &RecoveryQueryWrapper[I, R]{
			logger:    logger.Named("cqrs.query.recovery").With("query_name", queryName),
			next:      next,
			queryName: queryName,
		}
	}
}

func (q *RecoveryQueryWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	var result R
	var err error

	defer func() {
		if r := recover(); r != nil {
			stackTrace := make([]byte, stackTraceSize)
			stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

			q.logger.
				WithContext(ctx).
				With("stack_trace", string(stackTrace)).
				With("panic_values", fmt.Sprintf("%v", r)).
				Error("panic recovered in query execution")

			err = errx.New("panic recovered in query execution", errx.WithDetails(errx.D{
				"stack_trace":  string(stackTrace),
				"panic_values": fmt.Sprintf("%v", r),
			}))
		}
	}()

	result, err = q.next.Execute(ctx, input)
	return result, err
}
