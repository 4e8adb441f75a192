package wrapper

import (
	"context"
	"time"

	"github.com/clearstack/pkg/cqrs/query"
	"github.com/clearstack/pkg/logger"
)

// DefaultSlowThreshold is the elapsed time above which an execution is
// reported as slow.
const DefaultSlowThreshold = 500 * time.Millisecond

type PerformanceQueryWrapper[I query.Input, R query.Result] struct {
	logger    logger.Logger
	next      query.Query[I, R]
	queryName string
	threshold time.Duration
}

// NewPerformanceQueryWrapper warns when a query takes longer than the
// threshold. A non-positive threshold falls back to DefaultSlowThreshold.
func NewPerformanceQueryWrapper[I query.Input, R query.Result](
	logger logger.Logger,
	queryName string,
	threshold time.Duration,
) query.WrapFunc[I, R] {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}

	return func(next query.Query[I, R]) query.Query[I, R] {
		return &PerformanceQueryWrapper[I, R]{
			logger:    logger.Named("cqrs.query.performance").With("query_name", queryName),
			next:      next,
			queryName: queryName,
			threshold: threshold,
		}
	}
}

func (q *PerformanceQueryWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	start := time.Now()

	result, err := q.next.Execute(ctx, input)

	duration := time.Since(start)
	if duration > q.threshold {
		q.logger.
			WithContext(ctx).
			With("execution_time", duration.String()).
			With("threshold", q.threshold.String()).
			With("input", input).
			Warn("slow query execution")
	}

	return result, err
}
