package wrapper

import (
	"context"
	"time"

	"github.com/clearstack/pkg/cqrs/query"
	"github.com/clearstack/pkg/logger"
)

type LoggerQueryWrapper[I query.Input, R query.Result] struct {
	logger    logger.Logger
	next      query.Query[I, R]
	queryName string
}

func NewLoggerQueryWrapper[I query.Input, R query.Result](
	logger logger.Logger,
	queryName string,
) query.WrapFunc[I, R] {
	return func(next query.Query[I, R]) query.Query[I, R] {
		return &LoggerQueryWrapper[I, R]{
			logger:    logger.Named("cqrs.query.logger").With("query_name", queryName),
			next:      next,
			queryName: queryName,
		}
	}
}

func (q *LoggerQueryWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	start := time.Now()

	result, err := q.next.Execute(ctx, input)

	duration := time.Since(start)

	log := q.logger.
		WithContext(ctx).
		With("execution_time", duration.String()).
		With("input", input)

	if err != nil {
		log.WithError(err).Error("query failed")
	} else {
		log.Info("query executed")
	}

	return result, err
}
