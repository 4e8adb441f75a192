package wrapper

import (
	"context"
	"time"

	"github.com/clearstack/pkg/cqrs/command"
	"github.com/clearstack/pkg/logger"
)

type LoggerCommandWrapper[I command.Input, R command.Result] struct {
	logger  logger.Logger
	next    command.Command[I, R]
	cmdName string
}

func NewLoggerCommandWrapper[I command.Input, R command.Result](
	logger logger.Logger,
	cmdName string,
) command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &LoggerCommandWrapper[I, R]{
			logger:  logger.Named("cqrs.command.logger").With("command_name", cmdName),
			next:    next,
			cmdName: cmdName,
		}
	}
}

func (cmd *LoggerCommandWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	start := time.Now()

	result, err := cmd.next.Execute(ctx, input)

	duration := time.Since(start)

	log := cmd.logger.
		WithContext(ctx).
		With("execution_time", duration.String()).
		With("input", input)

	if err != nil {
		log.WithError(err).Error("command failed")
	} else {
		log.Info("command executed")
	}

	return result, err
}
