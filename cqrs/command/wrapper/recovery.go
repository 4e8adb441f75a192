package wrapper

import (
	"context"
	"fmt"
	"runtime"

	"github.com/code19m/errx"

	"github.com/clearstack/pkg/cqrs/command"
	"github.com/clearstack/pkg/logger"
)

const stackTraceSize = 4096

// RecoveryCommandWrapper turns a panic inside the handler chain into an
// error carrying the stack trace, so one misbehaving command cannot take
// down the process.
type RecoveryCommandWrapper[I command.Input, R command.Result] struct {
	logger  logger.Logger
	next    command.Command[I, R]
	cmdName string
}

func NewRecoveryCommandWrapper[I command.Input, R command.Result](
	logger logger.Logger,
	cmdName string,
) command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &RecoveryCommandWrapper[I, R]{
			logger:  logger.Named("cqrs.command.recovery").With("command_name", cmdName),
			next:    next,
			cmdName: cmdName,
		}
	}
}

func (w *RecoveryCommandWrapper[I, R]) Execute(ctx context.Context, input I) (result R, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		buf := make([]byte, stackTraceSize)
		trace := string(buf[:runtime.Stack(buf, false)])
		panicValues := fmt.Sprintf("%v", r)

		w.logger.
			WithContext(ctx).
			With("stack_trace", trace).
			With("panic_values", panicValues).
			Error("panic recovered in command execution")

		err = errx.New("panic recovered in command execution", errx.WithDetails(errx.D{
			"stack_trace":  trace,
			"panic_values": panicValues,
		}))
	}()

	return w.next.Execute(ctx, input)
}
