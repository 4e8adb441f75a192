package wrapper_test

import (
	"context"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearstack/pkg/cqrs/command"
	"github.com/clearstack/pkg/cqrs/command/wrapper"
	"github.com/clearstack/pkg/logger"
	"github.com/clearstack/pkg/val"
)

type createUserInput struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Encoding: "json"})
	require.NoError(t, err)
	return log
}

func TestWrapAppliesOutermostLast(t *testing.T) {
	var order []string

	tag := func(name string) command.WrapFunc[string, string] {
		return func(next command.Command[string, string]) command.Command[string, string] {
			return command.Func[string, string](func(ctx context.Context, in string) (string, error) {
				order = append(order, name)
				return next.Execute(ctx, in)
			})
		}
	}

	handler := command.Func[string, string](func(_ context.Context, in string) (string, error) {
		order = append(order, "handler")
		return in, nil
	})

	out, err := command.Wrap[string, string](handler, tag("inner"), tag("outer")).
		Execute(context.Background(), "in")
	require.NoError(t, err)
	assert.Equal(t, "in", out)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestValidatorShortCircuitsInvalidInput(t *testing.T) {
	called := false
	handler := command.Func[createUserInput, command.EmptyResult](
		func(context.Context, createUserInput) (command.EmptyResult, error) {
			called = true
			return command.EmptyResult{}, nil
		})

	wrapped := command.Wrap[createUserInput, command.EmptyResult](
		handler,
		wrapper.NewValidatorCommandWrapper[createUserInput, command.EmptyResult](),
	)

	_, err := wrapped.Execute(context.Background(), createUserInput{Email: "not-an-email"})
	require.Error(t, err)
	assert.False(t, called)

	e := errx.AsErrorX(err)
	assert.Equal(t, val.CodeValidationFailed, e.Code())
	assert.Equal(t, errx.T_Validation, e.Type())
	assert.Contains(t, e.Fields(), "name")
	assert.Contains(t, e.Fields(), "email")

	_, err = wrapped.Execute(context.Background(), createUserInput{Name: "alice", Email: "alice@example.com"})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestRecoveryConvertsPanicToError(t *testing.T) {
	handler := command.Func[string, string](func(context.Context, string) (string, error) {
		panic("boom")
	})

	wrapped := command.Wrap[string, string](
		handler,
		wrapper.NewRecoveryCommandWrapper[string, string](newTestLogger(t), "panicky"),
	)

	_, err := wrapped.Execute(context.Background(), "in")
	require.Error(t, err)
	assert.Contains(t, errx.AsErrorX(err).Details(), "stack_trace")
	assert.Contains(t, errx.AsErrorX(err).Details(), "panic_values")
}

func TestTimeoutBoundsExecution(t *testing.T) {
	handler := command.Func[string, string](func(ctx context.Context, in string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return in, nil
		}
	})

	wrapped := command.Wrap[string, string](
		handler,
		wrapper.NewTimeoutCommandWrapper[string, string](10*time.Millisecond),
	)

	_, err := wrapped.Execute(context.Background(), "in")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoggerAndPerformancePassThrough(t *testing.T) {
	handler := command.Func[string, string](func(_ context.Context, in string) (string, error) {
		return in + "!", nil
	})

	log := newTestLogger(t)
	wrapped := command.Wrap[string, string](
		handler,
		wrapper.NewPerformanceCommandWrapper[string, string](log, "noop", 0),
		wrapper.NewLoggerCommandWrapper[string, string](log, "noop"),
		wrapper.NewTracingCommandWrapper[string, string](),
		wrapper.NewMetaInjectCommandWrapper[string, string]("svc", "v1", "noop"),
	)

	out, err := wrapped.Execute(context.Background(), "in")
	require.NoError(t, err)
	assert.Equal(t, "in!", out)
}
