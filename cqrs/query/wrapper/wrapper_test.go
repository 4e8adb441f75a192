package wrapper_test

import (
	"context"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearstack/pkg/cqrs/query"
	"github.com/clearstack/pkg/cqrs/query/wrapper"
	"github.com/clearstack/pkg/logger"
	"github.com/clearstack/pkg/val"
)

type listUsersInput struct {
	PageSize int `json:"page_size" validate:"required,gt=0"`
}

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Encoding: "json"})
	require.NoError(t, err)
	return log
}

func TestValidatorShortCircuits(t *testing.T) {
	called := false
	handler := query.Func[listUsersInput, []string](
		func(context.Context, listUsersInput) ([]string, error) {
			called = true
			return []string{"alice"}, nil
		})

	wrapped := query.Wrap[listUsersInput, []string](
		handler,
		wrapper.NewValidatorQueryWrapper[listUsersInput, []string](),
	)

	_, err := wrapped.Execute(context.Background(), listUsersInput{})
	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, val.CodeValidationFailed, errx.AsErrorX(err).Code())

	out, err := wrapped.Execute(context.Background(), listUsersInput{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, out)
}

func TestRecoveryConvertsPanic(t *testing.T) {
	handler := query.Func[string, string](func(context.Context, string) (string, error) {
		panic("boom")
	})

	wrapped := query.Wrap[string, string](
		handler,
		wrapper.NewRecoveryQueryWrapper[string, string](newTestLogger(t), "panicky"),
	)

	_, err := wrapped.Execute(context.Background(), "in")
	require.Error(t, err)
	assert.Contains(t, errx.AsErrorX(err).Details(), "panic_values")
}

func TestFullStackPassThrough(t *testing.T) {
	handler := query.Func[string, string](func(_ context.Context, in string) (string, error) {
		return in + "!", nil
	})

	log := newTestLogger(t)
	wrapped := query.Wrap[string, string](
		handler,
		wrapper.NewPerformanceQueryWrapper[string, string](log, "noop", 0),
		wrapper.NewLoggerQueryWrapper[string, string](log, "noop"),
		wrapper.NewTracingQueryWrapper[string, string](),
		wrapper.NewTimeoutQueryWrapper[string, string](time.Second),
	)

	out, err := wrapped.Execute(context.Background(), "in")
	require.NoError(t, err)
	assert.Equal(t, "in!", out)
}
