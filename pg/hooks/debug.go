package hooks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/logger"
)

var _ bun.QueryHook = (*DebugHook)(nil)

// DebugHook logs executed queries through the application logger.
// Verbosity and slow-query detection are configurable per hook.
type DebugHook struct {
	enabled            bool
	verbose            bool
	slowQueryThreshold time.Duration
}

// DebugHookOption configures a DebugHook.
type DebugHookOption func(*DebugHook)

// NewDebugHook returns a hook that is enabled and verbose with a 100ms
// slow-query threshold unless options say otherwise.
func NewDebugHook(opts ...DebugHookOption) *DebugHook {
	hook := &DebugHook{
		enabled:            true,
		verbose:            true,
		slowQueryThreshold: 100 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(hook)
	}

	return hook
}

// WithEnabled turns query logging on or off entirely.
func WithEnabled(enabled bool) DebugHookOption {
	return func(h *DebugHook) {
		h.enabled = enabled
	}
}

// WithVerbose controls whether successful queries are logged. When false,
// only failures, no-rows results and slow queries produce log entries.
func WithVerbose(verbose bool) DebugHookOption {
	return func(h *DebugHook) {
		h.verbose = verbose
	}
}

// WithSlowQueryThreshold sets the duration above which a query is logged at
// warn level. Zero disables slow-query detection.
func WithSlowQueryThreshold(threshold time.Duration) DebugHookOption {
	return func(h *DebugHook) {
		h.slowQueryThreshold = threshold
	}
}

func (h *DebugHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery logs the finished query. Level depends on outcome: real errors
// at error, no-rows and slow queries at warn, the rest at debug when verbose.
func (h *DebugHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if !h.enabled {
		return
	}

	duration := time.Since(event.StartTime)

	noRows := errors.Is(event.Err, sql.ErrNoRows)

	// sql.ErrTxDone just means the tx was already committed or rolled back.
	failed := event.Err != nil && !noRows && !errors.Is(event.Err, sql.ErrTxDone)

	slow := h.slowQueryThreshold > 0 && duration >= h.slowQueryThreshold

	if !h.verbose && !failed && !noRows && !slow {
		return
	}

	log := logger.Named("bun_debug_hook").
		WithContext(ctx).
		With("query", strings.ReplaceAll(event.Query, `"`, ``)).
		With("duration", duration.Round(time.Microsecond))

	if len(event.QueryArgs) > 0 {
		log = log.With("args", event.QueryArgs)
	}

	msg := "[bun-debug] - " + event.Operation()

	switch {
	case failed:
		log.With("error", event.Err).Error(msg)
	case noRows:
		log.With("error", event.Err).Warn(msg)
	case slow:
		log.Warn(msg)
	default:
		log.Debug(msg)
	}
}
