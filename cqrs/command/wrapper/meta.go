package wrapper

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/clearstack/pkg/cqrs/command"
	"github.com/clearstack/pkg/meta"
)

// MetaInjectCommandWrapper seeds the context with trace id, service identity
// and operation name before the handler runs, so downstream logging and
// alerting always have them available.
type MetaInjectCommandWrapper[I command.Input, R command.Result] struct {
	serviceName    string
	serviceVersion string
	cmdName        string
	next           command.Command[I, R]
}

func NewMetaInjectCommandWrapper[I command.Input, R command.Result](
	serviceName, serviceVersion, cmdName string,
) command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &MetaInjectCommandWrapper[I, R]{
			serviceName:    serviceName,
			serviceVersion: serviceVersion,
			cmdName:        cmdName,
			next:           next,
		}
	}
}

func (w *MetaInjectCommandWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{ //nolint:exhaustive // request-scoped keys are set elsewhere
		meta.TraceID:        getTraceID(ctx),
		meta.ServiceName:    w.serviceName,
		meta.ServiceVersion: w.serviceVersion,
		meta.OperationName:  w.cmdName,
	})

	return w.next.Execute(ctx, input)
}

// getTraceID reads the trace id of the active span. Executions that start
// outside a trace (cron, background jobs) get a generated stand-in id so log
// correlation still works.
func getTraceID(ctx context.Context) string {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if traceID.IsValid() {
		return traceID.String()
	}

	return fmt.Sprintf("man-%s", uuid.New().String())
}
