package wrapper

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/clearstack/pkg/cqrs/query"
)

type TracingQueryWrapper[I query.Input, R query.Result] struct {
	tracer   trace.Tracer
	spanName string
	next     query.Query[I, R]
}

// NewTracingQueryWrapper starts an OpenTelemetry span per execution and
// records failures on it. The span name is derived from the handler type.
func NewTracingQueryWrapper[I query.Input, R query.Result]() query.WrapFunc[I, R] {
	return func(next query.Query[I, R]) query.Query[I, R] {
		return &TracingQueryWrapper[I, R]{
			tracer:   otel.Tracer("cqrs/query"),
			spanName: spanNameOf(next),
			next:     next,
		}
	}
}

func (t *TracingQueryWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	ctx, span := t.tracer.Start(ctx, t.spanName)
	defer span.End()

	result, err := t.next.Execute(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return result, err
}

// spanNameOf returns the bare type name of the handler for use as span name.
func spanNameOf(handler any) string {
	fullType := strings.TrimPrefix(fmt.Sprintf("%T", handler), "*")

	parts := strings.Split(fullType, ".")
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}

	return fullType
}
