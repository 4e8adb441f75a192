package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"

	"github.com/clearstack/pkg/http/server"
)

// NewTracingMW opens an OpenTelemetry server span per request and propagates
// it through the user context. The span is renamed to "METHOD route" once
// routing has resolved, and the trace id is echoed in the X-Trace-ID header.
func NewTracingMW() server.Middleware {
	return server.Middleware{
		Priority: 900,
		Handler: func(c *fiber.Ctx) error {
			ctx, span := otel.Tracer("http-server").Start(
				c.UserContext(),
				fmt.Sprintf("%s /", c.Method()),
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			c.Set("X-Trace-ID", span.SpanContext().TraceID().String())
			c.SetUserContext(ctx)

			err := c.Next()

			// The route pattern is only known after c.Next has matched it.
			route := c.Route().Path
			if route != "" && route != "/" {
				span.SetName(fmt.Sprintf("%s %s", c.Method(), route))
			}

			span.SetAttributes(
				semconv.HTTPMethodKey.String(c.Method()),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPURLKey.String(c.OriginalURL()),
				semconv.HTTPStatusCodeKey.Int(c.Response().StatusCode()),
			)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return err
		},
	}
}
