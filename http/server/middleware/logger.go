package middleware

import (
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/clearstack/pkg/http/server"
	"github.com/clearstack/pkg/logger"
	"github.com/clearstack/pkg/meta"
)

// NewLoggerMW logs one line per request with method, route, status, duration
// and the caller identity injected by the meta middleware. The level follows
// the response class: 5xx at error, 4xx at warn, everything else at info.
func NewLoggerMW(log logger.Logger) server.Middleware {
	return server.Middleware{
		Priority: 500,
		Handler: func(c *fiber.Ctx) error {
			log := log.Named("middleware.logger").WithContext(c.UserContext())

			start := time.Now()

			err := handleWithRecovery(c)

			statusCode := c.Response().StatusCode()

			log = log.
				With("http_status_code", statusCode).
				With("http_schema", c.Protocol()).
				With("http_method", c.Method()).
				With("http_path", c.Path()).
				With("http_route", c.Route().Path).
				With("hostname", c.Hostname()).
				With("duration", time.Since(start)).
				With("query_params", c.Queries()).
				With("request_size", c.Request().Header.ContentLength()).
				With("request_user_id", c.Locals(meta.RequestUserID)).
				With("request_user_role", c.Locals(meta.RequestUserRole))

			if err != nil {
				e := errx.AsErrorX(err)
				log = log.With("error", map[string]any{
					"code":    e.Code(),
					"message": e.Error(),
					"type":    e.Type().String(),
					"trace":   e.Trace(),
					"fields":  e.Fields(),
					"details": e.Details(),
				})
			}

			switch {
			case statusCode >= fiber.StatusInternalServerError:
				log.Error(err)
			case statusCode >= fiber.StatusBadRequest:
				log.Warn(err)
			default:
				log.Info("request processed successfully")
			}

			return err
		},
	}
}

// handleWithRecovery runs the rest of the chain and turns a panic into an
// error so the request line above still gets logged with a 5xx status.
func handleWithRecovery(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errx.New(
				"panic recovered at logger middleware",
				errx.WithDetails(errx.D{
					"stack_trace":   stackTrace(),
					"panic_message": r,
				}),
			)
		}
	}()

	return c.Next()
}
