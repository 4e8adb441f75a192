package middleware

import (
	"runtime"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/clearstack/pkg/http/server"
	"github.com/clearstack/pkg/logger"
)

// stackTrace captures the current goroutine's stack, capped at 4KB.
func stackTrace() string {
	buf := make([]byte, 4096)
	return string(buf[:runtime.Stack(buf, false)])
}

// NewRecoveryMW is the outermost safety net: it catches panics anywhere in
// the request chain, logs the stack, and replaces the panic with an error the
// error-handler middleware renders as a 500 envelope.
func NewRecoveryMW(log logger.Logger) server.Middleware {
	return server.Middleware{
		Priority: 1000,
		Handler: func(c *fiber.Ctx) (err error) {
			log := log.Named("middleware.recovery").WithContext(c.UserContext())

			defer func() {
				r := recover()
				if r == nil {
					return
				}

				trace := stackTrace()

				log.
					With("stack_trace", trace).
					With("panic_message", r).
					Error("recovered from panic")

				err = errx.New("panic recovered", errx.WithDetails(errx.D{
					"stack_trace":   trace,
					"panic_message": r,
				}))
			}()

			return c.Next()
		},
	}
}
