package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clearstack/pkg/http/server"
)

// NewTimeoutMW injects a deadline into each request's user context so that
// downstream work honoring context cancellation aborts once the request has
// run for the given duration.
func NewTimeoutMW(duration time.Duration) server.Middleware {
	return server.Middleware{
		Priority: 800,
		Handler: func(c *fiber.Ctx) error {
			ctx, cancel := context.WithTimeout(c.UserContext(), duration)
			defer cancel()

			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
