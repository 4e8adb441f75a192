package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clearstack/pkg/http/server"
)

// NewErrorHandlerMW creates a middleware that handles errors and converts them to
// the standard response envelope.
//
// This middleware catches any errors that occur during request processing and
// transforms them into a consistent JSON format with a status derived from the
// error's classification.
func NewErrorHandlerMW() server.Middleware {
	return server.Middleware{
		Priority: 400,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			// if error already handled, skip processing.
			if c.Response() != nil && c.Response().StatusCode() >= fiber.StatusBadRequest {
				return err
			}

			return server.WriteErrorResponse(c, err)
		},
	}
}
