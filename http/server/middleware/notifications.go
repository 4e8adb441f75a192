package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clearstack/pkg/dto"
	"github.com/clearstack/pkg/http/server"
	"github.com/clearstack/pkg/notification"
)

// notificationsLocalKey stores the per-request notification context in Fiber locals.
const notificationsLocalKey = "notification_context"

// Notifications returns the request-scoped notification context.
// It is only available below NewNotificationsMW in the middleware chain.
func Notifications(c *fiber.Ctx) *notification.Context {
	nctx, _ := c.Locals(notificationsLocalKey).(*notification.Context)
	return nctx
}

// NewNotificationsMW creates a middleware that collects classified notifications
// during request processing and shapes the response from them.
//
// A fresh notification context is attached to every request. After the handler
// returns, accumulated critical entries turn the response into a 400 with a
// key -> messages map — unless the response already carries an error status,
// which always wins.
func NewNotificationsMW() server.Middleware {
	return server.Middleware{
		Priority: 300,
		Handler: func(c *fiber.Ctx) error {
			nctx := notification.NewContext()
			c.Locals(notificationsLocalKey, nctx)

			err := c.Next()
			if err != nil {
				return err
			}

			if !nctx.HasErrors() {
				return nil
			}

			// a handler that already failed keeps its own status
			if c.Response() != nil && c.Response().StatusCode() >= fiber.StatusBadRequest {
				return nil
			}

			grouped := make(map[string][]string)
			for _, n := range nctx.Errors() {
				grouped[n.Key()] = append(grouped[n.Key()], n.Message())
			}

			c.Status(fiber.StatusBadRequest)
			return c.JSON(dto.NewErrorResponse(fiber.StatusBadRequest, grouped))
		},
	}
}
