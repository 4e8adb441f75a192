package server

import (
	"sort"

	"github.com/gofiber/fiber/v2"
)

// Middleware pairs a Fiber handler with an ordering priority.
// Higher priorities run earlier in the chain, so cross-cutting concerns like
// panic recovery can wrap everything registered below them.
type Middleware struct {
	Priority int
	Handler  fiber.Handler
}

// ByOrder sorts middlewares from highest priority to lowest.
type ByOrder []Middleware

func (b ByOrder) Len() int           { return len(b) }
func (b ByOrder) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
func (b ByOrder) Less(i, j int) bool { return b[i].Priority > b[j].Priority }

// applyMiddlewares registers the middlewares on the app in priority order,
// skipping entries without a handler.
func applyMiddlewares(app *fiber.App, middlewares []Middleware) {
	sort.Sort(ByOrder(middlewares))

	for _, mw := range middlewares {
		if mw.Handler != nil {
			app.Use(mw.Handler)
		}
	}
}
