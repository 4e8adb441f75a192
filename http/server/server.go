// Package server provides a configurable HTTP server implementation based on the Fiber framework.
package server

import "github.com/gofiber/fiber/v2"

// HTTPServer wraps a Fiber app with prioritized middleware registration and
// a fallback error handler that renders the standard response envelope.
// Use NewHTTPServer to create a new instance.
type HTTPServer struct {
	cfg        Config
	router     *fiber.App
	listenAddr string
}

// NewHTTPServer builds the server from cfg and registers the middlewares in
// descending priority order.
func NewHTTPServer(cfg Config, middlewares []Middleware) *HTTPServer {
	router := fiber.New(fiber.Config{
		ReadTimeout:              cfg.ReadTimeout,
		WriteTimeout:             cfg.WriteTimeout,
		IdleTimeout:              cfg.IdleTimeout,
		ErrorHandler:             routerErrorHandler(),
		DisableStartupMessage:    true,
		Immutable:                true,
		BodyLimit:                cfg.BodyLimit,
		EnableSplittingOnParsers: true,
	})

	applyMiddlewares(router, middlewares)

	return &HTTPServer{
		cfg:        cfg,
		router:     router,
		listenAddr: cfg.Address(),
	}
}

// RegisterRouter hands the underlying router to registerFunc so callers can
// attach their route groups.
func (s *HTTPServer) RegisterRouter(registerFunc func(r fiber.Router)) {
	registerFunc(s.router)
}

// Start listens on the configured address and blocks until the server stops.
func (s *HTTPServer) Start() error {
	return s.router.Listen(s.listenAddr)
}

// Stop shuts the server down gracefully, letting in-flight requests finish.
func (s *HTTPServer) Stop() error {
	return s.router.Shutdown()
}

// routerErrorHandler is the last line of defense for errors that escape the
// middleware chain. A response already carrying an error status is left
// untouched; anything else is rendered as an error envelope.
func routerErrorHandler() fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		r := ctx.Response()
		if r != nil && r.StatusCode() >= fiber.StatusBadRequest {
			return nil
		}

		_ = WriteErrorResponse(ctx, err)
		return nil
	}
}
