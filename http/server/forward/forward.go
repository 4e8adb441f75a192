// Package forward bridges Fiber routes to CQRS command and query handlers.
//
// A forwarded handler decodes the request body, query and path parameters
// into the handler's input type, validates it, executes the handler and
// writes the result wrapped in the standard response envelope.
package forward

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/clearstack/pkg/cqrs/command"
	"github.com/clearstack/pkg/cqrs/query"
	"github.com/clearstack/pkg/dto"
	"github.com/clearstack/pkg/logger"
	"github.com/clearstack/pkg/mask"
	"github.com/clearstack/pkg/val"
)

const maxLogAllowedSize = 8 << 10 // 8KB

// ToCommand forwards a request to a CQRS command handler.
// I must be a pointer to the command's input struct.
func ToCommand[I, R any](cmd command.Command[I, R]) fiber.Handler {
	return handle(cmd.Execute)
}

// ToQuery forwards a request to a CQRS query handler.
// I must be a pointer to the query's input struct.
func ToQuery[I, R any](q query.Query[I, R]) fiber.Handler {
	return handle(q.Execute)
}

func handle[I, R any](execute func(context.Context, I) (R, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := newRequest[I]()
		if err != nil {
			return errx.Wrap(err)
		}

		if err = decodeBody(c, req); err != nil {
			return errx.Wrap(err)
		}
		if err = decodeQuery(c, req); err != nil {
			return errx.Wrap(err)
		}
		if err = decodePath(c, req); err != nil {
			return errx.Wrap(err)
		}

		log := logger.
			Named("http.handler").
			WithContext(c.UserContext())

		// Include request body in log if it's size is not too large
		if len(c.Body()) <= maxLogAllowedSize {
			log = log.With("request_body", mask.StructToOrdMap(req))
		} else {
			log = log.With("request_body", fmt.Sprintf("too large for logging: %d bytes", len(c.Body())))
		}

		// Validate the request schema based on validate tags of the struct
		if err = val.ValidateSchema(req); err != nil {
			log.WithError(err).Warn("request validation failed")
			return errx.Wrap(err)
		}

		resp, err := execute(c.UserContext(), req)
		if err != nil {
			log.WithError(err).Error("handler execution failed")
			return errx.Wrap(err)
		}

		log.Debug("request forwarded")
		return errx.Wrap(c.JSON(dto.NewDataResponse(resp)))
	}
}
