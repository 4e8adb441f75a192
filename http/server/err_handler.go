package server

import (
	"errors"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"

	"github.com/clearstack/pkg/dto"
)

const (
	// codeRouterError is used when the router encounters an error.
	codeRouterError = "ROUTER_ERROR"

	// statusCodeField is a pseudo validation field whose numeric value
	// overrides the default status of a validation failure.
	statusCodeField = "status_code"

	// internalErrorMessage replaces the cause of internal failures so
	// implementation details never leak to clients.
	internalErrorMessage = "internal server error"
)

// WriteErrorResponse converts an error into the standard response envelope
// and writes it to the Fiber context.
func WriteErrorResponse(c *fiber.Ctx, err error) error {
	e := mapAnyErrorToErrorX(err)

	status, body := buildErrorEnvelope(e)

	c.Status(status)
	_ = c.JSON(body)

	return e
}

// buildErrorEnvelope maps a classified error to its HTTP status and envelope.
//
// Validation failures carry their field map as the errors dictionary; a
// numeric "status_code" pseudo-field overrides the default 400. Internal
// failures get a generic message so the cause stays server-side.
func buildErrorEnvelope(e errx.ErrorX) (int, dto.Response) {
	status := mapErrorTypeToHTTPStatusCode(e.Type())

	fieldErrors := make(map[string][]string)
	for key, msg := range e.Fields() {
		if key == statusCodeField {
			if override, castErr := cast.ToIntE(msg); castErr == nil && override >= fiber.StatusBadRequest {
				status = override
			}
			continue
		}
		fieldErrors[key] = append(fieldErrors[key], msg)
	}
	if len(fieldErrors) == 0 {
		fieldErrors = nil
	}

	message := e.Error()
	if status >= fiber.StatusInternalServerError {
		message = internalErrorMessage
	}

	return status, dto.NewErrorResponse(status, fieldErrors, message)
}

// mapErrorTypeToHTTPStatusCode converts an errx.Type to the appropriate HTTP status code.
func mapErrorTypeToHTTPStatusCode(t errx.Type) int {
	switch t {
	case errx.T_Authentication:
		return fiber.StatusUnauthorized
	case errx.T_Forbidden:
		return fiber.StatusForbidden
	case errx.T_NotFound:
		return fiber.StatusNotFound
	case errx.T_Validation:
		return fiber.StatusBadRequest
	case errx.T_Conflict:
		return fiber.StatusConflict
	case errx.T_Throttling:
		return fiber.StatusTooManyRequests
	case errx.T_Internal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// mapAnyErrorToErrorX converts any error to an errx.ErrorX type.
// Special handling is provided for Fiber errors to map them to appropriate error types.
func mapAnyErrorToErrorX(err error) errx.ErrorX {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		var t errx.Type

		switch {
		case fiberErr.Code == fiber.StatusUnauthorized:
			t = errx.T_Authentication
		case fiberErr.Code == fiber.StatusForbidden:
			t = errx.T_Forbidden
		case fiberErr.Code == fiber.StatusNotFound:
			t = errx.T_NotFound
		case fiberErr.Code == fiber.StatusConflict:
			t = errx.T_Conflict
		case fiberErr.Code == fiber.StatusTooManyRequests:
			t = errx.T_Throttling
		case fiberErr.Code >= fiber.StatusBadRequest && fiberErr.Code < fiber.StatusInternalServerError:
			t = errx.T_Validation
		default:
			t = errx.T_Internal
		}

		err = errx.New(
			fiberErr.Message,
			errx.WithCode(codeRouterError),
			errx.WithType(t),
			errx.WithDetails(errx.D{
				"fiber_code": fiberErr.Code,
				"fiber_msg":  fiberErr.Message,
			}),
		)
	}

	return errx.AsErrorX(err)
}
