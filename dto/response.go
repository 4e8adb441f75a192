// Package dto defines the response envelope and list-filter conventions
// shared by HTTP handlers.
package dto

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clearstack/pkg/pagination"
)

// Response is the envelope every HTTP handler returns.
//
// Succeeded mirrors the status code class; Errors groups failure messages
// by key so clients can attach them to form fields.
type Response struct {
	StatusCode int                 `json:"status_code"`
	Succeeded  bool                `json:"succeeded"`
	Messages   []string            `json:"messages"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

// NewResponse builds a success envelope with the given messages.
func NewResponse(messages ...string) Response {
	return Response{
		StatusCode: fiber.StatusOK,
		Succeeded:  true,
		Messages:   messages,
	}
}

// NewErrorResponse builds a failure envelope with a key -> messages map.
func NewErrorResponse(statusCode int, errors map[string][]string, messages ...string) Response {
	return Response{
		StatusCode: statusCode,
		Succeeded:  false,
		Messages:   messages,
		Errors:     errors,
	}
}

// DataResponse is a Response carrying a typed payload.
type DataResponse[T any] struct {
	Response
	Data T `json:"data"`
}

// NewDataResponse wraps data in a success envelope.
func NewDataResponse[T any](data T, messages ...string) DataResponse[T] {
	return DataResponse[T]{
		Response: NewResponse(messages...),
		Data:     data,
	}
}

// NewPagedResponse wraps one page of a larger result set in a success envelope.
func NewPagedResponse[E any](page *pagination.Paginated[E], messages ...string) DataResponse[*pagination.Paginated[E]] {
	return NewDataResponse(page, messages...)
}
