package wrapper

import (
	"context"

	"github.com/clearstack/pkg/cqrs/query"
	"github.com/clearstack/pkg/val"
)

type ValidatorQueryWrapper[I query.Input, R query.Result] struct {
	next query.Query[I, R]
}

// NewValidatorQueryWrapper validates the input schema before the handler
// runs. Invalid input short-circuits with a validation error carrying a
// field-to-message map; the handler is never called.
func NewValidatorQueryWrapper[I query.Input, R query.Result]() query.WrapFunc[I, R] {
	return func(next query.Query[I, R]) query.Query[I, R] {
		return &ValidatorQueryWrapper[I, R]{next: next}
	}
}

func (q *ValidatorQueryWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	if err := val.ValidateSchema(input); err != nil {
		var zero R
		return zero, err
	}

	return q.next.Execute(ctx, input)
}
