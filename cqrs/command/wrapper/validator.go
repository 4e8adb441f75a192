package wrapper

import (
	"context"

	"github.com/clearstack/pkg/cqrs/command"
	"github.com/clearstack/pkg/val"
)

type ValidatorCommandWrapper[I command.Input, R command.Result] struct {
	next command.Command[I, R]
}

// NewValidatorCommandWrapper validates the input schema before the handler
// runs. Invalid input short-circuits with a validation error carrying a
// field-to-message map; the handler is never called.
func NewValidatorCommandWrapper[I command.Input, R command.Result]() command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &ValidatorCommandWrapper[I, R]{next: next}
	}
}

func (cmd *ValidatorCommandWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	if err := val.ValidateSchema(input); err != nil {
		var zero R
		return zero, err
	}

	return cmd.next.Execute(ctx, input)
}
