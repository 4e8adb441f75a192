// Package command defines interfaces and types for CQRS command handling.
//
// Commands represent operations that change state and may return results or
// errors. Cross-cutting behavior is added by composing WrapFunc middlewares
// around a handler with Wrap.
package command

import "context"

// EmptyResult is a placeholder type for commands that do not return a result.
type (
	EmptyResult = struct{}
)

type (
	// Input represents the input type for a command.
	Input any

	// Result represents the result type for a command.
	Result any
)

// Command defines a handler for a CQRS command.
type Command[I Input, R Result] interface {
	// Execute processes the command input and returns a result or error.
	Execute(context.Context, I) (R, error)
}

// WrapFunc defines a middleware function for wrapping command handlers.
type WrapFunc[I Input, R Result] func(Command[I, R]) Command[I, R]

// Wrap applies the given middlewares around a handler. Wraps are applied in
// order, so the last one ends up outermost and runs first.
func Wrap[I Input, R Result](cmd Command[I, R], wraps ...WrapFunc[I, R]) Command[I, R] {
	for _, wrap := range wraps {
		cmd = wrap(cmd)
	}
	return cmd
}

// Func adapts a plain function to the Command interface.
type Func[I Input, R Result] func(context.Context, I) (R, error)

func (f Func[I, R]) Execute(ctx context.Context, input I) (R, error) {
	return f(ctx, input)
}
