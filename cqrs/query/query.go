// Package query defines interfaces and types for CQRS query handling.
//
// Queries represent read-only operations that return results and do not
// change state. Cross-cutting behavior is added by composing WrapFunc
// middlewares around a handler with Wrap.
package query

import "context"

type (
	// Input represents the input type for a query.
	Input any

	// Result represents the result type for a query.
	Result any
)

// Query defines a handler for a CQRS query.
type Query[I Input, R Result] interface {
	// Execute processes the query input and returns a result or error.
	Execute(context.Context, I) (R, error)
}

// WrapFunc defines a middleware function for wrapping query handlers.
type WrapFunc[I Input, R Result] func(Query[I, R]) Query[I, R]

// Wrap applies the given middlewares around a handler. Wraps are applied in
// order, so the last one ends up outermost and runs first.
func Wrap[I Input, R Result](q Query[I, R], wraps ...WrapFunc[I, R]) Query[I, R] {
	for _, wrap := range wraps {
		q = wrap(q)
	}
	return q
}

// Func adapts a plain function to the Query interface.
type Func[I Input, R Result] func(context.Context, I) (R, error)

func (f Func[I, R]) Execute(ctx context.Context, input I) (R, error) {
	return f(ctx, input)
}
