// Package wrapper provides middleware wrappers for CQRS query handlers.
//
// Wrappers add cross-cutting concerns (logging, performance monitoring,
// validation, panic recovery, timeouts, tracing) to query handlers in a
// composable way, without touching the business logic.
package wrapper
