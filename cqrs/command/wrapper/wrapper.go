// Package wrapper provides middleware wrappers for CQRS command handlers.
//
// Wrappers add cross-cutting concerns (logging, performance monitoring,
// validation, panic recovery, timeouts, tracing, meta injection) to command
// handlers in a composable way, without touching the business logic.
package wrapper
