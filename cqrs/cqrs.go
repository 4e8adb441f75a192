// Package cqrs provides Command Query Responsibility Segregation (CQRS) pattern implementation.
//
// It defines generic Execute interfaces for commands (state-changing) and
// queries (read-only), plus composable wrapper middlewares for cross-cutting
// concerns: logging, performance monitoring, input validation, panic
// recovery, timeouts and tracing. Handlers depend only on the plain
// interfaces; hosts decide which wrappers to stack.
package cqrs
