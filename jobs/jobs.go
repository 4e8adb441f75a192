// Package jobs bridges the mediator to background execution.
//
// Work is handed off by serializing an operation id and a JSON payload into a
// task row, never by serializing closures. The Enqueuer writes task rows
// through any bun handle, so enqueueing can share a transaction with
// business writes. The Scheduler turns cron expressions into enqueued tasks,
// and the Worker polls for due tasks and dispatches them to registered
// handlers by operation id.
package jobs

import (
	"context"
	"time"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/pg"
)

// Task statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// DefaultQueue is used when no queue is named explicitly.
const DefaultQueue = "default"

const (
	CodeScheduleNotFound = "SCHEDULE_NOT_FOUND"
	CodeUnknownOperation = "UNKNOWN_OPERATION"
)

// Timestamps aliases pg.BaseModel so it can be embedded alongside
// bun.BaseModel without the two embedded field names colliding.
type Timestamps = pg.BaseModel

// Task is one unit of background work persisted for later execution.
type Task struct {
	bun.BaseModel `bun:"table:background_tasks"`

	ID          int64      `bun:"id,pk,autoincrement"`
	OperationID string     `bun:"operation_id,notnull"`
	Payload     []byte     `bun:"payload"`
	Queue       string     `bun:"queue,notnull"`
	Status      string     `bun:"status,notnull"`
	Attempts    int        `bun:"attempts"`
	MaxAttempts int        `bun:"max_attempts"`
	LastError   string     `bun:"last_error"`
	ScheduledAt time.Time  `bun:"scheduled_at,notnull"`
	StartedAt   *time.Time `bun:"started_at"`
	FinishedAt  *time.Time `bun:"finished_at"`

	Timestamps
}

// Handler executes one task payload. Implementations typically decode the
// payload and call a mediator command.
type Handler func(ctx context.Context, payload []byte) error

// Migrate creates the task table if it does not exist.
func Migrate(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*Task)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errx.Wrap(err)
	}
	return nil
}
