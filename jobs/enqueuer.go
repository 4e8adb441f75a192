package jobs

import (
	"context"
	"encoding/json"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"
)

// Enqueuer persists tasks for background execution.
// It is used by the scheduler and directly by use cases.
type Enqueuer interface {
	// Enqueue serializes the payload and writes one task row through idb.
	// Passing a transaction makes the enqueue atomic with business writes.
	// Returns the id of the created task.
	Enqueue(ctx context.Context, idb bun.IDB, operationID string, payload any, opts ...EnqueueOption) (int64, error)
}

// NewEnqueuer creates an Enqueuer.
func NewEnqueuer() Enqueuer {
	return &enqueuer{}
}

type enqueuer struct{}

func (e *enqueuer) Enqueue(
	ctx context.Context,
	idb bun.IDB,
	operationID string,
	payload any,
	opts ...EnqueueOption,
) (int64, error) {
	options := defaultEnqueueOptions()
	for _, opt := range opts {
		opt(&options)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, errx.Wrap(err, errx.WithDetails(errx.D{"operation_id": operationID}))
	}

	task := &Task{
		OperationID: operationID,
		Payload:     body,
		Queue:       options.queue,
		Status:      StatusPending,
		MaxAttempts: options.maxAttempts,
		ScheduledAt: options.scheduledAt,
	}

	_, err = idb.NewInsert().Model(task).Exec(ctx)
	if err != nil {
		return 0, errx.Wrap(err, errx.WithDetails(errx.D{"operation_id": operationID}))
	}

	return task.ID, nil
}
