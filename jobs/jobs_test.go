package jobs_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/clearstack/pkg/jobs"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxIdleConns(4)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, jobs.Migrate(context.Background(), db))
	return db
}

func getTask(t *testing.T, db *bun.DB, id int64) jobs.Task {
	t.Helper()

	var task jobs.Task
	err := db.NewSelect().Model(&task).Where("id = ?", id).Scan(context.Background())
	require.NoError(t, err)
	return task
}

// taskStatus is a non-failing lookup usable inside Eventually conditions.
func taskStatus(db *bun.DB, id int64) string {
	var task jobs.Task
	if err := db.NewSelect().Model(&task).Where("id = ?", id).Scan(context.Background()); err != nil {
		return ""
	}
	return task.Status
}

func TestEnqueueWritesTaskRow(t *testing.T) {
	db := newTestDB(t)
	e := jobs.NewEnqueuer()
	ctx := context.Background()

	type payload struct {
		UserID int64 `json:"user_id"`
	}

	id, err := e.Enqueue(ctx, db, "send_welcome_email", payload{UserID: 42})
	require.NoError(t, err)
	require.Positive(t, id)

	task := getTask(t, db, id)
	assert.Equal(t, "send_welcome_email", task.OperationID)
	assert.Equal(t, jobs.StatusPending, task.Status)
	assert.Equal(t, jobs.DefaultQueue, task.Queue)
	assert.Equal(t, 3, task.MaxAttempts)
	assert.JSONEq(t, `{"user_id":42}`, string(task.Payload))
}

func TestEnqueueHonorsOptions(t *testing.T) {
	db := newTestDB(t)
	e := jobs.NewEnqueuer()
	ctx := context.Background()

	later := time.Now().Add(time.Hour)
	id, err := e.Enqueue(ctx, db, "nightly_report", nil,
		jobs.WithQueue("reports"),
		jobs.WithMaxAttempts(5),
		jobs.WithScheduledAt(later),
	)
	require.NoError(t, err)

	task := getTask(t, db, id)
	assert.Equal(t, "reports", task.Queue)
	assert.Equal(t, 5, task.MaxAttempts)
	assert.WithinDuration(t, later, task.ScheduledAt, time.Second)
}

func TestEnqueueSharesTransaction(t *testing.T) {
	db := newTestDB(t)
	e := jobs.NewEnqueuer()
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	_, err = e.Enqueue(ctx, tx, "doomed", nil)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	count, err := db.NewSelect().Model((*jobs.Task)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func startWorker(t *testing.T, db *bun.DB, w jobs.Worker) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestWorkerProcessesTask(t *testing.T) {
	db := newTestDB(t)
	e := jobs.NewEnqueuer()
	ctx := context.Background()

	var got atomic.Value
	w := jobs.NewWorker(db, jobs.WithPollInterval(10*time.Millisecond))
	w.Register("greet", func(_ context.Context, payload []byte) error {
		var in struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(payload, &in); err != nil {
			return err
		}
		got.Store(in.Name)
		return nil
	})

	id, err := e.Enqueue(ctx, db, "greet", map[string]string{"name": "alice"})
	require.NoError(t, err)

	startWorker(t, db, w)

	require.Eventually(t, func() bool {
		return taskStatus(db, id) == jobs.StatusSucceeded
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "alice", got.Load())
	task := getTask(t, db, id)
	assert.NotNil(t, task.FinishedAt)
	assert.Empty(t, task.LastError)
}

func TestWorkerRetriesThenFailsPermanently(t *testing.T) {
	db := newTestDB(t)
	e := jobs.NewEnqueuer()
	ctx := context.Background()

	var attempts atomic.Int32
	w := jobs.NewWorker(db, jobs.WithPollInterval(10*time.Millisecond))
	w.Register("flaky", func(context.Context, []byte) error {
		attempts.Add(1)
		return assert.AnError
	})

	id, err := e.Enqueue(ctx, db, "flaky", nil, jobs.WithMaxAttempts(2))
	require.NoError(t, err)

	startWorker(t, db, w)

	require.Eventually(t, func() bool {
		return taskStatus(db, id) == jobs.StatusFailed
	}, 5*time.Second, 20*time.Millisecond)

	task := getTask(t, db, id)
	assert.Equal(t, 2, task.Attempts)
	assert.Contains(t, task.LastError, assert.AnError.Error())
	assert.EqualValues(t, 2, attempts.Load())
}

func TestWorkerFailsUnknownOperation(t *testing.T) {
	db := newTestDB(t)
	e := jobs.NewEnqueuer()
	ctx := context.Background()

	w := jobs.NewWorker(db, jobs.WithPollInterval(10*time.Millisecond))

	id, err := e.Enqueue(ctx, db, "nobody_home", nil)
	require.NoError(t, err)

	startWorker(t, db, w)

	require.Eventually(t, func() bool {
		return taskStatus(db, id) == jobs.StatusFailed
	}, 5*time.Second, 20*time.Millisecond)

	assert.Contains(t, getTask(t, db, id).LastError, "no handler registered")
}

func TestWorkerSkipsFutureTasks(t *testing.T) {
	db := newTestDB(t)
	e := jobs.NewEnqueuer()
	ctx := context.Background()

	w := jobs.NewWorker(db, jobs.WithPollInterval(10*time.Millisecond))
	w.Register("later", func(context.Context, []byte) error { return nil })

	id, err := e.Enqueue(ctx, db, "later", nil, jobs.WithScheduledAt(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	startWorker(t, db, w)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, jobs.StatusPending, getTask(t, db, id).Status)
}

func TestSchedulerRegistrationAndTriggerNow(t *testing.T) {
	db := newTestDB(t)
	s := jobs.NewScheduler(db)
	ctx := context.Background()

	err := s.AddOrUpdateRecurring("cleanup", "purge_sessions", nil, "not a cron expr")
	require.Error(t, err)

	require.NoError(t, s.AddOrUpdateRecurring("cleanup", "purge_sessions", nil, "0 3 * * *"))
	require.NoError(t, s.AddOrUpdateRecurring("cleanup", "purge_expired_sessions", nil, "30 3 * * *",
		jobs.WithTimezone("UTC"),
		jobs.WithEnqueueOptions(jobs.WithQueue("maintenance")),
	))
	assert.Equal(t, []string{"cleanup"}, s.ListNames())

	// replacement took effect: TriggerNow enqueues the updated operation
	require.NoError(t, s.TriggerNow(ctx, "cleanup"))

	var task jobs.Task
	err = db.NewSelect().Model(&task).Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "purge_expired_sessions", task.OperationID)
	assert.Equal(t, "maintenance", task.Queue)

	err = s.TriggerNow(ctx, "missing")
	assert.Error(t, err)

	s.RemoveRecurring("cleanup")
	assert.Empty(t, s.ListNames())
}
