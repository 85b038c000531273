package queue_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/codenameuriel/exo-intel/pkg/adapters/memory"
	"github.com/codenameuriel/exo-intel/pkg/adapters/redis"
	"github.com/codenameuriel/exo-intel/pkg/dispatch"
	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/ports"
	"github.com/codenameuriel/exo-intel/pkg/queue"
	"github.com/codenameuriel/exo-intel/pkg/taskrunner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	broker  *memory.Broker
	results *memory.Results
	history *memory.History
	runner  *taskrunner.Runner
	userID  int64
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	catalog := memory.NewCatalog()
	require.NoError(t, ports.SeedCatalog(ctx, catalog))
	users := memory.NewUsers()
	user, err := users.CreateUser(ctx, "ines")
	require.NoError(t, err)

	e := &env{
		broker:  memory.NewBroker(0),
		results: memory.NewResults(),
		history: memory.NewHistory(),
		userID:  user.ID,
	}
	e.runner = taskrunner.New(users, e.history, dispatch.New(catalog))
	return e
}

// countingExecutor records how often each task ran.
type countingExecutor struct {
	calls atomic.Int32
	delay time.Duration
}

func (c *countingExecutor) Execute(ctx context.Context, task domain.Task) (domain.SimulationRun, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	return domain.SimulationRun{TaskID: task.ID, Status: domain.StatusSuccess, Result: domain.Result{"ok": true}}, nil
}

func TestQueue_Submit(t *testing.T) {
	e := newEnv(t)
	q := queue.New(e.broker, e.results)
	ctx := context.Background()

	id, err := q.Submit(ctx, e.userID, domain.KindTravelTime, domain.Parameters{"star_system_id": 1, "speed_percentage": 10})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, e.broker.Len())

	st, err := q.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, st.Status)
	assert.Nil(t, st.Result)

	_, err = q.Status(ctx, "no-such-task")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestWorker_Process(t *testing.T) {
	e := newEnv(t)
	q := queue.New(e.broker, e.results)
	w := queue.NewWorker(e.broker, e.results, e.runner)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		id, err := q.Submit(ctx, e.userID, domain.KindTravelTime, domain.Parameters{"star_system_id": 1.0, "speed_percentage": 50.0})
		require.NoError(t, err)
		task, err := e.broker.Dequeue(ctx)
		require.NoError(t, err)

		require.NoError(t, w.Process(ctx, task))
		st, err := q.Status(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSuccess, st.Status)
		assert.Equal(t, 8.49, st.Result["travel_time_years"])
	})

	t.Run("failure", func(t *testing.T) {
		id, err := q.Submit(ctx, e.userID, domain.KindTidalLocking, domain.Parameters{"planet_id": 102.0})
		require.NoError(t, err)
		task, err := e.broker.Dequeue(ctx)
		require.NoError(t, err)

		err = w.Process(ctx, task)
		assert.ErrorIs(t, err, domain.ErrMissingData)
		st, statusErr := q.Status(ctx, id)
		require.NoError(t, statusErr)
		assert.Equal(t, domain.StatusFailure, st.Status)
		assert.Equal(t, err.Error(), st.Result["error"])
	})

	t.Run("unknown user", func(t *testing.T) {
		id, err := q.Submit(ctx, 999, domain.KindStarLifetime, domain.Parameters{"star_id": 10.0})
		require.NoError(t, err)
		task, err := e.broker.Dequeue(ctx)
		require.NoError(t, err)

		assert.ErrorIs(t, w.Process(ctx, task), domain.ErrUserResolution)
		st, err := q.Status(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailure, st.Status)
	})
}

func TestWorker_SkipsFinishedTasks(t *testing.T) {
	e := newEnv(t)
	exec := &countingExecutor{}
	w := queue.NewWorker(e.broker, e.results, exec)
	ctx := context.Background()

	task := domain.NewTask(e.userID, domain.KindStarLifetime, nil, time.Now())
	require.NoError(t, e.results.SetStatus(ctx, domain.TaskStatus{TaskID: task.ID, Status: domain.StatusFailure}))

	require.NoError(t, w.Process(ctx, task))
	assert.Zero(t, exec.calls.Load())
}

func TestWorker_RedeliveredTaskRunsOnce(t *testing.T) {
	e := newEnv(t)
	exec := &countingExecutor{delay: 5 * time.Millisecond}
	w := queue.NewWorker(e.broker, e.results, exec)
	ctx := context.Background()

	task := domain.NewTask(e.userID, domain.KindStarLifetime, nil, time.Now())
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Process(ctx, task))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), exec.calls.Load())
}

func TestWorker_ReplicasShareDistributedClaim(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	locker := redis.NewLocker(client, redis.DefaultPrefix)

	e := newEnv(t)
	exec := &countingExecutor{delay: 20 * time.Millisecond}
	replicas := []*queue.Worker{
		queue.NewWorker(e.broker, e.results, exec, queue.WithLocker(locker)),
		queue.NewWorker(e.broker, e.results, exec, queue.WithLocker(locker)),
	}
	ctx := context.Background()

	task := domain.NewTask(e.userID, domain.KindStarLifetime, nil, time.Now())
	var wg sync.WaitGroup
	for _, w := range replicas {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Process(ctx, task))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), exec.calls.Load())
	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:task:"+task.ID), "claim must be released")
}

func TestWorker_TaskTimeout(t *testing.T) {
	e := newEnv(t)
	users := memory.NewUsers()
	user, err := users.CreateUser(context.Background(), "slow")
	require.NoError(t, err)
	runner := taskrunner.New(users, e.history, dispatch.New(memory.NewCatalog()), taskrunner.WithDelay(time.Hour))
	w := queue.NewWorker(e.broker, e.results, runner, queue.WithTaskTimeout(20*time.Millisecond))
	ctx := context.Background()

	task := domain.NewTask(user.ID, domain.KindStarLifetime, domain.Parameters{"star_id": 1.0}, time.Now())
	err = w.Process(ctx, task)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	st, err := e.results.Status(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailure, st.Status)
}

func TestWorker_Run(t *testing.T) {
	e := newEnv(t)
	q := queue.New(e.broker, e.results)
	w := queue.NewWorker(e.broker, e.results, e.runner, queue.WithConcurrency(3))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	var ids []string
	for i := range 9 {
		speed := float64(10 + i*10)
		id, err := q.Submit(context.Background(), e.userID, domain.KindTravelTime, domain.Parameters{"star_system_id": 2.0, "speed_percentage": speed})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.Eventually(t, func() bool {
		for _, id := range ids {
			st, err := q.Status(context.Background(), id)
			if err != nil || !st.Status.IsTerminal() {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)

	runs, err := e.history.ListByUser(context.Background(), e.userID, domain.Page{})
	require.NoError(t, err)
	assert.Len(t, runs, len(ids))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}

// encodingResults rejects statuses that cannot be stored as JSON, like the
// Redis backend does.
type encodingResults struct {
	*memory.Results
}

func (r encodingResults) SetStatus(ctx context.Context, status domain.TaskStatus) error {
	if _, err := json.Marshal(status); err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	return r.Results.SetStatus(ctx, status)
}

// infiniteExecutor succeeds with a result JSON cannot represent.
type infiniteExecutor struct{}

func (infiniteExecutor) Execute(_ context.Context, task domain.Task) (domain.SimulationRun, error) {
	return domain.SimulationRun{TaskID: task.ID, Status: domain.StatusSuccess, Result: domain.Result{"fraction_elapsed": math.Inf(1)}}, nil
}

func TestWorker_UnstorableResultFailsTask(t *testing.T) {
	e := newEnv(t)
	results := encodingResults{e.results}
	w := queue.NewWorker(e.broker, results, infiniteExecutor{})
	ctx := context.Background()

	task := domain.NewTask(e.userID, domain.KindStarLifetime, domain.Parameters{"star_id": 10.0}, time.Now())
	err := w.Process(ctx, task)
	assert.ErrorContains(t, err, "failed to persist result")

	st, statusErr := results.Status(ctx, task.ID)
	require.NoError(t, statusErr)
	assert.Equal(t, domain.StatusFailure, st.Status)
	assert.Contains(t, st.Result["error"], "unsupported value")
}
