package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesAllJobs(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[uuid.UUID]int{}
	)
	q := NewQueue(func(_ context.Context, jobID uuid.UUID) error {
		mu.Lock()
		seen[jobID]++
		mu.Unlock()
		return nil
	}, nil, WithWorkers(3), WithQueueSize(16))

	var ids []uuid.UUID
	for i := 0; i < 10; i++ {
		id := uuid.New()
		ids = append(ids, id)
		require.NoError(t, q.Enqueue(context.Background(), id))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 10)
	for _, id := range ids {
		assert.Equal(t, 1, seen[id])
	}
}

func TestQueueJobTimeoutPropagates(t *testing.T) {
	deadline := make(chan bool, 1)
	q := NewQueue(func(ctx context.Context, _ uuid.UUID) error {
		_, ok := ctx.Deadline()
		deadline <- ok
		return nil
	}, nil, WithWorkers(1), WithJobTimeout(time.Second))

	require.NoError(t, q.Enqueue(context.Background(), uuid.New()))

	select {
	case ok := <-deadline:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("job never processed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
}

func TestQueueEnqueueAfterShutdownIsNoop(t *testing.T) {
	processed := make(chan uuid.UUID, 1)
	q := NewQueue(func(_ context.Context, jobID uuid.UUID) error {
		processed <- jobID
		return nil
	}, nil, WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	require.NoError(t, q.Enqueue(context.Background(), uuid.New()))
	select {
	case id := <-processed:
		t.Fatalf("job %s processed after shutdown", id)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestQueueShutdownIdempotent(t *testing.T) {
	q := NewQueue(func(context.Context, uuid.UUID) error { return nil }, nil, WithWorkers(1))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
	q.Shutdown(ctx)
}

func TestQueueKeepsGoingAfterProcessError(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	q := NewQueue(func(context.Context, uuid.UUID) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return context.DeadlineExceeded
	}, nil, WithWorkers(1))

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(context.Background(), uuid.New()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
}
