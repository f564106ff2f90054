package decisionlog_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danmasta/rbac/decisionlog"
)

// gatedStore blocks its first write until the gate opens, which lets tests
// hold the worker busy while they fill the buffer.
type gatedStore struct {
	mu     sync.Mutex
	events []decisionlog.Event
	gate   chan struct{}
	calls  atomic.Int32
}

func newGatedStore() *gatedStore {
	return &gatedStore{gate: make(chan struct{})}
}

func (s *gatedStore) Store(ctx context.Context, event decisionlog.Event) error {
	if s.calls.Add(1) == 1 {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *gatedStore) Query(ctx context.Context, criteria decisionlog.Criteria) ([]decisionlog.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]decisionlog.Event(nil), s.events...), nil
}

func (s *gatedStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type failingStore struct{}

func (failingStore) Store(ctx context.Context, event decisionlog.Event) error {
	return errors.New("disk on fire")
}

func (failingStore) Query(ctx context.Context, criteria decisionlog.Criteria) ([]decisionlog.Event, error) {
	return nil, nil
}

func TestAsyncStoreFlushesOnClose(t *testing.T) {
	t.Parallel()

	backing := decisionlog.NewMemoryStore(0)
	async := decisionlog.NewAsyncStore(backing, 64)
	ctx := context.Background()

	for i := range 10 {
		event := seededEvent(fmt.Sprintf("evt-%d", i), decisionlog.DecisionPermissions, true, "", time.Now())
		require.NoError(t, async.Store(ctx, event))
	}

	require.NoError(t, async.Close(ctx))
	require.Equal(t, 10, backing.Len(), "queued events survive shutdown")
}

func TestAsyncStoreRejectsAfterClose(t *testing.T) {
	t.Parallel()

	async := decisionlog.NewAsyncStore(decisionlog.NewMemoryStore(0), 4)
	require.NoError(t, async.Close(context.Background()))

	err := async.Store(context.Background(), seededEvent("late", decisionlog.DecisionRoles, false, "", time.Now()))
	require.ErrorIs(t, err, decisionlog.ErrStoreClosed)

	require.NoError(t, async.Close(context.Background()), "closing twice is safe")
}

func TestAsyncStoreFullBufferWritesSynchronously(t *testing.T) {
	t.Parallel()

	backing := newGatedStore()
	async := decisionlog.NewAsyncStore(backing, 1)
	ctx := context.Background()

	// First event occupies the worker, which blocks inside the backing store.
	require.NoError(t, async.Store(ctx, seededEvent("held", decisionlog.DecisionPermissions, true, "", time.Now())))
	require.Eventually(t, func() bool {
		return backing.calls.Load() == 1
	}, time.Second, time.Millisecond, "worker should pick up the first event")

	// Second event fills the buffer; the third has nowhere to queue and must
	// be written synchronously.
	require.NoError(t, async.Store(ctx, seededEvent("queued", decisionlog.DecisionPermissions, true, "", time.Now())))
	require.NoError(t, async.Store(ctx, seededEvent("sync", decisionlog.DecisionPermissions, true, "", time.Now())))
	require.Equal(t, 1, backing.len(), "the overflow event lands before the worker resumes")

	close(backing.gate)
	require.NoError(t, async.Close(ctx))

	events, err := backing.Query(ctx, decisionlog.Criteria{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"held", "queued", "sync"}, eventIDs(events))
}

func TestAsyncStoreLogsWriteFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	async := decisionlog.NewAsyncStore(failingStore{}, 4, decisionlog.WithAsyncLogger(logger))

	require.NoError(t, async.Store(context.Background(), seededEvent("doomed", decisionlog.DecisionPermissions, true, "", time.Now())))
	require.NoError(t, async.Close(context.Background()))

	require.Contains(t, buf.String(), "decision event write failed")
	require.Contains(t, buf.String(), "doomed")
}

func TestAsyncStoreQueryDelegates(t *testing.T) {
	t.Parallel()

	backing := decisionlog.NewMemoryStore(0)
	event := seededEvent("direct", decisionlog.DecisionRoles, true, "", time.Now())
	require.NoError(t, backing.Store(context.Background(), event))

	async := decisionlog.NewAsyncStore(backing, 4)
	t.Cleanup(func() {
		_ = async.Close(context.Background())
	})

	events, err := async.Query(context.Background(), decisionlog.Criteria{Decision: decisionlog.DecisionRoles})
	require.NoError(t, err)
	require.Equal(t, []string{"direct"}, eventIDs(events))
}
