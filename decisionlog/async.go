package decisionlog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AsyncStore wraps another store with a buffered background writer so
// recording never blocks the request path. When the buffer is full the write
// falls back to a synchronous store call instead of dropping the event.
type AsyncStore struct {
	store     Store
	events    chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	logger    *slog.Logger
	timeout   time.Duration
}

// AsyncOption configures an AsyncStore.
type AsyncOption func(*AsyncStore)

// WithAsyncLogger sets the logger used to report background write failures.
func WithAsyncLogger(logger *slog.Logger) AsyncOption {
	return func(s *AsyncStore) {
		s.logger = logger
	}
}

// WithStoreTimeout bounds each background write. Background writes use a
// fresh context so a canceled request cannot abort the audit write.
func WithStoreTimeout(timeout time.Duration) AsyncOption {
	return func(s *AsyncStore) {
		s.timeout = timeout
	}
}

// NewAsyncStore starts a background writer over the given store. A
// non-positive bufferSize falls back to 1000. Call Close during shutdown to
// flush queued events.
func NewAsyncStore(store Store, bufferSize int, opts ...AsyncOption) *AsyncStore {
	if store == nil {
		panic("decisionlog: store cannot be nil")
	}
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	s := &AsyncStore{
		store:   store,
		events:  make(chan Event, bufferSize),
		done:    make(chan struct{}),
		logger:  slog.Default(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.worker()
	return s
}

// Store implements Store. It returns immediately once the event is queued.
func (s *AsyncStore) Store(ctx context.Context, event Event) error {
	select {
	case s.events <- event:
		return nil
	case <-s.done:
		return ErrStoreClosed
	default:
		// Buffer full: keep the event by writing it synchronously.
		return s.store.Store(ctx, event)
	}
}

// Query implements Store by delegating to the wrapped store. Recently queued
// events may not be visible until the worker has flushed them.
func (s *AsyncStore) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	return s.store.Query(ctx, criteria)
}

func (s *AsyncStore) worker() {
	defer s.wg.Done()
	for {
		select {
		case event := <-s.events:
			s.persist(event)
		case <-s.done:
			for {
				select {
				case event := <-s.events:
					s.persist(event)
				default:
					return
				}
			}
		}
	}
}

func (s *AsyncStore) persist(event Event) {
	// Detached from any request context so client timeouts cannot cancel
	// audit writes.
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.Store(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "decision event write failed",
			slog.String("event_id", event.ID),
			slog.Any("error", err),
		)
	}
}

// Close stops the worker after flushing queued events. The context bounds
// how long to wait for the flush.
func (s *AsyncStore) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
