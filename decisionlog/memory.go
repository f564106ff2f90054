package decisionlog

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Criteria narrows a Query. Zero-valued fields match everything.
type Criteria struct {
	// Decision filters by decision kind.
	Decision Decision

	// Allowed filters by outcome when non-nil.
	Allowed *bool

	// Subject filters by exact subject.
	Subject string

	// Since keeps events created at or after the given time.
	Since time.Time

	// Limit caps the number of returned events, keeping the most recent;
	// zero means no cap.
	Limit int
}

func (c Criteria) matches(e Event) bool {
	if c.Decision != "" && e.Decision != c.Decision {
		return false
	}
	if c.Allowed != nil && e.Allowed != *c.Allowed {
		return false
	}
	if c.Subject != "" && e.Subject != c.Subject {
		return false
	}
	if !c.Since.IsZero() && e.CreatedAt.Before(c.Since) {
		return false
	}
	return true
}

// MemoryStore keeps the most recent events in memory. It is bounded: once
// the capacity is reached the oldest events are dropped. Useful in tests and
// for exposing recent denials over a debug endpoint.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
	cap    int
}

// NewMemoryStore creates a store holding at most capacity events. A
// non-positive capacity falls back to 1000.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryStore{
		events: make([]Event, 0, capacity),
		cap:    capacity,
	}
}

// Store implements Store.
func (s *MemoryStore) Store(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == s.cap {
		copy(s.events, s.events[1:])
		s.events = s.events[:s.cap-1]
	}
	s.events = append(s.events, event)
	return nil
}

// Query implements Store. Events are returned oldest first.
func (s *MemoryStore) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := lo.Filter(s.events, func(e Event, _ int) bool {
		return criteria.matches(e)
	})
	if criteria.Limit > 0 && len(matched) > criteria.Limit {
		matched = matched[len(matched)-criteria.Limit:]
	}
	return matched, nil
}

// Len returns the number of stored events.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
