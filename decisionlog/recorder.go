package decisionlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists decision events. Implementations must be safe for
// concurrent use.
type Store interface {
	Store(ctx context.Context, event Event) error
	Query(ctx context.Context, criteria Criteria) ([]Event, error)
}

// Recorder builds and persists decision events. It stamps ids and
// timestamps, pulls the subject and extra metadata from the request context,
// and leaves durability to the configured store.
type Recorder struct {
	store             Store
	subjectExtractor  func(context.Context) (string, bool)
	metadataExtractor func(context.Context) map[string]any
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSubjectExtractor wires the function that identifies the subject of a
// decision from the request context, typically a user id set by the
// authentication layer.
func WithSubjectExtractor(fn func(context.Context) (string, bool)) RecorderOption {
	return func(r *Recorder) {
		r.subjectExtractor = fn
	}
}

// WithMetadataExtractor wires a function that contributes request-scoped
// metadata (request id, route, client ip) to every event.
func WithMetadataExtractor(fn func(context.Context) map[string]any) RecorderOption {
	return func(r *Recorder) {
		r.metadataExtractor = fn
	}
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	if store == nil {
		panic("decisionlog: store cannot be nil")
	}
	r := &Recorder{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allowed records a granted decision.
func (r *Recorder) Allowed(ctx context.Context, decision Decision, requested, candidates []string, opts ...EventOption) error {
	event := r.eventFromContext(ctx)
	event.Decision = decision
	event.Requested = requested
	event.Candidates = candidates
	event.Allowed = true

	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return r.store.Store(ctx, event)
}

// Denied records a denied decision together with what was missing.
func (r *Recorder) Denied(ctx context.Context, decision Decision, requested, missing, candidates []string, opts ...EventOption) error {
	event := r.eventFromContext(ctx)
	event.Decision = decision
	event.Requested = requested
	event.Missing = missing
	event.Candidates = candidates
	event.Allowed = false

	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return r.store.Store(ctx, event)
}

func (r *Recorder) eventFromContext(ctx context.Context) Event {
	event := Event{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
	if r.subjectExtractor != nil {
		if subject, ok := r.subjectExtractor(ctx); ok {
			event.Subject = subject
		}
	}
	if r.metadataExtractor != nil {
		if meta := r.metadataExtractor(ctx); len(meta) > 0 {
			event.Metadata = meta
		}
	}
	return event
}
