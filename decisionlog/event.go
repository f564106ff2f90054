package decisionlog

import (
	"fmt"
	"time"
)

// Decision names the kind of authorization check that produced an event.
type Decision string

const (
	// DecisionPermissions marks a permission conjunction check.
	DecisionPermissions Decision = "permissions"

	// DecisionRoles marks a role disjunction check.
	DecisionRoles Decision = "roles"
)

// Event is a single recorded authorization decision.
type Event struct {
	ID         string         `json:"id"`
	Decision   Decision       `json:"decision"`
	Requested  []string       `json:"requested"`
	Missing    []string       `json:"missing,omitempty"`
	Candidates []string       `json:"candidates,omitempty"`
	Allowed    bool           `json:"allowed"`
	Subject    string         `json:"subject,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Validate checks the event carries the fields every record needs.
func (e *Event) Validate() error {
	if e.Decision == "" {
		return fmt.Errorf("%w: decision kind is required", ErrInvalidEvent)
	}
	if len(e.Requested) == 0 {
		return fmt.Errorf("%w: requested set is required", ErrInvalidEvent)
	}
	return nil
}

// EventOption applies optional fields to an event before it is stored.
type EventOption func(*Event)

// WithSubject sets the identity the decision was made for.
func WithSubject(subject string) EventOption {
	return func(e *Event) {
		e.Subject = subject
	}
}

// WithMetadata attaches one metadata entry to the event.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}
