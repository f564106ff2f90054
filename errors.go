package rbac

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors are fatal at construction time and never recovered:
// a policy document that fails to build cannot be retried into building.
var (
	// ErrInvalidConfiguration is the category error joined into every
	// construction failure.
	ErrInvalidConfiguration = errors.New("rbac.invalid_configuration")

	// ErrMissingRoleID is returned when a role declaration has no id.
	ErrMissingRoleID = errors.New("rbac.missing_role_id")

	// ErrDuplicateRole is returned when two declarations share an id.
	ErrDuplicateRole = errors.New("rbac.duplicate_role")

	// ErrCircularInheritance is returned when role inheritance forms a cycle.
	ErrCircularInheritance = errors.New("rbac.circular_inheritance")

	// ErrAmbiguousClaim is returned in strict mode when two roles map the
	// same claim key/value pair.
	ErrAmbiguousClaim = errors.New("rbac.ambiguous_claim_mapping")

	// ErrNoSource is returned when an Authorizer is constructed without a
	// policy source.
	ErrNoSource = errors.New("rbac.no_source")
)

// Decision errors are deterministic outcomes of a decision call and are
// recoverable by the caller. Retrying with the same input never changes the
// result.
var (
	// ErrUnauthorized is the category error every AuthorizationError unwraps
	// to; it maps to a 403-equivalent at the transport layer.
	ErrUnauthorized = errors.New("rbac.unauthorized")

	// ErrUnauthenticated indicates no authenticated identity on the request.
	// Only pipeline glue (middleware) returns it, never the engine itself.
	// It maps to a 401-equivalent at the transport layer.
	ErrUnauthenticated = errors.New("rbac.unauthenticated")

	// ErrNoClaims is returned when a decision is requested for an identity
	// with no claims at all.
	ErrNoClaims = errors.New("rbac.no_claims")

	// ErrNoPermissionsRequested is returned when a permission decision is
	// requested with an empty permission list.
	ErrNoPermissionsRequested = errors.New("rbac.no_permissions_requested")

	// ErrNoRolesRequested is returned when a role decision is requested with
	// an empty role list.
	ErrNoRolesRequested = errors.New("rbac.no_roles_requested")

	// ErrInvalidClaims is returned when identity claims cannot be extracted
	// from a JSON payload.
	ErrInvalidClaims = errors.New("rbac.invalid_claims")
)

// AuthorizationError reports a denied decision together with what was
// missing, so callers can log or surface the exact gap. It unwraps to
// ErrUnauthorized and, for precondition failures, to the specific sentinel.
type AuthorizationError struct {
	// MissingPermissions lists the requested permissions no candidate role
	// satisfied. Set only by permission decisions.
	MissingPermissions []string

	// MissingRoles lists the requested role ids the identity does not hold.
	// Set only by role decisions.
	MissingRoles []string

	reason error
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	switch {
	case len(e.MissingPermissions) > 0:
		return fmt.Sprintf("%s: missing permissions: %s", ErrUnauthorized, strings.Join(e.MissingPermissions, ", "))
	case len(e.MissingRoles) > 0:
		return fmt.Sprintf("%s: missing roles: %s", ErrUnauthorized, strings.Join(e.MissingRoles, ", "))
	case e.reason != nil:
		return fmt.Sprintf("%s: %s", ErrUnauthorized, e.reason)
	}
	return ErrUnauthorized.Error()
}

// Unwrap exposes the category sentinel and, when set, the precondition
// sentinel for errors.Is matching.
func (e *AuthorizationError) Unwrap() []error {
	if e.reason != nil {
		return []error{ErrUnauthorized, e.reason}
	}
	return []error{ErrUnauthorized}
}

func newDecisionError(reason error) *AuthorizationError {
	return &AuthorizationError{reason: reason}
}

func configurationError(specific error, format string, args ...any) error {
	return errors.Join(ErrInvalidConfiguration, specific, fmt.Errorf(format, args...))
}
