package rbac

import (
	"context"
	"errors"
	"maps"
	"slices"
)

// Authorizer answers authorization questions against a resolved registry.
// It holds no per-request state: the same Authorizer serves every request
// for the lifetime of the policy, and decisions never mutate claims or
// registry state.
type Authorizer struct {
	registry *Registry
	cfg      Config
}

// New loads role declarations from the source and builds an Authorizer over
// them. Construction is the only moment policy defects can surface; a nil
// source or a failing load is an ErrInvalidConfiguration-joined error.
func New(ctx context.Context, source Source, opts ...Option) (*Authorizer, error) {
	if source == nil {
		return nil, configurationError(ErrNoSource, "policy source is required")
	}
	decls, err := source.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfiguration, err)
	}
	registry, err := NewRegistry(decls, opts...)
	if err != nil {
		return nil, err
	}
	return NewAuthorizer(registry), nil
}

// NewAuthorizer wraps an already built registry.
func NewAuthorizer(registry *Registry) *Authorizer {
	return &Authorizer{
		registry: registry,
		cfg:      registry.cfg,
	}
}

// Registry returns the registry this authorizer decides against.
func (a *Authorizer) Registry() *Registry {
	return a.registry
}

// ClaimsFromPayload extracts identity claims from a raw JSON payload at the
// configured claim location (default "user"). Hosts that receive identities
// as opaque JSON, decoded tokens or gateway headers, use this instead of
// assembling Claims by hand.
func (a *Authorizer) ClaimsFromPayload(data []byte) (Claims, error) {
	return ClaimsFromJSON(data, a.cfg.ClaimLocation)
}

// Role looks up a role by id.
func (a *Authorizer) Role(id string) (*Role, bool) {
	return a.registry.Role(id)
}

// Roles returns every registered role id, sorted.
func (a *Authorizer) Roles() []string {
	return a.registry.Roles()
}

// CandidateRoles returns the roles the identity's claims map to, sorted by
// id. When claimKeys are given only those keys are consulted; otherwise the
// configured keys apply, and failing that every claim on the identity. A
// role is a candidate if any consulted claim value maps to it.
func (a *Authorizer) CandidateRoles(claims Claims, claimKeys ...string) []*Role {
	if claims.IsEmpty() || a.registry.Len() == 0 {
		return nil
	}
	matched := make(map[string]*Role)
	for _, key := range a.decisionKeys(claims, claimKeys) {
		for _, value := range claims.Values(key) {
			for _, role := range a.registry.index.roles(key, value) {
				matched[role.id] = role
			}
		}
	}
	if len(matched) == 0 {
		return nil
	}
	out := make([]*Role, 0, len(matched))
	for _, id := range slices.Sorted(maps.Keys(matched)) {
		out = append(out, matched[id])
	}
	return out
}

// AuthorizeByPermissions grants when every requested permission is matched
// by at least one candidate role; different permissions may be satisfied by
// different roles. A denial is an *AuthorizationError listing exactly the
// permissions no candidate could satisfy.
func (a *Authorizer) AuthorizeByPermissions(claims Claims, permissions []string, claimKeys ...string) error {
	if claims.IsEmpty() {
		return newDecisionError(ErrNoClaims)
	}
	if len(permissions) == 0 {
		return newDecisionError(ErrNoPermissionsRequested)
	}
	candidates := a.CandidateRoles(claims, claimKeys...)
	var missing []string
	for _, permission := range permissions {
		if !anyRoleGrants(candidates, permission) {
			missing = append(missing, permission)
		}
	}
	if len(missing) > 0 {
		return &AuthorizationError{MissingPermissions: missing}
	}
	return nil
}

// AuthorizeByRoles grants when the identity holds at least one of the
// requested roles. Unlike permissions, requested roles are alternatives,
// not requirements: asking for ("admin", "support") means either suffices.
func (a *Authorizer) AuthorizeByRoles(claims Claims, roleIDs []string, claimKeys ...string) error {
	if claims.IsEmpty() {
		return newDecisionError(ErrNoClaims)
	}
	if len(roleIDs) == 0 {
		return newDecisionError(ErrNoRolesRequested)
	}
	candidates := a.CandidateRoles(claims, claimKeys...)
	for _, id := range roleIDs {
		for _, role := range candidates {
			if role.id == id {
				return nil
			}
		}
	}
	return &AuthorizationError{MissingRoles: slices.Clone(roleIDs)}
}

// AuthorizeByPermissionsFromContext runs AuthorizeByPermissions against the
// claims carried by the context, treating absent claims as an identity with
// none.
func (a *Authorizer) AuthorizeByPermissionsFromContext(ctx context.Context, permissions []string, claimKeys ...string) error {
	claims, _ := GetClaims(ctx)
	return a.AuthorizeByPermissions(claims, permissions, claimKeys...)
}

// AuthorizeByRolesFromContext runs AuthorizeByRoles against the claims
// carried by the context.
func (a *Authorizer) AuthorizeByRolesFromContext(ctx context.Context, roleIDs []string, claimKeys ...string) error {
	claims, _ := GetClaims(ctx)
	return a.AuthorizeByRoles(claims, roleIDs, claimKeys...)
}

func (a *Authorizer) decisionKeys(claims Claims, override []string) []string {
	switch {
	case len(override) > 0:
		return override
	case len(a.cfg.ClaimKeys) > 0:
		return a.cfg.ClaimKeys
	default:
		return slices.Sorted(maps.Keys(claims))
	}
}

func anyRoleGrants(roles []*Role, permission string) bool {
	for _, role := range roles {
		if role.HasPermission(permission) {
			return true
		}
	}
	return false
}
