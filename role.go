package rbac

import (
	"slices"
	"strings"

	"github.com/danmasta/rbac/permissions"
)

// Role is a resolved role inside a registry. Roles are immutable once the
// registry is built: every accessor either returns a copy or reads state
// that is never written again, so roles are safe for concurrent use.
type Role struct {
	id          string
	description string
	inherits    []string
	patterns    []string
	claims      map[string]map[string]struct{}
	resolved    *permissions.Tree
}

func newRole(decl RoleDecl) (*Role, error) {
	id := strings.TrimSpace(decl.ID)
	if id == "" {
		return nil, configurationError(ErrMissingRoleID, "role id is required")
	}

	role := &Role{
		id:          id,
		description: decl.Description,
		inherits:    slices.Clone(decl.Inherit),
		claims:      make(map[string]map[string]struct{}, len(decl.Claims)),
	}

	// Empty patterns and claim values are declaration noise, not grants.
	for _, pattern := range decl.Permissions {
		if pattern == "" {
			continue
		}
		role.patterns = append(role.patterns, pattern)
	}
	for key, values := range decl.Claims {
		if key == "" {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, value := range values {
			if value == "" {
				continue
			}
			set[value] = struct{}{}
		}
		if len(set) > 0 {
			role.claims[key] = set
		}
	}

	// The registry replaces this with the inheritance-merged tree; starting
	// from the role's own patterns keeps the zero-inheritance case exact.
	role.resolved = permissions.NewTree(role.patterns...)
	return role, nil
}

// ID returns the role's unique identifier.
func (r *Role) ID() string {
	return r.id
}

// Description returns the role's free-form description.
func (r *Role) Description() string {
	return r.description
}

// Inherits returns the role ids this role was declared to inherit from,
// including ids that resolved to nothing.
func (r *Role) Inherits() []string {
	return slices.Clone(r.inherits)
}

// Permissions returns the role's own declared patterns, not the inherited
// set. Resolved grants are queried through HasPermission.
func (r *Role) Permissions() []string {
	return slices.Clone(r.patterns)
}

// HasPermission reports whether the role's resolved permission set grants
// the given concrete permission.
func (r *Role) HasPermission(permission string) bool {
	return r.resolved.Matches(permission)
}

// HasClaim reports whether the given claim key/value pair maps to this role.
func (r *Role) HasClaim(key, value string) bool {
	values, ok := r.claims[key]
	if !ok {
		return false
	}
	_, ok = values[value]
	return ok
}
