package rbac

import (
	"maps"
	"slices"

	"github.com/danmasta/rbac/permissions"
)

// Registry holds the fully resolved policy: every role's inherited
// permission tree and the claims index over all roles. All resolution work
// happens in NewRegistry; after it returns the registry is immutable and
// safe for unsynchronized concurrent reads. Policy changes mean building a
// new registry and swapping the reference.
type Registry struct {
	cfg   Config
	roles map[string]*Role
	ids   []string
	index claimsIndex
}

// NewRegistry builds a registry from role declarations. It fails with an
// ErrInvalidConfiguration-joined error on the first defect it finds: a
// missing or duplicate id, an inheritance cycle, or (in strict mode) an
// ambiguous claim mapping. Unknown ids in inherit lists are not defects;
// they resolve to nothing.
func NewRegistry(decls []RoleDecl, opts ...Option) (*Registry, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	reg := &Registry{
		cfg:   cfg,
		roles: make(map[string]*Role, len(decls)),
	}
	for _, decl := range decls {
		role, err := newRole(decl)
		if err != nil {
			return nil, err
		}
		if _, exists := reg.roles[role.id]; exists {
			return nil, configurationError(ErrDuplicateRole, "role %q declared twice", role.id)
		}
		reg.roles[role.id] = role
	}
	reg.ids = slices.Sorted(maps.Keys(reg.roles))

	resolved := make(map[string]*permissions.Tree, len(reg.roles))
	visiting := make(map[string]struct{})
	for _, id := range reg.ids {
		if _, err := reg.resolve(reg.roles[id], resolved, visiting); err != nil {
			return nil, err
		}
	}

	index, err := buildClaimsIndex(reg.roles, reg.ids, cfg.Strict)
	if err != nil {
		return nil, err
	}
	reg.index = index
	return reg, nil
}

// resolve computes a role's full permission tree: the resolved trees of its
// parents merged in declaration order, overlaid by the role's own patterns.
// Results are memoized per build so shared ancestors resolve once, and the
// visiting set turns inheritance cycles into construction errors instead of
// unbounded recursion.
func (r *Registry) resolve(role *Role, resolved map[string]*permissions.Tree, visiting map[string]struct{}) (*permissions.Tree, error) {
	if tree, ok := resolved[role.id]; ok {
		return tree, nil
	}
	if _, ok := visiting[role.id]; ok {
		return nil, configurationError(ErrCircularInheritance, "inheritance cycle through role %q", role.id)
	}
	visiting[role.id] = struct{}{}
	defer delete(visiting, role.id)

	tree := permissions.NewTree()
	for _, id := range role.inherits {
		parent, ok := r.roles[id]
		if !ok {
			continue
		}
		parentTree, err := r.resolve(parent, resolved, visiting)
		if err != nil {
			return nil, err
		}
		tree.Merge(parentTree)
	}
	tree.Merge(role.resolved)

	resolved[role.id] = tree
	role.resolved = tree
	return tree, nil
}

// Role returns the resolved role with the given id.
func (r *Registry) Role(id string) (*Role, bool) {
	role, ok := r.roles[id]
	return role, ok
}

// Roles returns all role ids in the registry, sorted.
func (r *Registry) Roles() []string {
	return slices.Clone(r.ids)
}

// Len returns the number of roles in the registry.
func (r *Registry) Len() int {
	return len(r.roles)
}
