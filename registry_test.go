package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmasta/rbac"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	registry, err := rbac.NewRegistry([]rbac.RoleDecl{
		{ID: "viewer", Permissions: rbac.StringList{"posts.read"}},
		{ID: "admin", Permissions: rbac.StringList{"*"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, registry.Len())
	assert.Equal(t, []string{"admin", "viewer"}, registry.Roles())

	viewer, ok := registry.Role("viewer")
	require.True(t, ok)
	assert.Equal(t, "viewer", viewer.ID())
	assert.True(t, viewer.HasPermission("posts.read"))
	assert.False(t, viewer.HasPermission("posts.write"))

	_, ok = registry.Role("ghost")
	assert.False(t, ok)
}

func TestNewRegistryConfigurationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		decls    []rbac.RoleDecl
		opts     []rbac.Option
		expected error
	}{
		{
			name:     "missing id",
			decls:    []rbac.RoleDecl{{Permissions: rbac.StringList{"posts.read"}}},
			expected: rbac.ErrMissingRoleID,
		},
		{
			name:     "blank id",
			decls:    []rbac.RoleDecl{{ID: "   "}},
			expected: rbac.ErrMissingRoleID,
		},
		{
			name: "duplicate id",
			decls: []rbac.RoleDecl{
				{ID: "viewer"},
				{ID: "viewer"},
			},
			expected: rbac.ErrDuplicateRole,
		},
		{
			name: "inheritance cycle",
			decls: []rbac.RoleDecl{
				{ID: "a", Inherit: rbac.StringList{"b"}},
				{ID: "b", Inherit: rbac.StringList{"a"}},
			},
			expected: rbac.ErrCircularInheritance,
		},
		{
			name: "self inheritance",
			decls: []rbac.RoleDecl{
				{ID: "a", Inherit: rbac.StringList{"a"}},
			},
			expected: rbac.ErrCircularInheritance,
		},
		{
			name: "strict claim collision",
			decls: []rbac.RoleDecl{
				{ID: "a", Claims: map[string]rbac.ClaimValues{"groups": {"admin"}}},
				{ID: "b", Claims: map[string]rbac.ClaimValues{"groups": {"admin"}}},
			},
			opts:     []rbac.Option{rbac.WithStrict(true)},
			expected: rbac.ErrAmbiguousClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := rbac.NewRegistry(tt.decls, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
			assert.ErrorIs(t, err, rbac.ErrInvalidConfiguration)
		})
	}
}

func TestRegistryInheritance(t *testing.T) {
	t.Parallel()

	registry, err := rbac.NewRegistry([]rbac.RoleDecl{
		{ID: "viewer", Permissions: rbac.StringList{"posts.read", "comments.read"}},
		{ID: "editor", Inherit: rbac.StringList{"viewer"}, Permissions: rbac.StringList{"posts.write"}},
		{ID: "chief", Inherit: rbac.StringList{"editor"}, Permissions: rbac.StringList{"posts.*"}},
	})
	require.NoError(t, err)

	editor, ok := registry.Role("editor")
	require.True(t, ok)
	assert.True(t, editor.HasPermission("posts.read"), "inherited from viewer")
	assert.True(t, editor.HasPermission("posts.write"), "own declaration")
	assert.False(t, editor.HasPermission("posts.delete"))

	chief, ok := registry.Role("chief")
	require.True(t, ok)
	assert.True(t, chief.HasPermission("comments.read"), "inherited through editor")
	assert.True(t, chief.HasPermission("posts.delete"), "own wildcard widens inherited grants")

	// Resolution never leaks grants back up the chain.
	viewer, ok := registry.Role("viewer")
	require.True(t, ok)
	assert.False(t, viewer.HasPermission("posts.write"))
	assert.False(t, viewer.HasPermission("posts.delete"))
}

func TestRegistryInheritanceDiamond(t *testing.T) {
	t.Parallel()

	registry, err := rbac.NewRegistry([]rbac.RoleDecl{
		{ID: "base", Permissions: rbac.StringList{"api.status"}},
		{ID: "left", Inherit: rbac.StringList{"base"}, Permissions: rbac.StringList{"api.users.read"}},
		{ID: "right", Inherit: rbac.StringList{"base"}, Permissions: rbac.StringList{"api.posts.read"}},
		{ID: "top", Inherit: rbac.StringList{"left", "right"}},
	})
	require.NoError(t, err)

	top, ok := registry.Role("top")
	require.True(t, ok)
	assert.True(t, top.HasPermission("api.status"))
	assert.True(t, top.HasPermission("api.users.read"))
	assert.True(t, top.HasPermission("api.posts.read"))
}

func TestRegistryUnknownInheritIgnored(t *testing.T) {
	t.Parallel()

	registry, err := rbac.NewRegistry([]rbac.RoleDecl{
		{ID: "editor", Inherit: rbac.StringList{"ghost", "viewer"}, Permissions: rbac.StringList{"posts.write"}},
		{ID: "viewer", Permissions: rbac.StringList{"posts.read"}},
	})
	require.NoError(t, err)

	editor, ok := registry.Role("editor")
	require.True(t, ok)
	assert.True(t, editor.HasPermission("posts.read"))
	assert.Equal(t, []string{"ghost", "viewer"}, editor.Inherits())
}

func TestRegistryResolutionDeterministic(t *testing.T) {
	t.Parallel()

	decls := []rbac.RoleDecl{
		{ID: "viewer", Permissions: rbac.StringList{"posts.read"}},
		{ID: "editor", Inherit: rbac.StringList{"viewer"}, Permissions: rbac.StringList{"posts.*."}},
		{ID: "admin", Inherit: rbac.StringList{"editor"}, Permissions: rbac.StringList{"*"}},
	}
	probes := []string{"posts.read", "posts.edit", "posts.a.b", "other", "users.delete.hard"}

	first, err := rbac.NewRegistry(decls)
	require.NoError(t, err)
	second, err := rbac.NewRegistry(decls)
	require.NoError(t, err)

	for _, id := range first.Roles() {
		a, ok := first.Role(id)
		require.True(t, ok)
		b, ok := second.Role(id)
		require.True(t, ok)
		for _, probe := range probes {
			assert.Equal(t, a.HasPermission(probe), b.HasPermission(probe),
				"role %s diverged on %s between identical builds", id, probe)
		}
	}
}

func TestRegistryNonStrictAllowsSharedClaims(t *testing.T) {
	t.Parallel()

	registry, err := rbac.NewRegistry([]rbac.RoleDecl{
		{ID: "a", Claims: map[string]rbac.ClaimValues{"groups": {"admin"}}},
		{ID: "b", Claims: map[string]rbac.ClaimValues{"groups": {"admin"}}},
	})
	require.NoError(t, err)

	authorizer := rbac.NewAuthorizer(registry)
	candidates := authorizer.CandidateRoles(rbac.Claims{"groups": "admin"})
	require.Len(t, candidates, 2)
	assert.Equal(t, "a", candidates[0].ID())
	assert.Equal(t, "b", candidates[1].ID())
}

func TestRoleAccessorsCopy(t *testing.T) {
	t.Parallel()

	registry, err := rbac.NewRegistry([]rbac.RoleDecl{
		{ID: "editor", Inherit: rbac.StringList{"viewer"}, Permissions: rbac.StringList{"posts.write"}},
		{ID: "viewer", Permissions: rbac.StringList{"posts.read"}},
	})
	require.NoError(t, err)

	editor, ok := registry.Role("editor")
	require.True(t, ok)

	inherits := editor.Inherits()
	inherits[0] = "mutated"
	assert.Equal(t, []string{"viewer"}, editor.Inherits())

	patterns := editor.Permissions()
	patterns[0] = "mutated"
	assert.Equal(t, []string{"posts.write"}, editor.Permissions())
}

func TestRoleClaimNormalization(t *testing.T) {
	t.Parallel()

	registry, err := rbac.NewRegistry([]rbac.RoleDecl{
		{
			ID:          "support",
			Permissions: rbac.StringList{"tickets.read", ""},
			Claims: map[string]rbac.ClaimValues{
				"groups": {"support", ""},
				"":       {"ignored"},
			},
		},
	})
	require.NoError(t, err)

	support, ok := registry.Role("support")
	require.True(t, ok)
	assert.True(t, support.HasClaim("groups", "support"))
	assert.False(t, support.HasClaim("groups", ""), "empty claim values are never grants")
	assert.False(t, support.HasClaim("", "ignored"))
	assert.False(t, support.HasPermission(""), "empty permissions are never grants")
	assert.Equal(t, []string{"tickets.read"}, support.Permissions())
}
