package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danmasta/rbac/permissions"
)

func TestTreeMatchesLiteral(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		patterns []string
		query    string
		expected bool
	}{
		{
			name:     "exact match",
			patterns: []string{"posts.view"},
			query:    "posts.view",
			expected: true,
		},
		{
			name:     "different leaf",
			patterns: []string{"posts.view"},
			query:    "posts.edit",
			expected: false,
		},
		{
			name:     "single segment",
			patterns: []string{"admin"},
			query:    "admin",
			expected: true,
		},
		{
			name:     "query deeper than pattern",
			patterns: []string{"posts.view"},
			query:    "posts.view.comments",
			expected: false,
		},
		{
			name:     "query shallower than pattern",
			patterns: []string{"posts.view"},
			query:    "posts",
			expected: false,
		},
		{
			name:     "case sensitive",
			patterns: []string{"posts.view"},
			query:    "Posts.View",
			expected: false,
		},
		{
			name:     "empty query",
			patterns: []string{"posts.view"},
			query:    "",
			expected: false,
		},
		{
			name:     "leaf and branch coexist",
			patterns: []string{"api.users", "api.users.view"},
			query:    "api.users",
			expected: true,
		},
		{
			name:     "branch next to leaf still matches",
			patterns: []string{"api.users", "api.users.view"},
			query:    "api.users.view",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree := permissions.NewTree(tt.patterns...)
			assert.Equal(t, tt.expected, tree.Matches(tt.query))
		})
	}
}

func TestTreeMatchesWildcard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		patterns []string
		query    string
		expected bool
	}{
		{
			name:     "bare wildcard matches single segment",
			patterns: []string{"*"},
			query:    "anything",
			expected: true,
		},
		{
			name:     "bare wildcard matches any depth",
			patterns: []string{"*"},
			query:    "anything.at.all",
			expected: true,
		},
		{
			name:     "bare wildcard rejects empty query",
			patterns: []string{"*"},
			query:    "",
			expected: false,
		},
		{
			name:     "final wildcard matches one level",
			patterns: []string{"api.*"},
			query:    "api.anything",
			expected: true,
		},
		{
			name:     "final wildcard matches any depth",
			patterns: []string{"api.*"},
			query:    "api.users.view",
			expected: true,
		},
		{
			name:     "final wildcard does not match its own prefix",
			patterns: []string{"api.*"},
			query:    "api",
			expected: false,
		},
		{
			name:     "trailing dot matches exactly one level",
			patterns: []string{"api.*."},
			query:    "api.status",
			expected: true,
		},
		{
			name:     "trailing dot rejects two levels",
			patterns: []string{"api.*."},
			query:    "api.status.db",
			expected: false,
		},
		{
			name:     "trailing dot rejects prefix",
			patterns: []string{"api.*."},
			query:    "api",
			expected: false,
		},
		{
			name:     "mid wildcard matches any middle segment",
			patterns: []string{"api.*.view"},
			query:    "api.users.view",
			expected: true,
		},
		{
			name:     "mid wildcard still requires the leaf",
			patterns: []string{"api.*.view"},
			query:    "api.users.edit",
			expected: false,
		},
		{
			name:     "mid wildcard requires full depth",
			patterns: []string{"api.*.view"},
			query:    "api.users",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree := permissions.NewTree(tt.patterns...)
			assert.Equal(t, tt.expected, tree.Matches(tt.query))
		})
	}
}

// Patterns are not concrete permissions: querying the pattern itself must
// only succeed when the pattern contains no wildcard.
func TestTreeRejectsWildcardQueries(t *testing.T) {
	t.Parallel()
	patterns := []string{"*", "api.*", "api.*.", "api.*.view", "posts.view"}

	for _, pattern := range patterns {
		tree := permissions.NewTree(pattern)
		concrete := pattern == "posts.view"
		assert.Equal(t, concrete, tree.Matches(pattern), "pattern %q", pattern)
	}
}

// A wildcard declared after literals must not shadow them: the wildcard
// branch absorbs a copy of the existing literal subtrees when created.
func TestTreeWildcardSeedsExistingLiterals(t *testing.T) {
	t.Parallel()

	tree := permissions.NewTree()
	tree.Insert("api.users.view")
	tree.Insert("api.*.edit")

	assert.True(t, tree.Matches("api.users.view"), "literal declared before the wildcard")
	assert.True(t, tree.Matches("api.users.edit"))
	assert.True(t, tree.Matches("api.anything.edit"))
	assert.False(t, tree.Matches("api.users.delete"))
}

// Insertions after a wildcard branch exists converge on it, matching the
// wildcard-first descent of the matcher.
func TestTreeInsertConvergesOnWildcard(t *testing.T) {
	t.Parallel()

	tree := permissions.NewTree()
	tree.Insert("api.*.edit")
	tree.Insert("api.users.view")

	assert.True(t, tree.Matches("api.users.view"))
	assert.True(t, tree.Matches("api.other.view"), "later literals ride the wildcard branch")
	assert.True(t, tree.Matches("api.other.edit"))
	assert.False(t, tree.Matches("api.users"))
}

func TestTreeInsertEmptyPattern(t *testing.T) {
	t.Parallel()

	tree := permissions.NewTree()
	tree.Insert("")

	assert.True(t, tree.Empty())
	assert.False(t, tree.Matches(""))
	assert.False(t, tree.Matches("anything"))
}

func TestTreeAllDepthShortCircuits(t *testing.T) {
	t.Parallel()

	tree := permissions.NewTree("api.*", "api.*.view")

	// The all-depth marker dominates regardless of other branches.
	assert.True(t, tree.Matches("api.x"))
	assert.True(t, tree.Matches("api.x.y.z"))
	assert.False(t, tree.Matches("api"))
}

func TestTreeMerge(t *testing.T) {
	t.Parallel()

	a := permissions.NewTree("posts.view")
	b := permissions.NewTree("posts.edit", "admin.*")

	a.Merge(b)

	assert.True(t, a.Matches("posts.view"))
	assert.True(t, a.Matches("posts.edit"))
	assert.True(t, a.Matches("admin.users.create"))

	// Merging must not leak structure back into the source.
	a.Insert("extra.perm")
	assert.False(t, b.Matches("extra.perm"))
	assert.False(t, b.Matches("posts.view"))
}

// Merging converges on wildcard branches the same way Insert does, so no
// grant from either side is lost to the wildcard-first descent.
func TestTreeMergeWildcardConvergence(t *testing.T) {
	t.Parallel()

	t.Run("incoming wildcard seeds existing literals", func(t *testing.T) {
		t.Parallel()

		a := permissions.NewTree("api.users.view")
		a.Merge(permissions.NewTree("api.*.edit"))

		assert.True(t, a.Matches("api.users.view"), "literal declared before the merge")
		assert.True(t, a.Matches("api.users.edit"))
		assert.True(t, a.Matches("api.other.edit"))
		assert.False(t, a.Matches("api.users.delete"))
	})

	t.Run("incoming literals ride the existing wildcard", func(t *testing.T) {
		t.Parallel()

		a := permissions.NewTree("api.*.edit")
		a.Merge(permissions.NewTree("api.users.view"))

		assert.True(t, a.Matches("api.users.view"))
		assert.True(t, a.Matches("api.other.view"), "merged literals ride the wildcard branch")
		assert.True(t, a.Matches("api.other.edit"))
		assert.False(t, a.Matches("api.users"))
	})
}

func TestTreeClone(t *testing.T) {
	t.Parallel()

	orig := permissions.NewTree("posts.view", "api.*")
	clone := orig.Clone()

	assert.True(t, clone.Matches("posts.view"))
	assert.True(t, clone.Matches("api.users"))

	clone.Insert("posts.edit")
	assert.True(t, clone.Matches("posts.edit"))
	assert.False(t, orig.Matches("posts.edit"), "clone mutations must not reach the original")
}

func TestTreeEmpty(t *testing.T) {
	t.Parallel()

	tree := permissions.NewTree()
	assert.True(t, tree.Empty())

	tree.Insert("posts.view")
	assert.False(t, tree.Empty())

	assert.False(t, permissions.NewTree("*").Empty())
}
