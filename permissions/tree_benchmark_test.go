package permissions_test

import (
	"fmt"
	"testing"

	"github.com/danmasta/rbac/permissions"
)

func buildBenchTree(n int) *permissions.Tree {
	resources := []string{"users", "posts", "comments", "settings", "billing", "analytics", "reports"}
	actions := []string{"read", "write", "delete", "update", "create"}

	tree := permissions.NewTree("admin.*", "support.*.view")
	for i := 0; i < n; i++ {
		tree.Insert(fmt.Sprintf("api.%s.%s", resources[i%len(resources)], actions[i%len(actions)]))
	}
	return tree
}

func BenchmarkTreeInsert(b *testing.B) {
	patterns := []string{
		"api.users.read",
		"api.users.*",
		"api.*.write",
		"admin.*",
		"reports.daily.*.",
	}

	for b.Loop() {
		tree := permissions.NewTree()
		for _, p := range patterns {
			tree.Insert(p)
		}
	}
}

func BenchmarkTreeMatches(b *testing.B) {
	testCases := []struct {
		name  string
		query string
	}{
		{"LiteralHit", "api.users.read"},
		{"LiteralMiss", "api.users.purge"},
		{"WildcardHit", "admin.anything.at.all"},
		{"MidWildcardHit", "support.tickets.view"},
		{"Miss", "billing.invoices.void"},
	}

	tree := buildBenchTree(100)

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			for b.Loop() {
				_ = tree.Matches(tc.query)
			}
		})
	}
}

func BenchmarkTreeMerge(b *testing.B) {
	base := buildBenchTree(50)
	other := buildBenchTree(50)

	for b.Loop() {
		tree := base.Clone()
		tree.Merge(other)
	}
}
