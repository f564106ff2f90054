// Package permissions implements a hierarchical wildcard matcher for
// dot-separated permission strings such as "api.users.view".
//
// Permission patterns are stored in a Tree, a trie keyed by permission
// segments. A pattern may use the wildcard segment "*" in three positions
// with three distinct meanings:
//
//   - "*" in the middle of a pattern ("api.*.view") matches any single
//     segment at that depth and keeps matching deeper.
//   - "*" as the final segment ("api.*") matches anything nested below the
//     preceding path, at any depth.
//   - "*" followed by a trailing dot ("api.*.") matches anything exactly one
//     level below the preceding path and nothing deeper.
//
// A bare "*" pattern matches every non-empty permission.
//
// Queries must be concrete permission strings: empty strings and strings
// containing a wildcard segment never match. Matching is case-sensitive and
// does not backtrack: when both a wildcard branch and a literal branch could
// consume a segment, the wildcard branch wins and the choice is final. To keep
// earlier literal declarations reachable through that preference, a wildcard
// branch is seeded with a merged copy of the literal subtrees that already
// exist at its node when it is created.
//
// Usage:
//
//	tree := permissions.NewTree("posts.view", "admin.*")
//	tree.Insert("api.*.read")
//
//	tree.Matches("posts.view")     // true
//	tree.Matches("admin.users")    // true
//	tree.Matches("api.other.read") // true
//	tree.Matches("posts.edit")     // false
//
// Trees are cheap to build and read-only matching is safe for concurrent use;
// Insert and Merge are not.
package permissions
