package permissions

import "strings"

const (
	// Delimiter separates the segments of a permission string.
	Delimiter = "."

	// Wildcard is the segment that matches any value at its depth. As the
	// final segment of a pattern it matches any remaining depth.
	Wildcard = "*"
)

// Tree is a trie over dot-separated permission segments. The zero value is
// not usable; construct with NewTree.
type Tree struct {
	root *node
}

// node keeps the wildcard branch and the two terminal markers in dedicated
// fields so reserved names can never collide with literal segments.
type node struct {
	children map[string]*node
	wildcard *node
	leaves   map[string]struct{}
	allDepth bool
}

// NewTree returns a Tree recognizing the given patterns. Empty patterns are
// ignored.
func NewTree(patterns ...string) *Tree {
	t := &Tree{root: &node{}}
	for _, p := range patterns {
		t.Insert(p)
	}
	return t
}

// Insert adds a permission pattern to the tree. Inserting an empty pattern is
// a no-op: an absent permission must stay absent rather than match anything.
func (t *Tree) Insert(pattern string) {
	if pattern == "" {
		return
	}

	segments := strings.Split(pattern, Delimiter)
	last := len(segments) - 1

	n := t.root
	for _, segment := range segments[:last] {
		switch {
		case n.wildcard != nil:
			// All insertions below an existing wildcard branch converge on
			// it, mirroring the matcher's wildcard-first descent.
			n = n.wildcard
		case segment == Wildcard:
			w := &node{}
			for _, child := range n.children {
				w.merge(child)
			}
			n.wildcard = w
			n = w
		default:
			child, ok := n.children[segment]
			if !ok {
				child = &node{}
				if n.children == nil {
					n.children = make(map[string]*node)
				}
				n.children[segment] = child
			}
			n = child
		}
	}

	if segments[last] == Wildcard {
		n.allDepth = true
		return
	}
	n.setLeaf(segments[last])
}

// Matches reports whether a concrete permission string is covered by the
// tree's patterns. Empty strings and strings containing a wildcard segment
// are not concrete permissions and never match.
func (t *Tree) Matches(permission string) bool {
	if permission == "" {
		return false
	}

	segments := strings.Split(permission, Delimiter)
	for _, segment := range segments {
		if segment == Wildcard {
			return false
		}
	}

	n := t.root
	last := len(segments) - 1
	for i, segment := range segments {
		if n.allDepth {
			return true
		}

		if i == last {
			if _, ok := n.leaves[segment]; ok {
				return true
			}
			// Trailing-dot patterns mark the wildcard branch with an empty
			// final segment: one level deeper matches, further does not.
			if n.wildcard != nil {
				_, ok := n.wildcard.leaves[""]
				return ok
			}
			return false
		}

		switch {
		case n.wildcard != nil:
			n = n.wildcard
		default:
			child, ok := n.children[segment]
			if !ok {
				return false
			}
			n = child
		}
	}

	return false
}

// Merge adds every pattern recognized by other into the tree, deep-copying
// nodes so the trees never share structure.
func (t *Tree) Merge(other *Tree) {
	if other == nil {
		return
	}
	t.root.merge(other.root)
}

// Clone returns an independent deep copy of the tree.
func (t *Tree) Clone() *Tree {
	c := NewTree()
	c.root.merge(t.root)
	return c
}

// Empty reports whether the tree recognizes no patterns at all.
func (t *Tree) Empty() bool {
	r := t.root
	return !r.allDepth && len(r.leaves) == 0 && len(r.children) == 0 && r.wildcard == nil
}

func (n *node) setLeaf(segment string) {
	if n.leaves == nil {
		n.leaves = make(map[string]struct{})
	}
	n.leaves[segment] = struct{}{}
}

// merge unions src into n recursively, applying the same wildcard
// convergence as Insert so no grant from either side is lost to the
// matcher's wildcard-first descent.
func (n *node) merge(src *node) {
	if src == nil {
		return
	}
	if src.allDepth {
		n.allDepth = true
	}
	for leaf := range src.leaves {
		n.setLeaf(leaf)
	}
	if src.wildcard != nil && n.wildcard == nil {
		// Seed the new branch with the existing literal subtrees, exactly
		// as Insert does when it first writes a wildcard.
		w := &node{}
		for _, child := range n.children {
			w.merge(child)
		}
		n.wildcard = w
	}
	if n.wildcard != nil {
		n.wildcard.merge(src.wildcard)
		for _, child := range src.children {
			n.wildcard.merge(child)
		}
		return
	}
	for name, child := range src.children {
		dst, ok := n.children[name]
		if !ok {
			dst = &node{}
			if n.children == nil {
				n.children = make(map[string]*node)
			}
			n.children[name] = dst
		}
		dst.merge(child)
	}
}
