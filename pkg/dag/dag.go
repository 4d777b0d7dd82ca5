package dag

import (
	"slices"
	"strings"
	"time"
)

// ID is an opaque commit identifier (a hex object hash for git histories).
// Equality and ordering are byte-wise, which is how Go compares strings.
type ID string

// Short returns the first n bytes of the id, or the whole id if shorter.
func (id ID) Short(n int) string {
	if n <= 0 || len(id) <= n {
		return string(id)
	}
	return string(id[:n])
}

// Record is a raw commit as delivered by a commit store. Records arrive in no
// particular order and may reference parents that are not part of the set.
type Record struct {
	ID      ID
	Parents []ID // first entry is the primary parent
	Author  string
	Time    time.Time
	Message string
}

// Node is a commit inside a [Graph]. Parent and child links are ids resolved
// through the graph table, never pointers to other nodes.
//
// The zero value is not usable - nodes are created by [Build].
type Node struct {
	ID      ID
	Author  string
	Time    time.Time
	Message string

	// Parents holds the resolvable parents in their original order. The first
	// entry is the primary parent used for mainline continuation.
	Parents []ID

	// Boundary holds parents that were referenced but not supplied. Their
	// edges are dropped; they only mark the node as truncated.
	Boundary []ID

	children []ID
}

// Truncated reports whether history below this node was cut off because one
// or more parents were absent from the loaded record set.
func (n *Node) Truncated() bool { return len(n.Boundary) > 0 }

// IsMerge reports whether the node has more than one resolvable parent.
func (n *Node) IsMerge() bool { return len(n.Parents) > 1 }

// Subject returns the first non-blank line of the commit message, trimmed.
func (n *Node) Subject() string {
	for line := range strings.SplitSeq(n.Message, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

// IsRoot reports whether the node has no resolvable parents.
func (n *Node) IsRoot() bool { return len(n.Parents) == 0 }

// Children returns the ids of nodes listing this node as a parent, sorted
// byte-wise. The returned slice must not be modified.
func (n *Node) Children() []ID { return n.children }

// ChildCount returns the number of children of the node.
func (n *Node) ChildCount() int { return len(n.children) }

// Graph is an immutable commit DAG. Nodes live in a flat table keyed by [ID];
// edges are id references resolved through that table.
//
// A Graph is never mutated after [Build] returns, so it may be shared across
// goroutines as a read-only snapshot.
type Graph struct {
	nodes map[ID]*Node
	ids   []ID // sorted byte-wise
	edges int
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.ids) }

// EdgeCount returns the number of resolved parent edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Node returns the node with the given id and true, or nil and false.
func (g *Graph) Node(id ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether id is part of the graph.
func (g *Graph) Has(id ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// IDs returns all node ids sorted byte-wise. The returned slice is a copy.
func (g *Graph) IDs() []ID { return slices.Clone(g.ids) }

// Nodes returns all nodes in byte-wise id order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.ids))
	for i, id := range g.ids {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Parents returns the resolvable parents of id, or nil if id is unknown.
func (g *Graph) Parents(id ID) []ID {
	if n, ok := g.nodes[id]; ok {
		return n.Parents
	}
	return nil
}

// Children returns the children of id, or nil if id is unknown.
func (g *Graph) Children(id ID) []ID {
	if n, ok := g.nodes[id]; ok {
		return n.children
	}
	return nil
}

// Roots returns nodes with no resolvable parents in id order.
// Truncated nodes whose every parent is a boundary parent are included.
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, id := range g.ids {
		if n := g.nodes[id]; n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Tips returns nodes that no other node lists as a parent, in id order.
// These are the branch heads of the loaded history.
func (g *Graph) Tips() []*Node {
	var tips []*Node
	for _, id := range g.ids {
		if n := g.nodes[id]; len(n.children) == 0 {
			tips = append(tips, n)
		}
	}
	return tips
}

// Truncated reports whether any node has boundary parents.
func (g *Graph) Truncated() bool {
	for _, n := range g.nodes {
		if n.Truncated() {
			return true
		}
	}
	return false
}
