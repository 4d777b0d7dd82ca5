package dag

// Ancestry is the set of commits reachable from a reference commit by
// following parent edges, the reference included.
type Ancestry struct {
	ref  ID
	seen map[ID]struct{}
}

// Ancestors walks parent edges from ref and returns the reachable set.
// Boundary parents end the walk on their branch. If ref is not part of g the
// returned set is empty; a nil *Ancestry means "no reference selected".
//
// The walk is O(V+E) and never touches the graph structure, so it can be
// rerun whenever the reference changes without rebuilding g.
func Ancestors(g *Graph, ref ID) *Ancestry {
	a := &Ancestry{ref: ref, seen: make(map[ID]struct{})}
	if !g.Has(ref) {
		return a
	}

	stack := []ID{ref}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := a.seen[id]; ok {
			continue
		}
		a.seen[id] = struct{}{}
		for _, p := range g.nodes[id].Parents {
			if _, ok := a.seen[p]; !ok {
				stack = append(stack, p)
			}
		}
	}
	return a
}

// Reference returns the commit the set was computed from.
func (a *Ancestry) Reference() ID {
	if a == nil {
		return ""
	}
	return a.ref
}

// Contains reports whether id is an ancestor of (or equal to) the reference.
// A nil set contains every id.
func (a *Ancestry) Contains(id ID) bool {
	if a == nil {
		return true
	}
	_, ok := a.seen[id]
	return ok
}

// Len returns the number of commits in the set.
func (a *Ancestry) Len() int {
	if a == nil {
		return 0
	}
	return len(a.seen)
}
