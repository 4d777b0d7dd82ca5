package dag

import "container/heap"

// Sequence orders every node of g newest-first such that each child appears
// before all of its parents.
//
// At each step the ready node (all children already placed) with the newest
// timestamp is taken; equal timestamps fall back to byte-wise id order. Ready
// tracking uses a remaining-children counter per node and a heap keyed by
// (timestamp, id), so the sort is O(N log N). Disconnected components are
// interleaved by the same rule.
//
// Sequence returns a [*CycleError] if some nodes can never become ready.
// Graphs produced by [Build] are acyclic, so this only guards hand-built input.
func Sequence(g *Graph) ([]ID, error) {
	remaining := make(map[ID]int, len(g.nodes))
	ready := &readyQueue{}

	for _, id := range g.ids {
		n := g.nodes[id]
		remaining[id] = len(n.children)
		if len(n.children) == 0 {
			ready.items = append(ready.items, n)
		}
	}
	heap.Init(ready)

	order := make([]ID, 0, len(g.ids))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(*Node)
		order = append(order, n.ID)
		for _, p := range n.Parents {
			remaining[p]--
			if remaining[p] == 0 {
				heap.Push(ready, g.nodes[p])
			}
		}
	}

	if len(order) != len(g.ids) {
		for _, id := range g.ids {
			if remaining[id] > 0 {
				return nil, &CycleError{ID: id}
			}
		}
	}
	return order, nil
}

// readyQueue is a heap of nodes ordered newest first, then by id.
type readyQueue struct {
	items []*Node
}

func (q *readyQueue) Len() int { return len(q.items) }

func (q *readyQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if !a.Time.Equal(b.Time) {
		return a.Time.After(b.Time)
	}
	return a.ID < b.ID
}

func (q *readyQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *readyQueue) Push(x any) { q.items = append(q.items, x.(*Node)) }

func (q *readyQueue) Pop() any {
	old := q.items
	n := old[len(old)-1]
	old[len(old)-1] = nil
	q.items = old[:len(old)-1]
	return n
}
