package railway

import (
	"cmp"
	"slices"

	"github.com/matzehuels/railtrack/pkg/dag"
)

// Compute assigns lanes to the commits of g in the given display order and
// returns the resulting row stream.
//
// order must list children before parents, newest first, as returned by
// [dag.Sequence]. Ids that are not part of g are skipped. Compute never fails
// on an acyclic graph; the result is fully determined by g and order.
func Compute(g *dag.Graph, order []dag.ID) *Layout {
	e := &engine{
		awaiting: make(map[dag.ID][]int),
		out: &Layout{
			Rows:  make([]Row, 0, len(order)+len(order)/4),
			index: make(map[dag.ID]int, len(order)),
		},
	}
	for _, id := range order {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		e.place(n)
	}
	e.out.Width = e.pool.width
	return e.out
}

// engine carries the lane state across the single forward pass.
type engine struct {
	// lanes holds the commit each lane is waiting for; "" marks a free lane.
	lanes []dag.ID
	// awaiting indexes lanes by the commit they wait for, ascending.
	awaiting map[dag.ID][]int
	pool     lanePool

	// below holds the diagonals drawn under the previous node row; opened
	// lists the lanes those diagonals created.
	below  []Segment
	opened []int
	prev   []int
	rows   int

	out *Layout
}

func (e *engine) place(n *dag.Node) {
	waiting := e.awaiting[n.ID]
	delete(e.awaiting, n.ID)

	var lane int
	if len(waiting) > 0 {
		lane = waiting[0]
	} else {
		lane = -1
	}

	// Transitions from the previous node row into this one. Every lane that
	// was active under the previous row either continues straight or, when
	// it also waited for n, converges into n's lane.
	segs := e.below
	straight := 0
	for j, id := range e.lanes {
		switch {
		case id == "" || slices.Contains(e.opened, j):
		case id == n.ID && j != lane:
			segs = append(segs, Segment{Kind: DiagonalIn, From: j, To: lane})
		default:
			segs = append(segs, Segment{Kind: Straight, From: j, To: j})
			straight++
		}
	}
	e.below, e.opened = nil, nil

	for _, j := range waiting[min(1, len(waiting)):] {
		e.lanes[j] = ""
		e.pool.release(j)
	}
	if lane < 0 {
		lane = e.acquire()
	}
	e.lanes[lane] = n.ID

	row := NodeRow{
		ID:        n.ID,
		Lane:      lane,
		Truncated: n.Truncated(),
		Merge:     n.IsMerge(),
	}
	for j, id := range e.lanes {
		if id != "" && j != lane {
			row.PassThrough = append(row.PassThrough, j)
		}
	}

	if e.rows > 0 {
		count := len(row.PassThrough) + 1
		if len(segs) != straight || straight != len(e.prev) || straight != count {
			slices.SortFunc(segs, compareSegments)
			e.out.Rows = append(e.out.Rows, EdgeRow{Segments: segs})
		}
	}
	e.out.index[n.ID] = len(e.out.Rows)
	e.out.Rows = append(e.out.Rows, row)
	e.out.Truncated = e.out.Truncated || row.Truncated
	e.prev = row.Lanes()
	e.rows++

	e.follow(n, lane)
}

// follow updates the lane bookkeeping for the parents of n, which was just
// placed in lane.
func (e *engine) follow(n *dag.Node, lane int) {
	if len(n.Parents) == 0 {
		e.lanes[lane] = ""
		e.pool.release(lane)
		return
	}

	// The primary parent continues in the same lane, even when another lane
	// already waits for it. Both lanes meet once the parent is placed.
	e.await(n.Parents[0], lane)

	for _, p := range n.Parents[1:] {
		if ls := e.awaiting[p]; len(ls) > 0 {
			e.below = append(e.below, Segment{Kind: DiagonalIn, From: lane, To: ls[0]})
			continue
		}
		m := e.acquire()
		e.await(p, m)
		e.below = append(e.below, Segment{Kind: DiagonalOut, From: lane, To: m})
		e.opened = append(e.opened, m)
	}
}

func (e *engine) await(id dag.ID, lane int) {
	e.lanes[lane] = id
	ls := e.awaiting[id]
	i, _ := slices.BinarySearch(ls, lane)
	e.awaiting[id] = slices.Insert(ls, i, lane)
}

func (e *engine) acquire() int {
	lane := e.pool.acquire()
	for len(e.lanes) <= lane {
		e.lanes = append(e.lanes, "")
	}
	return lane
}

func compareSegments(a, b Segment) int {
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	if c := cmp.Compare(a.To, b.To); c != 0 {
		return c
	}
	return cmp.Compare(a.Kind, b.Kind)
}
