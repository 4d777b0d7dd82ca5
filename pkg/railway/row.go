package railway

import (
	"fmt"

	"github.com/matzehuels/railtrack/pkg/dag"
)

// SegmentKind classifies a connector between two consecutive node rows.
type SegmentKind int

const (
	// Straight continues a lane unchanged into the next row.
	Straight SegmentKind = iota
	// DiagonalIn lands on a lane that already exists in the lower row. The
	// source lane either ends here (convergence) or keeps going straight
	// alongside the diagonal (a merge edge into an awaited parent).
	DiagonalIn
	// DiagonalOut opens a new lane in the lower row, branching off the
	// source lane.
	DiagonalOut
)

// String returns the lowercase name used in JSON exports.
func (k SegmentKind) String() string {
	switch k {
	case Straight:
		return "straight"
	case DiagonalIn:
		return "diagonal-in"
	case DiagonalOut:
		return "diagonal-out"
	default:
		return fmt.Sprintf("SegmentKind(%d)", int(k))
	}
}

// Segment connects lane From in the upper node row to lane To in the lower
// node row. Straight segments always have From == To.
type Segment struct {
	Kind     SegmentKind
	From, To int
}

func (s Segment) String() string {
	return fmt.Sprintf("%s %d->%d", s.Kind, s.From, s.To)
}

// Row is one line of the diagram: either a [NodeRow] or an [EdgeRow].
// The set of implementations is closed; renderers switch on the concrete
// type.
type Row interface {
	isRow()
}

// NodeRow places one commit in its lane. Lane positions never move within a
// node row; all movement happens in the [EdgeRow] between two node rows.
type NodeRow struct {
	ID   dag.ID
	Lane int

	// PassThrough lists the other active lanes at this row in ascending
	// order. Each of them continues vertically past the commit.
	PassThrough []int

	// Truncated marks a commit whose parents were partly outside the loaded
	// history. No connector is drawn for those parents.
	Truncated bool

	// Merge reports whether the commit has more than one loaded parent.
	Merge bool

	// Dimmed and Reference are filled in by [Annotate]. Dimmed rows are not
	// ancestors of the reference commit.
	Dimmed    bool
	Reference bool
}

// Lanes returns every lane occupied at this row, including the commit's own,
// in ascending order.
func (r NodeRow) Lanes() []int {
	out := make([]int, 0, len(r.PassThrough)+1)
	placed := false
	for _, l := range r.PassThrough {
		if !placed && r.Lane < l {
			out = append(out, r.Lane)
			placed = true
		}
		out = append(out, l)
	}
	if !placed {
		out = append(out, r.Lane)
	}
	return out
}

// EdgeRow holds the lane transitions between two consecutive node rows.
// It is omitted when every lane of the upper row continues straight into an
// identical set of lanes in the lower row.
type EdgeRow struct {
	Segments []Segment
}

func (NodeRow) isRow() {}
func (EdgeRow) isRow() {}

// Layout is the complete row stream for one graph.
type Layout struct {
	Rows []Row

	// Width is the number of lane columns the diagram needs. Because lanes
	// are reused lowest index first it never exceeds the number of branches
	// open at the same time. Renderers size the graph column with it.
	Width int

	// Truncated is set when any row carries a truncation flag.
	Truncated bool

	index map[dag.ID]int
}

// Find returns the node row for id and its position in Rows.
func (l *Layout) Find(id dag.ID) (NodeRow, int, bool) {
	if l == nil {
		return NodeRow{}, -1, false
	}
	i, ok := l.index[id]
	if !ok {
		return NodeRow{}, -1, false
	}
	return l.Rows[i].(NodeRow), i, true
}

// Nodes returns the node rows in display order.
func (l *Layout) Nodes() []NodeRow {
	if l == nil {
		return nil
	}
	out := make([]NodeRow, 0, len(l.index))
	for _, r := range l.Rows {
		if n, ok := r.(NodeRow); ok {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of node rows.
func (l *Layout) Len() int {
	if l == nil {
		return 0
	}
	return len(l.index)
}
