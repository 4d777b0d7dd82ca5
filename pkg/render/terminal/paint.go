package terminal

import (
	"strings"

	"github.com/matzehuels/railtrack/pkg/dag"
	"github.com/matzehuels/railtrack/pkg/railway"
)

// Cell is one character of the graph column. Lane is the lane the glyph
// belongs to, -1 for blank cells; renderers use it to pick a rail color.
type Cell struct {
	Glyph string
	Lane  int
}

// Line is one painted row of the diagram.
type Line struct {
	// Row is the index of the source row in Layout.Rows.
	Row int

	// Node is set for commit lines. Edge lines have a zero Node and Edge
	// set to true.
	Node railway.NodeRow
	Edge bool

	// Cells is the graph column, two cells per lane with the last gap
	// dropped.
	Cells []Cell

	// Label is the unstyled text to the right of the graph, empty for edge
	// lines.
	Label Label
}

// Graph returns the graph column as plain text.
func (l Line) Graph() string {
	var b strings.Builder
	for _, c := range l.Cells {
		b.WriteString(c.Glyph)
	}
	return b.String()
}

// Paint turns every row of the layout into a line. One lane occupies two
// character cells; the second cell is the gap that horizontal connectors
// cross. g supplies labels and may be nil, in which case labels only carry
// the short id.
func Paint(g *dag.Graph, l *railway.Layout, opts Options) []Line {
	if l == nil {
		return nil
	}
	glyphs := opts.glyphs()
	cols := max(2*l.Width-1, 0)

	lines := make([]Line, 0, len(l.Rows))
	for i, row := range l.Rows {
		switch r := row.(type) {
		case railway.NodeRow:
			lines = append(lines, Line{
				Row:   i,
				Node:  r,
				Cells: paintNode(r, cols, glyphs),
				Label: labelFor(g, r, opts),
			})
		case railway.EdgeRow:
			lines = append(lines, Line{
				Row:   i,
				Edge:  true,
				Cells: paintEdge(r, cols, glyphs),
			})
		}
	}
	return lines
}

func blank(cols int) []Cell {
	cells := make([]Cell, cols)
	for i := range cells {
		cells[i] = Cell{Glyph: " ", Lane: -1}
	}
	return cells
}

func paintNode(r railway.NodeRow, cols int, glyphs Glyphs) []Cell {
	cells := blank(cols)
	for _, lane := range r.PassThrough {
		cells[2*lane] = Cell{Glyph: string(glyphs.cell(up | down)), Lane: lane}
	}
	node := glyphs.Node
	switch {
	case r.Reference:
		node = glyphs.Reference
	case r.Dimmed:
		node = glyphs.Dimmed
	}
	cells[2*r.Lane] = Cell{Glyph: node, Lane: r.Lane}
	return cells
}

// paintEdge draws every segment into a direction mask per cell, then looks
// up the glyphs. Diagonals run horizontally through the gap cells between
// their lanes, so crossings with straight lanes become tees or crosses.
func paintEdge(r railway.EdgeRow, cols int, glyphs Glyphs) []Cell {
	masks := make([]mask, cols)
	lanes := make([]int, cols)
	for i := range lanes {
		lanes[i] = -1
	}
	mark := func(c int, m mask, lane int) {
		masks[c] |= m
		if lanes[c] < 0 || m&(left|right) == 0 {
			lanes[c] = lane
		}
	}

	for _, s := range r.Segments {
		from, to := 2*s.From, 2*s.To
		// The moving lane owns the connector's color: the new lane for a
		// branch, the ending lane for a merge.
		lane := s.From
		if s.Kind == railway.DiagonalOut {
			lane = s.To
		}
		switch {
		case from == to:
			mark(from, up|down, s.From)
		case from < to:
			mark(from, up|right, lane)
			for c := from + 1; c < to; c++ {
				mark(c, left|right, lane)
			}
			mark(to, left|down, lane)
		default:
			mark(from, up|left, lane)
			for c := to + 1; c < from; c++ {
				mark(c, left|right, lane)
			}
			mark(to, right|down, lane)
		}
	}

	cells := make([]Cell, cols)
	for i, m := range masks {
		cells[i] = Cell{Glyph: string(glyphs.cell(m)), Lane: lanes[i]}
	}
	return cells
}
