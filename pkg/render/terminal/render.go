package terminal

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/railtrack/pkg/dag"
	"github.com/matzehuels/railtrack/pkg/railway"
)

var (
	colorYellow = lipgloss.Color("220")
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")

	// railColors cycle by lane index.
	railColors = []lipgloss.Color{"75", "35", "220", "167", "141", "36", "209", "111"}
)

// Styles colors painted lines. The zero value renders plain text.
type Styles struct {
	Rails     []lipgloss.Style
	Node      lipgloss.Style
	Reference lipgloss.Style
	Dimmed    lipgloss.Style
	ID        lipgloss.Style
	Refs      lipgloss.Style
	Subject   lipgloss.Style
	Meta      lipgloss.Style
	Truncated lipgloss.Style

	enabled bool
}

// DefaultStyles returns the color scheme used by the CLI.
func DefaultStyles() Styles {
	rails := make([]lipgloss.Style, len(railColors))
	for i, c := range railColors {
		rails[i] = lipgloss.NewStyle().Foreground(c)
	}
	return Styles{
		Rails:     rails,
		Node:      lipgloss.NewStyle().Bold(true).Foreground(colorWhite),
		Reference: lipgloss.NewStyle().Bold(true).Foreground(colorYellow),
		Dimmed:    lipgloss.NewStyle().Foreground(colorDim),
		ID:        lipgloss.NewStyle().Foreground(colorCyan),
		Refs:      lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
		Subject:   lipgloss.NewStyle(),
		Meta:      lipgloss.NewStyle().Foreground(colorGray),
		Truncated: lipgloss.NewStyle().Italic(true).Foreground(colorGray),
		enabled:   true,
	}
}

func (s Styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

func (s Styles) rail(lane int) lipgloss.Style {
	if lane < 0 || len(s.Rails) == 0 {
		return lipgloss.NewStyle()
	}
	return s.Rails[lane%len(s.Rails)]
}

// Format renders one line. cols is the width of the graph column, so labels
// of all lines start in the same column; pass 2*Layout.Width-1.
func (s Styles) Format(line Line, cols int) string {
	var b strings.Builder

	last := len(line.Cells) - 1
	if line.Edge {
		for last >= 0 && line.Cells[last].Glyph == " " {
			last--
		}
	}
	for i := 0; i <= last; i++ {
		c := line.Cells[i]
		switch {
		case c.Glyph == " ":
			b.WriteString(" ")
		case !line.Edge && c.Lane == line.Node.Lane && i == 2*line.Node.Lane:
			b.WriteString(s.render(s.nodeStyle(line.Node), c.Glyph))
		default:
			b.WriteString(s.render(s.rail(c.Lane), c.Glyph))
		}
	}
	if line.Edge {
		return b.String()
	}

	b.WriteString(strings.Repeat(" ", max(cols-len(line.Cells), 0)+2))
	b.WriteString(s.label(line))
	return b.String()
}

func (s Styles) nodeStyle(r railway.NodeRow) lipgloss.Style {
	switch {
	case r.Reference:
		return s.Reference
	case r.Dimmed:
		return s.Dimmed
	default:
		return s.Node
	}
}

func (s Styles) label(line Line) string {
	l := line.Label
	if l.ID == "" {
		return ""
	}
	style := func(st lipgloss.Style) lipgloss.Style {
		if line.Node.Dimmed {
			return s.Dimmed
		}
		return st
	}

	parts := []string{s.render(style(s.ID), l.ID)}
	if len(l.Refs) > 0 {
		parts = append(parts, s.render(style(s.Refs), "("+strings.Join(l.Refs, ", ")+")"))
	}
	if l.Subject != "" {
		parts = append(parts, s.render(style(s.Subject), l.Subject))
	}
	if meta := joinNonEmpty(", ", l.Author, l.Date); meta != "" {
		parts = append(parts, s.render(style(s.Meta), "["+meta+"]"))
	}
	if l.Truncated {
		parts = append(parts, s.render(style(s.Truncated), "(truncated)"))
	}
	return strings.Join(parts, " ")
}

// Render paints the layout and writes one line per row to w.
func Render(w io.Writer, g *dag.Graph, l *railway.Layout, opts Options, styles Styles) error {
	bw := bufio.NewWriter(w)
	cols := 0
	if l != nil {
		cols = max(2*l.Width-1, 0)
	}
	for _, line := range Paint(g, l, opts) {
		s := styles.Format(line, cols)
		if opts.Width > 0 {
			s = ansi.Truncate(s, opts.Width, "…")
		}
		bw.WriteString(s)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// String paints the layout as plain text.
func String(g *dag.Graph, l *railway.Layout, opts Options) string {
	var b strings.Builder
	_ = Render(&b, g, l, opts, Styles{})
	return b.String()
}
