package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/railtrack/pkg/dag"
	"github.com/matzehuels/railtrack/pkg/railway"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the first message line and the author to node labels.
	// When false, only the short id and ref names are shown.
	Detailed bool

	// Decorations maps commits to ref names shown under the id.
	Decorations map[dag.ID][]string
}

const shortID = 7

// ToDOT converts a commit graph to Graphviz DOT format. Edges point from a
// commit to its parents. Nodes are emitted in the display order of l and
// grouped by lane, so Graphviz keeps each lane's commits in one column where
// it can. Commits dimmed in l are drawn grey, the reference commit bold.
//
// Boundary parents are drawn as dashed placeholder nodes with dashed edges.
// A nil layout falls back to the graph's id order without lane grouping.
func ToDOT(g *dag.Graph, l *railway.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	rows := l.Nodes()
	if rows == nil {
		for _, id := range g.IDs() {
			rows = append(rows, railway.NodeRow{ID: id, Lane: -1})
		}
	}

	var boundary []dag.ID
	seen := make(map[dag.ID]bool)
	for _, r := range rows {
		n, ok := g.Node(r.ID)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, r, opts), ", "))
		for _, b := range n.Boundary {
			if !seen[b] {
				seen[b] = true
				boundary = append(boundary, b)
			}
		}
	}
	for _, b := range boundary {
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dashed\", fontcolor=grey];\n", boundaryNode(b), b.Short(shortID))
	}

	buf.WriteString("\n")
	for _, r := range rows {
		n, ok := g.Node(r.ID)
		if !ok {
			continue
		}
		for i, p := range n.Parents {
			if i == 0 {
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, p)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q [style=bold];\n", n.ID, p)
			}
		}
		for _, b := range n.Boundary {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", n.ID, boundaryNode(b))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func boundaryNode(id dag.ID) string { return "boundary:" + string(id) }

func fmtLabel(n *dag.Node, opts Options) string {
	lines := []string{n.ID.Short(shortID)}
	if refs := opts.Decorations[n.ID]; len(refs) > 0 {
		lines = append(lines, strings.Join(refs, ", "))
	}
	if opts.Detailed {
		if subject := n.Subject(); subject != "" {
			lines = append(lines, subject)
		}
		if n.Author != "" {
			lines = append(lines, n.Author)
		}
	}
	return strings.Join(lines, "\n")
}

func fmtAttrs(n *dag.Node, r railway.NodeRow, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts))}
	if r.Lane >= 0 {
		attrs = append(attrs, fmt.Sprintf("group=\"lane%d\"", r.Lane))
	}
	switch {
	case r.Reference:
		attrs = append(attrs, "penwidth=3", "fillcolor=lightyellow")
	case r.Dimmed:
		attrs = append(attrs, "color=grey", "fontcolor=grey")
	}
	if n.Truncated() {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox, so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
