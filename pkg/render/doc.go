// Package render groups the output formats for railway layouts.
//
// # Terminal
//
// The [terminal] subpackage draws a layout as text, one line per row, with
// box-drawing or ASCII rails and a label next to every commit. This is what
// the log command prints and what the interactive viewer shows.
//
//	lines := terminal.Paint(g, layout, terminal.Options{})
//	err := terminal.Render(os.Stdout, g, layout, opts, terminal.DefaultStyles())
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage converts the same graph to Graphviz DOT with one
// node per commit, grouped by lane, and renders it to SVG in process.
//
//	dot := nodelink.ToDOT(g, layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [terminal]: github.com/matzehuels/railtrack/pkg/render/terminal
// [nodelink]: github.com/matzehuels/railtrack/pkg/render/nodelink
package render
