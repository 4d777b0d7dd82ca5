// Package nodelink renders commit graphs as node-link diagrams.
//
// # Overview
//
// Where the railway diagram packs history into terminal lanes, a node-link
// diagram lets Graphviz place every commit freely. It is useful for exporting
// a history into documentation or for checking a layout against an
// independent drawing of the same graph.
//
// # Usage
//
// Convert a graph and its layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, layout, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// The layout supplies display order, lane groups and the dimmed and
// reference flags. Passing a nil layout draws the bare graph.
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB), newest commit
// first. Secondary parent edges of merges are bold, edges to boundary
// parents (commits outside a shallow history) dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
