// Package pkg holds the libraries behind railtrack, which draws git history
// as a railway diagram in the terminal.
//
// # Architecture
//
// Data flows through the packages in one direction:
//
//	source (git repository or records file)
//	       ↓  []dag.Record
//	dag       (validated graph, display order, ancestry)
//	       ↓
//	railway   (lane allocation, node and edge rows)
//	       ↓
//	render    (terminal text, DOT, SVG) or graph (JSON)
//
// [pipeline] runs these stages, caches loaded histories through [cache] and
// keeps the interactive state of the viewer.
//
// # Main Packages
//
// [dag] - Commit graph built from raw records. Rejects cycles, marks
// commits whose parents are outside the loaded set as truncated, orders
// commits newest first with parents after children, and computes the
// ancestry of a reference commit.
//
// [railway] - Turns a graph and its display order into rows. Each row is
// either a commit in a lane or a set of segments joining two rows.
//
// [render] - Output formats for a layout: terminal text in
// [render/terminal], Graphviz diagrams in [render/nodelink].
//
// [source] - Commit stores. [source/git] reads repositories with go-git,
// [source/local/records] reads JSON history files.
//
// [graph] - JSON forms of commit histories and layouts.
//
// [pipeline] - Loading, layout and rendering with caching, plus the
// recompute state used by the viewer.
//
// [cache] - History cache with file, Redis and null backends.
//
// [errors] - Error codes and input validation shared by all packages.
//
// [observability] - Hooks for logging pipeline, cache and store events.
//
// [dag]: github.com/matzehuels/railtrack/pkg/dag
// [railway]: github.com/matzehuels/railtrack/pkg/railway
// [render]: github.com/matzehuels/railtrack/pkg/render
// [render/terminal]: github.com/matzehuels/railtrack/pkg/render/terminal
// [render/nodelink]: github.com/matzehuels/railtrack/pkg/render/nodelink
// [source]: github.com/matzehuels/railtrack/pkg/source
// [source/git]: github.com/matzehuels/railtrack/pkg/source/git
// [source/local/records]: github.com/matzehuels/railtrack/pkg/source/local/records
// [graph]: github.com/matzehuels/railtrack/pkg/graph
// [pipeline]: github.com/matzehuels/railtrack/pkg/pipeline
// [cache]: github.com/matzehuels/railtrack/pkg/cache
// [errors]: github.com/matzehuels/railtrack/pkg/errors
// [observability]: github.com/matzehuels/railtrack/pkg/observability
package pkg
