// Package dag provides the commit graph used to lay out repository history
// as a railway diagram.
//
// # Overview
//
// A commit store delivers flat [Record] values: an id, an ordered parent
// list, an author, a timestamp and a message. [Build] turns those records
// into an immutable [Graph] where nodes live in a table keyed by [ID] and
// both parent and child links are id lists resolved through that table.
//
//	g, report, err := dag.Build(records)
//	if err != nil {
//	    // *dag.CycleError: the history is corrupt
//	}
//	for _, w := range report.Warnings {
//	    // records without an id were skipped
//	}
//
// # Partial Histories
//
// A parent id that is not part of the record set is a boundary parent. The
// node keeps it in [Node.Boundary] and reports [Node.Truncated], but the edge
// is not part of the graph. Shallow clones and commit-count limits therefore
// load without error.
//
// # Ordering
//
// [Sequence] produces the newest-first display order: every child precedes
// its parents, the newest ready commit is taken first, and equal timestamps
// are broken by byte-wise id order. The result is fully deterministic.
//
// # Ancestry
//
// [Ancestors] computes the set of commits reachable from a reference commit.
// Renderers use it to dim commits outside the selected branch's history.
//
// # Cycles
//
// Cycles are detected with a depth-first scan using white/gray/black
// coloring. A back-edge fails the build with [*CycleError], which matches
// [ErrCycle] via errors.Is.
//
// # Concurrency
//
// A Graph is never modified after Build returns. Rebuilding always produces a
// new Graph, so readers can hold on to a snapshot without locking.
package dag
