// Package railway lays out a commit graph as a railway diagram: one lane
// (column) per line of development, with merges and branch points drawn as
// diagonal connectors between rows.
//
// # Rows
//
// A [Layout] is an ordered stream of [Row] values. A [NodeRow] places one
// commit in a lane and lists the lanes passing by it. An [EdgeRow] sits
// between two node rows and describes how lanes move: [Straight] segments
// continue a lane, [DiagonalIn] segments land on a lane that already exists
// below, and [DiagonalOut] segments open a new one. Lane positions never
// change inside a node row, so renderers can draw fixed-width columns.
//
// An edge row is only emitted when something changes. Two consecutive node
// rows without an edge row between them have the same lanes, all straight.
//
// # Lane Allocation
//
// [Compute] walks the display order once. Each lane waits for one commit.
// A commit that is awaited is placed in the lowest lane waiting for it and
// every other lane waiting for it converges into that lane. A commit nobody
// waits for is a branch tip and takes the lowest free lane. After placement
// the lane waits for the commit's first parent; each further parent either
// gets a diagonal into the lane already waiting for it or a newly allocated
// lane.
//
// Freed lanes return to a pool and are always reused lowest index first, so
// the diagram is only as wide as the number of concurrently open branches.
//
//	order, err := dag.Sequence(g)
//	if err != nil {
//	    return err
//	}
//	layout := railway.Compute(g, order)
//	layout = railway.Annotate(layout, dag.Ancestors(g, head))
//
// # Ancestry
//
// [Annotate] is a pure post-pass: it dims commits outside a [dag.Ancestry]
// and marks the reference commit without touching lanes or ordering.
package railway
