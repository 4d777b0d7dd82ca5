package dag

import (
	"slices"
)

// Report collects non-fatal findings from [Build].
type Report struct {
	// Warnings lists records that were skipped, in input order.
	Warnings []*MalformedError
	// Duplicates counts records whose id was already seen. The later record
	// replaces the earlier one.
	Duplicates int
	// BoundaryEdges counts parent references that pointed outside the
	// supplied record set and were dropped.
	BoundaryEdges int
}

// Build turns an unordered sequence of commit records into a [Graph].
//
// Building is two-pass: every record is inserted first, then parents are
// resolved and the reverse (child) index is computed, so records may arrive
// in any order. Records without an id are skipped and reported in
// [Report.Warnings]. Parents absent from the record set become boundary
// parents on the node (see [Node.Truncated]) instead of errors, which lets
// shallow histories load.
//
// Build returns a [*CycleError] if any commit is its own ancestor. The graph
// is not returned in that case.
func Build(records []Record) (*Graph, *Report, error) {
	report := &Report{}
	nodes := make(map[ID]*Node, len(records))

	for i, r := range records {
		if r.ID == "" {
			report.Warnings = append(report.Warnings, &MalformedError{
				Index:  i,
				Record: r,
				Reason: "missing commit id",
			})
			continue
		}
		if _, exists := nodes[r.ID]; exists {
			report.Duplicates++
		}
		nodes[r.ID] = &Node{
			ID:      r.ID,
			Author:  r.Author,
			Time:    r.Time,
			Message: r.Message,
			Parents: dedupe(r.Parents),
		}
	}

	g := &Graph{
		nodes: nodes,
		ids:   make([]ID, 0, len(nodes)),
	}
	for id := range nodes {
		g.ids = append(g.ids, id)
	}
	slices.Sort(g.ids)

	for _, id := range g.ids {
		n := nodes[id]
		resolved := make([]ID, 0, len(n.Parents))
		for _, p := range n.Parents {
			parent, ok := nodes[p]
			if !ok {
				n.Boundary = append(n.Boundary, p)
				report.BoundaryEdges++
				continue
			}
			resolved = append(resolved, p)
			parent.children = append(parent.children, id)
			g.edges++
		}
		n.Parents = resolved
	}

	// ids are visited in sorted order, so children lists are already sorted.

	if err := detectCycles(g); err != nil {
		return nil, report, err
	}
	return g, report, nil
}

// dedupe drops empty and repeated parent ids while keeping first occurrences.
func dedupe(ids []ID) []ID {
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
