package pipeline

import (
	"errors"
	"time"

	"github.com/matzehuels/railtrack/pkg/dag"
	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/railway"
)

// BuildLayout recomputes everything from commit records: graph, display
// order, lanes and ancestry annotation.
//
// A cyclic history fails with an error carrying code INVALID_HISTORY that
// also matches [dag.ErrCycle]. Malformed records are skipped and listed in
// Result.Report. If ref is empty or not part of the records, no row is
// dimmed.
func BuildLayout(records []dag.Record, ref dag.ID) (*Result, error) {
	start := time.Now()

	g, report, err := dag.Build(records)
	if err != nil {
		return nil, wrapGraphError(err)
	}
	order, err := dag.Sequence(g)
	if err != nil {
		return nil, wrapGraphError(err)
	}

	res := &Result{
		Graph:  g,
		Report: report,
		Order:  order,
		base:   railway.Compute(g, order),
	}
	res.annotate(ref)

	res.Stats = Stats{
		Commits:    g.Len(),
		Edges:      g.EdgeCount(),
		Rows:       len(res.base.Rows),
		Lanes:      res.base.Width,
		Skipped:    len(report.Warnings),
		LayoutTime: time.Since(start),
	}
	return res, nil
}

// WithReference returns a copy of r annotated for another reference commit.
// Graph, order and lanes are shared with r; only the flags change.
func (r *Result) WithReference(ref dag.ID) *Result {
	out := *r
	out.annotate(ref)
	return &out
}

func (r *Result) annotate(ref dag.ID) {
	r.Requested = ref
	r.Ancestry = nil
	r.Reference = ""
	if ref != "" && r.Graph.Has(ref) {
		r.Ancestry = dag.Ancestors(r.Graph, ref)
		r.Reference = ref
	}
	r.Layout = railway.Annotate(r.base, r.Ancestry)
}

func wrapGraphError(err error) error {
	if errors.Is(err, dag.ErrCycle) {
		return errs.Wrap(errs.ErrCodeInvalidHistory, err, "invalid commit history")
	}
	return errs.Wrap(errs.ErrCodeInternal, err, "build commit graph")
}
