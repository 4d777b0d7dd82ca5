// Package pipeline turns a commit store into a railway layout.
//
// The pipeline has two stages:
//
//  1. Load: fetch commit records from a [source.Store], through the history
//     cache when the store can name its ref tips
//  2. Layout: build the graph, order it, assign lanes and annotate the rows
//     with the ancestry of the reference commit
//
// [BuildLayout] is the pure recomputation entry point used by every caller.
// [Runner] adds loading, caching, logging and hooks around it, and [State]
// is the context value an interactive host keeps between recomputations.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, store, pipeline.Options{
//	    MaxCommits: 2000,
//	    Reference:  "HEAD",
//	})
//	if err != nil {
//	    return err
//	}
//	out, err := pipeline.Render(result, pipeline.RenderOptions{Format: pipeline.FormatText})
//
// Recompute from records you already have:
//
//	result, err := pipeline.BuildLayout(records, head)
//
// Switch the ancestry reference without relayout:
//
//	result = result.WithReference(other)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railtrack/pkg/dag"
	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/railway"
	"github.com/matzehuels/railtrack/pkg/source"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultReference is the ancestry reference used when none is given.
const DefaultReference = source.HEAD

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Refs selects the refs to walk. Entries are ref names or globs; empty
	// walks every branch, remote branch, tag and HEAD.
	Refs []string `json:"refs,omitempty"`

	// MaxCommits limits the walk, newest commits first. Zero means no
	// limit. A limit leaves the oldest loaded commits with boundary parents.
	MaxCommits int `json:"max_commits,omitempty"`

	// Reference names the commit whose ancestry stays highlighted.
	Reference string `json:"reference,omitempty"`

	// Refresh skips the cache read. The fresh history is still cached.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errs.ValidateMaxCommits(o.MaxCommits); err != nil {
		return err
	}
	for _, r := range o.Refs {
		if err := errs.ValidateRefPattern(r); err != nil {
			return err
		}
	}
	if o.Reference == "" {
		o.Reference = DefaultReference
	}
	if err := errs.ValidateReference(o.Reference); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: text, json, dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result is one complete recomputation. It is immutable once returned;
// [Result.WithReference] derives a new value instead of changing it.
type Result struct {
	// Graph is the commit graph the layout was computed from.
	Graph *dag.Graph

	// Report lists records skipped while building Graph.
	Report *dag.Report

	// Order is the display order, newest first.
	Order []dag.ID

	// Layout is the annotated row stream.
	Layout *railway.Layout

	// Ancestry is the ancestor set of Reference, nil when no reference is
	// part of the graph.
	Ancestry *dag.Ancestry

	// Requested is the reference commit asked for; Reference is the same id
	// when it is part of the graph and empty otherwise.
	Requested dag.ID
	Reference dag.ID

	// Refs are the named refs of the store, used for row decorations.
	Refs []source.Ref

	Stats     Stats
	CacheInfo CacheInfo

	base *railway.Layout
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Commits    int
	Edges      int
	Rows       int
	Lanes      int
	Skipped    int
	LoadTime   time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	HistoryHit bool // whether the records came from the cache
}

// Decorations returns ref names grouped by commit.
func (r *Result) Decorations() map[dag.ID][]string {
	if r == nil {
		return nil
	}
	return source.Decorations(r.Refs)
}

func (r *Result) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d commits, %d rows, %d lanes", r.Stats.Commits, r.Stats.Rows, r.Stats.Lanes)
}
