package graph

import (
	"time"

	"github.com/matzehuels/railtrack/pkg/dag"
	"github.com/matzehuels/railtrack/pkg/railway"
)

// Row kinds.
const (
	KindNode = "node"
	KindEdge = "edge"
)

// =============================================================================
// History - Commit Record Serialization
// =============================================================================

// History is the canonical serialization format for a set of commit records.
type History struct {
	Commits []Commit `json:"commits"`

	// Refs maps ref names (branches, tags, HEAD) to commit ids. Optional;
	// used for row decorations when a history is loaded from a file.
	Refs map[string]string `json:"refs,omitempty"`
}

// Commit is one serialized commit record.
type Commit struct {
	ID      string   `json:"id"`
	Parents []string `json:"parents,omitempty"`
	Author  string   `json:"author,omitempty"`
	Time    int64    `json:"time"`
	// TZ is the committer's UTC offset in seconds east. Files without it
	// read back as UTC.
	TZ      int    `json:"tz,omitempty"`
	Message string `json:"message,omitempty"`
}

// FromRecords converts commit records to their serialized form.
func FromRecords(records []dag.Record) History {
	h := History{Commits: make([]Commit, len(records))}
	for i, r := range records {
		c := Commit{
			ID:      string(r.ID),
			Author:  r.Author,
			Time:    r.Time.Unix(),
			Message: r.Message,
		}
		if !r.Time.IsZero() {
			_, c.TZ = r.Time.Zone()
		}
		if len(r.Parents) > 0 {
			c.Parents = make([]string, len(r.Parents))
			for j, p := range r.Parents {
				c.Parents[j] = string(p)
			}
		}
		h.Commits[i] = c
	}
	return h
}

// commitTime restores a timestamp in the zone it was recorded in.
func commitTime(sec int64, offset int) time.Time {
	t := time.Unix(sec, 0)
	if offset == 0 {
		return t.UTC()
	}
	return t.In(time.FixedZone(zoneName(offset), offset))
}

// zoneName formats an offset the way git prints it, e.g. "+0900".
func zoneName(offset int) string {
	sign := byte('+')
	if offset < 0 {
		sign, offset = '-', -offset
	}
	h, m := offset/3600, offset%3600/60
	return string([]byte{sign, byte('0' + h/10), byte('0' + h%10), byte('0' + m/10), byte('0' + m%10)})
}

// Records converts the history back to commit records. Commits without an id
// are kept so the graph builder can report them.
func (h History) Records() []dag.Record {
	out := make([]dag.Record, len(h.Commits))
	for i, c := range h.Commits {
		r := dag.Record{
			ID:      dag.ID(c.ID),
			Author:  c.Author,
			Time:    commitTime(c.Time, c.TZ),
			Message: c.Message,
		}
		if len(c.Parents) > 0 {
			r.Parents = make([]dag.ID, len(c.Parents))
			for j, p := range c.Parents {
				r.Parents[j] = dag.ID(p)
			}
		}
		out[i] = r
	}
	return out
}

// =============================================================================
// Layout - Row Stream Serialization
// =============================================================================

// Layout is the serialized form of a railway row stream.
type Layout struct {
	Width     int    `json:"width"`
	Truncated bool   `json:"truncated,omitempty"`
	Reference string `json:"reference,omitempty"`
	Rows      []Row  `json:"rows"`
}

// Row is a node row or an edge row, discriminated by Kind.
//
//	Node ("node"): ID, Lane, PassThrough and the flags
//	Edge ("edge"): Segments
type Row struct {
	Kind string `json:"kind"`

	// Node rows
	ID          string `json:"id,omitempty"`
	Lane        int    `json:"lane"`
	PassThrough []int  `json:"pass_through,omitempty"`
	Merge       bool   `json:"merge,omitempty"`
	Truncated   bool   `json:"truncated,omitempty"`
	Dimmed      bool   `json:"dimmed,omitempty"`
	Reference   bool   `json:"reference,omitempty"`

	// Edge rows
	Segments []Segment `json:"segments,omitempty"`
}

// IsNode reports whether the row places a commit.
func (r Row) IsNode() bool { return r.Kind == KindNode }

// Segment is a serialized lane transition.
type Segment struct {
	Kind string `json:"kind"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// FromLayout converts a row stream to its serialized form.
func FromLayout(l *railway.Layout) Layout {
	out := Layout{Rows: []Row{}}
	if l == nil {
		return out
	}
	out.Width = l.Width
	out.Truncated = l.Truncated
	out.Rows = make([]Row, 0, len(l.Rows))
	for _, r := range l.Rows {
		switch r := r.(type) {
		case railway.NodeRow:
			out.Rows = append(out.Rows, Row{
				Kind:        KindNode,
				ID:          string(r.ID),
				Lane:        r.Lane,
				PassThrough: r.PassThrough,
				Merge:       r.Merge,
				Truncated:   r.Truncated,
				Dimmed:      r.Dimmed,
				Reference:   r.Reference,
			})
			if r.Reference {
				out.Reference = string(r.ID)
			}
		case railway.EdgeRow:
			row := Row{Kind: KindEdge, Segments: make([]Segment, len(r.Segments))}
			for i, s := range r.Segments {
				row.Segments[i] = Segment{Kind: s.Kind.String(), From: s.From, To: s.To}
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
