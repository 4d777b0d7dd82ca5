package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/railtrack/pkg/dag"
	"github.com/matzehuels/railtrack/pkg/railway"
)

// ShortIDLength is the number of id characters shown per commit.
const ShortIDLength = 7

// Options configures painting.
type Options struct {
	// ASCII selects the [ASCII] glyph set instead of [Unicode].
	ASCII bool

	// Decorations maps commits to the ref names listed next to them.
	Decorations map[dag.ID][]string

	ShowAuthor bool
	ShowDate   bool

	// DateFormat is a time layout for absolute dates. Empty means relative
	// dates such as "3 days ago".
	DateFormat string

	// Now is the reference time for relative dates; zero means time.Now.
	Now time.Time

	// Width truncates lines to this many columns when positive.
	Width int
}

func (o Options) glyphs() Glyphs {
	if o.ASCII {
		return ASCII
	}
	return Unicode
}

// Label is the text next to a commit.
type Label struct {
	ID        string
	Refs      []string
	Subject   string
	Author    string
	Date      string
	Truncated bool
}

// String joins the non-empty parts of the label with single spaces.
func (l Label) String() string {
	if l.ID == "" {
		return ""
	}
	parts := []string{l.ID}
	if len(l.Refs) > 0 {
		parts = append(parts, "("+strings.Join(l.Refs, ", ")+")")
	}
	if l.Subject != "" {
		parts = append(parts, l.Subject)
	}
	if meta := joinNonEmpty(", ", l.Author, l.Date); meta != "" {
		parts = append(parts, "["+meta+"]")
	}
	if l.Truncated {
		parts = append(parts, "(truncated)")
	}
	return strings.Join(parts, " ")
}

func joinNonEmpty(sep string, parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, sep)
}

func labelFor(g *dag.Graph, r railway.NodeRow, opts Options) Label {
	l := Label{
		ID:        r.ID.Short(ShortIDLength),
		Refs:      opts.Decorations[r.ID],
		Truncated: r.Truncated,
	}
	if g == nil {
		return l
	}
	n, ok := g.Node(r.ID)
	if !ok {
		return l
	}
	l.Subject = n.Subject()
	if opts.ShowAuthor {
		l.Author = n.Author
	}
	if opts.ShowDate && !n.Time.IsZero() {
		if opts.DateFormat != "" {
			l.Date = n.Time.Format(opts.DateFormat)
		} else {
			now := opts.Now
			if now.IsZero() {
				now = time.Now()
			}
			l.Date = Relative(n.Time, now)
		}
	}
	return l
}

// Relative formats t as a coarse age relative to now, for example
// "5 minutes ago". Times after now read "in the future".
func Relative(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		return "in the future"
	}
	units := []struct {
		size time.Duration
		name string
	}{
		{365 * 24 * time.Hour, "year"},
		{30 * 24 * time.Hour, "month"},
		{7 * 24 * time.Hour, "week"},
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
	}
	for _, u := range units {
		if n := int(d / u.size); n > 0 {
			if n == 1 {
				return fmt.Sprintf("1 %s ago", u.name)
			}
			return fmt.Sprintf("%d %ss ago", n, u.name)
		}
	}
	return "just now"
}
