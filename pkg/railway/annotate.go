package railway

import "github.com/matzehuels/railtrack/pkg/dag"

// Annotate returns a copy of l with the Dimmed and Reference flags of every
// node row set from a. Commits outside the ancestry are dimmed; the
// ancestry's reference commit is marked. A nil ancestry clears all flags.
//
// Annotation never changes lanes, segments or row order, so switching the
// reference does not require a new layout. The input is left untouched.
func Annotate(l *Layout, a *dag.Ancestry) *Layout {
	if l == nil {
		return nil
	}
	out := &Layout{
		Rows:      make([]Row, len(l.Rows)),
		Width:     l.Width,
		Truncated: l.Truncated,
		index:     l.index,
	}
	ref := a.Reference()
	for i, r := range l.Rows {
		if n, ok := r.(NodeRow); ok {
			n.Dimmed = !a.Contains(n.ID)
			n.Reference = ref != "" && n.ID == ref
			r = n
		}
		out.Rows[i] = r
	}
	return out
}
