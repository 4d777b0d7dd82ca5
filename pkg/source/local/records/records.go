// Package records serves commit history from a JSON records file.
//
// The file format is the one written by
// [github.com/matzehuels/railtrack/pkg/graph.WriteHistory]. An optional
// "refs" object maps names to commit ids and is used for ref selection,
// decorations and reference resolution.
package records

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/railtrack/pkg/dag"
	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/graph"
	"github.com/matzehuels/railtrack/pkg/source"
)

// Store is a [source.Store] over an in-memory history.
type Store struct {
	path    string
	records []dag.Record
	refs    map[string]string
}

// Open reads a records file.
func Open(file string) (*Store, error) {
	if err := errs.ValidatePath(file); err != nil {
		return nil, err
	}
	h, err := graph.ReadHistoryFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "records file %s not found", file)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidHistory, err, "read records file %s", file)
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	return New(abs, h), nil
}

// New serves h under the given name.
func New(name string, h graph.History) *Store {
	return &Store{path: name, records: h.Records(), refs: h.Refs}
}

func (s *Store) Path() string { return s.path }

// ListCommits returns the stored records. Without refs every record is
// returned; otherwise only commits reachable from the selected refs are kept.
// The limit keeps the newest commits.
func (s *Store) ListCommits(ctx context.Context, refs []string, limit int) ([]dag.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := s.records
	if len(refs) > 0 {
		tips, err := s.selectTips(refs)
		if err != nil {
			return nil, err
		}
		out = s.reachable(tips)
	}
	if limit > 0 && len(out) > limit {
		out = slices.Clone(out)
		slices.SortStableFunc(out, func(a, b dag.Record) int {
			return b.Time.Compare(a.Time)
		})
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) reachable(tips map[string]string) []dag.Record {
	byID := make(map[dag.ID]int, len(s.records))
	for i, r := range s.records {
		byID[r.ID] = i
	}
	keep := make([]bool, len(s.records))
	var stack []dag.ID
	for _, t := range tips {
		stack = append(stack, dag.ID(t))
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		i, ok := byID[id]
		if !ok || keep[i] {
			continue
		}
		keep[i] = true
		stack = append(stack, s.records[i].Parents...)
	}
	var out []dag.Record
	for i, r := range s.records {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

// Tips always reports no tips. The file is read in full on open, so caching
// its history would only risk serving stale records after an edit.
func (s *Store) Tips(context.Context, []string) (map[string]string, error) {
	return nil, nil
}

// selectTips returns the commits the selectors name. Globs match ref names
// from the file; other selectors are resolved as revisions.
func (s *Store) selectTips(refs []string) (map[string]string, error) {
	tips := make(map[string]string)
	for _, p := range refs {
		if err := errs.ValidateRefPattern(p); err != nil {
			return nil, err
		}
		matched := false
		for name, target := range s.refs {
			if ok, _ := path.Match(p, name); ok {
				tips[name] = target
				matched = true
			}
		}
		if !matched {
			id, err := s.resolve(p)
			if err != nil {
				return nil, err
			}
			tips[p] = string(id)
		}
	}
	return tips, nil
}

// ResolveReference resolves a ref name from the file, a full commit id or a
// unique id prefix. HEAD falls back to the newest commit when the file does
// not name it.
func (s *Store) ResolveReference(_ context.Context, name string) (dag.ID, error) {
	if err := errs.ValidateReference(name); err != nil {
		return "", err
	}
	return s.resolve(name)
}

func (s *Store) resolve(name string) (dag.ID, error) {
	if target, ok := s.refs[name]; ok {
		return dag.ID(target), nil
	}
	if name == source.HEAD {
		if len(s.records) == 0 {
			return "", errs.New(errs.ErrCodeReferenceNotFound, "history is empty")
		}
		newest := s.records[0]
		for _, r := range s.records[1:] {
			if r.Time.After(newest.Time) || (r.Time.Equal(newest.Time) && r.ID < newest.ID) {
				newest = r
			}
		}
		return newest.ID, nil
	}

	for _, r := range s.records {
		if r.ID == dag.ID(name) {
			return r.ID, nil
		}
	}
	var match dag.ID
	for _, r := range s.records {
		if r.ID == "" || !strings.HasPrefix(string(r.ID), name) {
			continue
		}
		if match != "" && match != r.ID {
			return "", errs.New(errs.ErrCodeReferenceNotFound, "reference %q is ambiguous", name)
		}
		match = r.ID
	}
	if match == "" {
		return "", errs.New(errs.ErrCodeReferenceNotFound, "reference %q not found", name)
	}
	return match, nil
}

// Refs lists the refs stored in the file.
func (s *Store) Refs(context.Context) ([]source.Ref, error) {
	refs := make([]source.Ref, 0, len(s.refs))
	for name, target := range s.refs {
		kind := source.KindBranch
		switch {
		case name == source.HEAD:
			kind = source.KindHead
		case strings.HasPrefix(name, "tags/"):
			kind = source.KindTag
		case strings.Contains(name, "/"):
			kind = source.KindRemote
		}
		refs = append(refs, source.Ref{Name: name, Kind: kind, Target: dag.ID(target)})
	}
	source.SortRefs(refs)
	return refs, nil
}

var (
	_ source.Store     = (*Store)(nil)
	_ source.RefLister = (*Store)(nil)
)
