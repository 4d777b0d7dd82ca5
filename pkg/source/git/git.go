// Package git reads commit history from a git repository through go-git.
//
// The store never shells out to a git binary and never writes to the
// repository. It walks commits from ref tips newest first, so a commit limit
// keeps the most recent part of the history and leaves older parents as
// boundary references.
package git

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/matzehuels/railtrack/pkg/dag"
	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/observability"
	"github.com/matzehuels/railtrack/pkg/source"
)

// Store is a [source.Store] backed by a go-git repository.
type Store struct {
	repo *gogit.Repository
	path string
}

// Open opens the repository containing dir. Parent directories are searched
// for a .git directory the way git does.
func Open(dir string) (*Store, error) {
	if err := errs.ValidatePath(dir); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, errs.Wrap(errs.ErrCodeRepositoryNotFound, err, "no git repository at %s", dir)
		}
		return nil, fmt.Errorf("open repository %s: %w", dir, err)
	}
	return New(repo, abs), nil
}

// New wraps an already opened repository. name is what [Store.Path] reports.
func New(repo *gogit.Repository, name string) *Store {
	return &Store{repo: repo, path: name}
}

// Path returns the absolute repository path given to [Open].
func (s *Store) Path() string { return s.path }

// Refs lists HEAD and every branch, remote branch and tag that points to a
// commit. Annotated tags are peeled. Symbolic refs other than HEAD (such as
// origin/HEAD) are skipped because their target is listed already.
func (s *Store) Refs(ctx context.Context) ([]source.Ref, error) {
	var refs []source.Ref

	head, err := s.repo.Head()
	switch {
	case err == nil:
		refs = append(refs, source.Ref{Name: source.HEAD, Kind: source.KindHead, Target: dag.ID(head.Hash().String())})
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// unborn branch
	default:
		return nil, fmt.Errorf("read HEAD: %w", err)
	}

	iter, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(r *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Type() != plumbing.HashReference {
			return nil
		}
		name := r.Name()
		var kind source.RefKind
		switch {
		case name.IsBranch():
			kind = source.KindBranch
		case name.IsRemote():
			kind = source.KindRemote
		case name.IsTag():
			kind = source.KindTag
		default:
			return nil
		}
		target, ok := s.peel(r.Hash())
		if !ok {
			return nil
		}
		refs = append(refs, source.Ref{Name: name.Short(), Kind: kind, Target: dag.ID(target.String())})
		return nil
	})
	if err != nil {
		return nil, err
	}

	source.SortRefs(refs)
	return refs, nil
}

// CurrentBranch returns the branch HEAD points to, or "HEAD" when detached.
// An unborn branch is reported by name.
func (s *Store) CurrentBranch() (string, error) {
	ref, err := s.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short(), nil
	}
	return source.HEAD, nil
}

// Tips returns the commit each selected ref points to, keyed by the ref name
// or selector that produced it.
func (s *Store) Tips(ctx context.Context, refs []string) (map[string]string, error) {
	sel, err := s.selectRefs(ctx, refs)
	if err != nil {
		return nil, err
	}
	tips := make(map[string]string, len(sel))
	for _, r := range sel {
		tips[r.Name] = string(r.Target)
	}
	return tips, nil
}

// ResolveReference resolves any revision go-git understands: HEAD, branch and
// tag names, abbreviated hashes and suffixes like HEAD~2.
func (s *Store) ResolveReference(ctx context.Context, name string) (dag.ID, error) {
	id, err := s.resolve(name)
	observability.Store().OnResolve(ctx, name, err)
	return id, err
}

func (s *Store) resolve(name string) (dag.ID, error) {
	if err := errs.ValidateReference(name); err != nil {
		return "", err
	}
	h, err := s.repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeReferenceNotFound, err, "reference %q not found", name)
	}
	target, ok := s.peel(*h)
	if !ok {
		return "", errs.New(errs.ErrCodeReferenceNotFound, "reference %q does not point to a commit", name)
	}
	return dag.ID(target.String()), nil
}

// ListCommits walks the history reachable from refs, newest committer time
// first, and stops after limit commits when limit > 0.
func (s *Store) ListCommits(ctx context.Context, refs []string, limit int) ([]dag.Record, error) {
	start := time.Now()
	sel, err := s.selectRefs(ctx, refs)
	if err != nil {
		return nil, err
	}

	records, truncated, err := s.walk(ctx, sel, limit)
	observability.Store().OnWalk(ctx, len(sel), len(records), truncated, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) walk(ctx context.Context, tips []source.Ref, limit int) ([]dag.Record, bool, error) {
	seen := make(map[plumbing.Hash]bool)
	q := &commitQueue{}

	for _, t := range tips {
		h := plumbing.NewHash(string(t.Target))
		if seen[h] {
			continue
		}
		c, err := s.repo.CommitObject(h)
		if err != nil {
			return nil, false, fmt.Errorf("read commit %s for %s: %w", h, t.Name, err)
		}
		seen[h] = true
		heap.Push(q, c)
	}

	var records []dag.Record
	for q.Len() > 0 {
		if limit > 0 && len(records) == limit {
			return records, true, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		c := heap.Pop(q).(*object.Commit)
		records = append(records, toRecord(c))

		for _, p := range c.ParentHashes {
			if seen[p] {
				continue
			}
			seen[p] = true
			pc, err := s.repo.CommitObject(p)
			if errors.Is(err, plumbing.ErrObjectNotFound) {
				// Shallow clone: the parent stays a boundary reference.
				continue
			}
			if err != nil {
				return nil, false, fmt.Errorf("read commit %s: %w", p, err)
			}
			heap.Push(q, pc)
		}
	}
	return records, false, nil
}

// selectRefs expands ref selectors. Globs are matched against short ref
// names; a selector that matches no ref is resolved as a revision.
func (s *Store) selectRefs(ctx context.Context, patterns []string) ([]source.Ref, error) {
	all, err := s.Refs(ctx)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return all, nil
	}

	var out []source.Ref
	for _, p := range patterns {
		if err := errs.ValidateRefPattern(p); err != nil {
			return nil, err
		}
		matched := false
		for _, r := range all {
			if ok, _ := path.Match(p, r.Name); ok {
				out = append(out, r)
				matched = true
			}
		}
		if matched {
			continue
		}
		if strings.ContainsAny(p, "*?[") {
			return nil, errs.New(errs.ErrCodeReferenceNotFound, "no refs match %q", p)
		}
		id, err := s.resolve(p)
		if err != nil {
			return nil, err
		}
		out = append(out, source.Ref{Name: p, Target: id})
	}
	return out, nil
}

// peel follows annotated tags to the commit they point to.
func (s *Store) peel(h plumbing.Hash) (plumbing.Hash, bool) {
	if tag, err := s.repo.TagObject(h); err == nil {
		c, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, false
		}
		return c.Hash, true
	}
	if _, err := s.repo.CommitObject(h); err != nil {
		return plumbing.ZeroHash, false
	}
	return h, true
}

func toRecord(c *object.Commit) dag.Record {
	r := dag.Record{
		ID:      dag.ID(c.Hash.String()),
		Author:  c.Author.Name,
		Time:    c.Committer.When,
		Message: c.Message,
	}
	if len(c.ParentHashes) > 0 {
		r.Parents = make([]dag.ID, len(c.ParentHashes))
		for i, p := range c.ParentHashes {
			r.Parents[i] = dag.ID(p.String())
		}
	}
	return r
}

// commitQueue pops the commit with the newest committer time, ties broken by
// hash, so walks are deterministic.
type commitQueue []*object.Commit

func (q commitQueue) Len() int { return len(q) }

func (q commitQueue) Less(i, j int) bool {
	ti, tj := q[i].Committer.When, q[j].Committer.When
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return q[i].Hash.String() < q[j].Hash.String()
}

func (q commitQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *commitQueue) Push(x any)   { *q = append(*q, x.(*object.Commit)) }

func (q *commitQueue) Pop() any {
	old := *q
	c := old[len(old)-1]
	*q = old[:len(old)-1]
	return c
}

var (
	_ source.Store     = (*Store)(nil)
	_ source.RefLister = (*Store)(nil)
)
