// Package source defines the boundary to commit stores.
//
// A [Store] hands out raw commit records and resolves revision names. It is
// read-only: nothing in railtrack ever writes to a repository. Two stores ship
// with the module:
//
//   - [github.com/matzehuels/railtrack/pkg/source/git] reads a git
//     repository on disk through go-git.
//   - [github.com/matzehuels/railtrack/pkg/source/local/records] serves a
//     JSON history file written by [github.com/matzehuels/railtrack/pkg/graph].
//
// Records come back in no particular order; building the graph and ordering
// it is the job of [github.com/matzehuels/railtrack/pkg/dag].
package source

import (
	"context"
	"slices"

	"github.com/matzehuels/railtrack/pkg/dag"
)

// HEAD is the revision name used when no ancestry reference is given.
const HEAD = "HEAD"

// Store supplies commit records and resolves revision names.
type Store interface {
	// Path identifies the repository in cache keys and log lines.
	Path() string

	// ListCommits returns the commits reachable from refs. Each entry of refs
	// is a ref name or a glob over ref names; an empty list selects every
	// branch, remote branch, tag and HEAD. At most limit records are returned
	// (0 means no limit); parents beyond the limit stay referenced so the
	// graph builder can mark them as boundary parents.
	ListCommits(ctx context.Context, refs []string, limit int) ([]dag.Record, error)

	// ResolveReference resolves a revision name such as HEAD, a branch, a tag
	// or an abbreviated id to a commit id. Unknown names produce an error
	// with code REFERENCE_NOT_FOUND.
	ResolveReference(ctx context.Context, name string) (dag.ID, error)

	// Tips returns ref name to commit id for the refs ListCommits would
	// walk with the same selectors. A store that cannot name its tips
	// returns an empty map, which disables history caching.
	Tips(ctx context.Context, refs []string) (map[string]string, error)
}

// RefKind classifies a named ref.
type RefKind int

const (
	KindHead RefKind = iota
	KindBranch
	KindRemote
	KindTag
)

func (k RefKind) String() string {
	switch k {
	case KindHead:
		return "head"
	case KindBranch:
		return "branch"
	case KindRemote:
		return "remote"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Ref is a named pointer to a commit.
type Ref struct {
	Name   string // short name, e.g. "main", "origin/main", "v1.0"
	Kind   RefKind
	Target dag.ID
}

// RefLister is implemented by stores that can enumerate their refs.
type RefLister interface {
	Refs(ctx context.Context) ([]Ref, error)
}

// SortRefs orders refs by kind, then name.
func SortRefs(refs []Ref) {
	slices.SortFunc(refs, func(a, b Ref) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
}

// Decorations groups ref names by the commit they point to. Names keep the
// order of refs, so sorting refs first gives stable labels.
func Decorations(refs []Ref) map[dag.ID][]string {
	if len(refs) == 0 {
		return nil
	}
	out := make(map[dag.ID][]string)
	for _, r := range refs {
		out[r.Target] = append(out[r.Target], r.Name)
	}
	return out
}
