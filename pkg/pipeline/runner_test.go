package pipeline

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railtrack/pkg/cache"
	"github.com/matzehuels/railtrack/pkg/dag"
	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/source"
)

type fakeStore struct {
	records []dag.Record
	tips    map[string]string
	refs    []source.Ref
	walks   int
}

func (s *fakeStore) Path() string { return "/repo" }

func (s *fakeStore) ListCommits(_ context.Context, _ []string, limit int) ([]dag.Record, error) {
	s.walks++
	if limit > 0 && limit < len(s.records) {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func (s *fakeStore) ResolveReference(_ context.Context, name string) (dag.ID, error) {
	for _, r := range s.refs {
		if r.Name == name {
			return r.Target, nil
		}
	}
	return "", errs.New(errs.ErrCodeReferenceNotFound, "unknown revision %q", name)
}

func (s *fakeStore) Tips(context.Context, []string) (map[string]string, error) {
	return s.tips, nil
}

func (s *fakeStore) Refs(context.Context) ([]source.Ref, error) { return s.refs, nil }

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: mergeHistory(),
		tips:    map[string]string{"main": "d"},
		refs: []source.Ref{
			{Name: source.HEAD, Kind: source.KindHead, Target: "d"},
			{Name: "main", Kind: source.KindBranch, Target: "d"},
		},
	}
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestRunner_Execute(t *testing.T) {
	store := newFakeStore()
	r := NewRunner(nil, nil, quietLogger())

	res, err := r.Execute(context.Background(), store, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reference != "d" {
		t.Errorf("Reference = %q, want d", res.Reference)
	}
	if len(res.Refs) != 2 {
		t.Errorf("Refs = %v", res.Refs)
	}
	if res.Stats.Commits != 4 || res.CacheInfo.HistoryHit {
		t.Errorf("Stats = %+v, CacheInfo = %+v", res.Stats, res.CacheInfo)
	}
}

func TestRunner_CachesHistory(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := newFakeStore()
	r := NewRunner(fc, nil, quietLogger())
	ctx := context.Background()

	first, err := r.Execute(ctx, store, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, store, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.HistoryHit || !second.CacheInfo.HistoryHit {
		t.Errorf("hits = %v, %v; want false, true", first.CacheInfo.HistoryHit, second.CacheInfo.HistoryHit)
	}
	if store.walks != 1 {
		t.Errorf("walks = %d, want 1", store.walks)
	}
	if second.Stats.Rows != first.Stats.Rows {
		t.Errorf("cached layout has %d rows, fresh %d", second.Stats.Rows, first.Stats.Rows)
	}

	// A moved tip is a different key.
	store.tips = map[string]string{"main": "e"}
	if _, err := r.Execute(ctx, store, Options{}); err != nil {
		t.Fatal(err)
	}
	if store.walks != 2 {
		t.Errorf("walks after tip move = %d, want 2", store.walks)
	}

	// Refresh skips the read.
	if _, err := r.Execute(ctx, store, Options{Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if store.walks != 3 {
		t.Errorf("walks after refresh = %d, want 3", store.walks)
	}
}

func TestRunner_NoTipsSkipsCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := newFakeStore()
	store.tips = nil
	r := NewRunner(fc, nil, quietLogger())

	for range 2 {
		res, err := r.Execute(context.Background(), store, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if res.CacheInfo.HistoryHit {
			t.Error("store without tips hit the cache")
		}
	}
	if store.walks != 2 {
		t.Errorf("walks = %d, want 2", store.walks)
	}
}

func TestRunner_MaxCommits(t *testing.T) {
	store := newFakeStore()
	store.records = []dag.Record{rec("d", 4, "b", "c"), rec("c", 3, "a")}
	r := NewRunner(nil, nil, quietLogger())

	res, err := r.Execute(context.Background(), store, Options{MaxCommits: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Layout.Truncated || !res.Graph.Truncated() {
		t.Error("limited history should be truncated")
	}
}

func TestRunner_ResolveReference(t *testing.T) {
	store := newFakeStore()
	store.refs = nil
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	// An unborn HEAD is not an error.
	res, err := r.Execute(ctx, store, Options{})
	if err != nil {
		t.Fatalf("missing HEAD: %v", err)
	}
	if res.Reference != "" {
		t.Errorf("Reference = %q, want none", res.Reference)
	}

	// Any other unknown name is.
	_, err = r.Execute(ctx, store, Options{Reference: "topic"})
	if got := errs.GetCode(err); got != errs.ErrCodeReferenceNotFound {
		t.Errorf("code = %s, want %s", got, errs.ErrCodeReferenceNotFound)
	}
}

func TestRunner_InvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Execute(context.Background(), newFakeStore(), Options{MaxCommits: -5})
	if got := errs.GetCode(err); got != errs.ErrCodeInvalidInput {
		t.Errorf("code = %s, want %s", got, errs.ErrCodeInvalidInput)
	}
}

func TestRunner_CachedHistoryKeepsTimezone(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	jst := time.FixedZone("JST", 9*3600)
	store := &fakeStore{
		records: []dag.Record{{ID: "a", Time: time.Date(2024, 1, 1, 3, 0, 0, 0, jst), Message: "x"}},
		tips:    map[string]string{"main": "a"},
		refs:    []source.Ref{{Name: source.HEAD, Kind: source.KindHead, Target: "a"}},
	}
	r := NewRunner(fc, nil, quietLogger())

	for i, wantHit := range []bool{false, true} {
		res, err := r.Execute(context.Background(), store, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if res.CacheInfo.HistoryHit != wantHit {
			t.Fatalf("run %d: hit = %v, want %v", i, res.CacheInfo.HistoryHit, wantHit)
		}
		n, _ := res.Graph.Node("a")
		if got := n.Time.Format("2006-01-02 15:04 -0700"); got != "2024-01-01 03:00 +0900" {
			t.Errorf("run %d: commit time = %s, want the committer's zone", i, got)
		}
	}
}
