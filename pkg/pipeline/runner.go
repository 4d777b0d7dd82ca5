package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railtrack/pkg/cache"
	"github.com/matzehuels/railtrack/pkg/dag"
	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/graph"
	"github.com/matzehuels/railtrack/pkg/observability"
	"github.com/matzehuels/railtrack/pkg/source"
)

// historyKeyType labels history entries in cache hooks.
const historyKeyType = "history"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached histories; zero means
	// cache.DefaultHistoryTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute loads the history of store and computes its layout.
func (r *Runner) Execute(ctx context.Context, store source.Store, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Load
	loadStart := time.Now()
	records, hit, err := r.LoadHistory(ctx, store, opts)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	loadTime := time.Since(loadStart)

	r.Logger.Info("loaded history",
		"commits", len(records),
		"cached", hit,
		"duration", loadTime)

	ref, err := r.ResolveReference(ctx, store, opts.Reference)
	if err != nil {
		return nil, err
	}

	// Stage 2: Layout
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(records))
	res, err := BuildLayout(records, ref)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, 0, err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	hooks.OnLayoutComplete(ctx, res.Stats.Rows, res.Stats.Lanes, res.Stats.LayoutTime, nil)

	for _, w := range res.Report.Warnings {
		r.Logger.Warn("skipped malformed record", "index", w.Index, "reason", w.Reason)
	}
	if res.Report.Duplicates > 0 {
		r.Logger.Debug("replaced duplicate records", "count", res.Report.Duplicates)
	}

	if lister, ok := store.(source.RefLister); ok {
		refs, err := lister.Refs(ctx)
		if err != nil {
			r.Logger.Warn("list refs", "err", err)
		}
		res.Refs = refs
	}

	res.Stats.LoadTime = loadTime
	res.CacheInfo.HistoryHit = hit

	r.Logger.Info("computed layout",
		"rows", res.Stats.Rows,
		"lanes", res.Stats.Lanes,
		"truncated", res.Graph.Truncated(),
		"duration", res.Stats.LayoutTime)

	return res, nil
}

// LoadHistory returns the commit records of store, from the cache when the
// store names its ref tips and an entry for the same tips exists. The bool
// reports a cache hit. Cache failures are logged and never fail the load.
func (r *Runner) LoadHistory(ctx context.Context, store source.Store, opts Options) ([]dag.Record, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, store.Path())
	start := time.Now()

	records, hit, err := r.loadHistory(ctx, store, opts)
	hooks.OnLoadComplete(ctx, store.Path(), len(records), time.Since(start), err)
	return records, hit, err
}

func (r *Runner) loadHistory(ctx context.Context, store source.Store, opts Options) ([]dag.Record, bool, error) {
	tips, err := store.Tips(ctx, opts.Refs)
	if err != nil {
		return nil, false, err
	}

	var key string
	if len(tips) > 0 {
		key = r.Keyer.HistoryKey(store.Path(), cache.HistoryKeyOpts{
			Tips:       tips,
			MaxCommits: opts.MaxCommits,
		})
	}

	// Try cache first (unless refresh requested)
	if key != "" && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "err", err)
		case hit:
			records, err := graph.UnmarshalRecords(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, historyKeyType)
				r.Logger.Debug("history cache hit", "repo", store.Path(), "commits", len(records))
				return records, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, historyKeyType)
	}

	records, err := store.ListCommits(ctx, opts.Refs, opts.MaxCommits)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		data, err := graph.MarshalRecords(records)
		if err == nil {
			err = r.Cache.Set(ctx, key, data, r.ttl())
		}
		if err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, historyKeyType, len(data))
		}
	}

	return records, false, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.DefaultHistoryTTL
}

// ResolveReference turns a revision name into the ancestry reference. A
// missing HEAD (empty or unborn repository) yields no reference instead of
// an error; any other unknown name fails.
func (r *Runner) ResolveReference(ctx context.Context, store source.Store, name string) (dag.ID, error) {
	if name == "" {
		name = DefaultReference
	}
	id, err := store.ResolveReference(ctx, name)
	if err == nil {
		return id, nil
	}
	if name == source.HEAD && errs.Is(err, errs.ErrCodeReferenceNotFound) {
		r.Logger.Debug("HEAD does not resolve, showing history without reference", "err", err)
		return "", nil
	}
	return "", fmt.Errorf("resolve %s: %w", name, err)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
