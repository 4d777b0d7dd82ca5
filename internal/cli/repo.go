package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railtrack/pkg/dag"
	"github.com/matzehuels/railtrack/pkg/pipeline"
	"github.com/matzehuels/railtrack/pkg/render/terminal"
	"github.com/matzehuels/railtrack/pkg/source"
	"github.com/matzehuels/railtrack/pkg/source/git"
	"github.com/matzehuels/railtrack/pkg/source/local/records"
)

// repoFlags select the history a command works on. Flags left unset fall
// back to the config file.
type repoFlags struct {
	input     string
	refs      string
	maxCount  int
	reference string
	noCache   bool
	refresh   bool
}

func (f *repoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "read commits from a records file instead of a repository")
	cmd.Flags().StringVar(&f.refs, "refs", "", "refs to walk, comma-separated names or globs (default: all)")
	cmd.Flags().IntVarP(&f.maxCount, "max-count", "n", 0, "load at most this many commits (0 = all)")
	cmd.Flags().StringVarP(&f.reference, "ref", "r", "", "highlight the ancestry of this revision (default: HEAD)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the history cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "reload the history even if it is cached")
}

// options merges the config file with the flags the user set.
func (c *CLI) options(cmd *cobra.Command, f *repoFlags) pipeline.Options {
	opts := pipeline.Options{
		Refs:       c.config.Refs,
		MaxCommits: c.config.MaxCommits,
		Reference:  c.config.Reference,
		Refresh:    f.refresh,
		Logger:     c.Logger,
	}
	if cmd.Flags().Changed("refs") {
		opts.Refs = splitList(f.refs)
	}
	if cmd.Flags().Changed("max-count") {
		opts.MaxCommits = f.maxCount
	}
	if cmd.Flags().Changed("ref") {
		opts.Reference = f.reference
	}
	return opts
}

// openStore opens the records file given with --input, or the repository
// at path.
func openStore(path string, f *repoFlags) (source.Store, error) {
	if f.input != "" {
		return records.Open(f.input)
	}
	if path == "" {
		path = "."
	}
	return git.Open(path)
}

func repoPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// session is an opened store with its runner.
type session struct {
	store  source.Store
	runner *pipeline.Runner
	opts   pipeline.Options
}

func (c *CLI) openSession(ctx context.Context, cmd *cobra.Command, args []string, f *repoFlags) (*session, error) {
	store, err := openStore(repoPath(args), f)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	return &session{store: store, runner: runner, opts: c.options(cmd, f)}, nil
}

func (s *session) Close() error { return s.runner.Close() }

// load runs the pipeline once behind a spinner.
func (s *session) load(ctx context.Context) (*pipeline.Result, error) {
	spinner := newSpinnerWithContext(ctx, "Loading history of "+s.store.Path()+"...")
	spinner.Start()

	res, err := s.runner.Execute(ctx, s.store, s.opts)
	cancelled := spinner.Cancelled()
	spinner.Stop()
	if cancelled {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// reload fetches the history again without layout, for the viewer's refresh.
func (s *session) reload(ctx context.Context) ([]dag.Record, dag.ID, []source.Ref, error) {
	opts := s.opts
	opts.Refresh = true
	recs, _, err := s.runner.LoadHistory(ctx, s.store, opts)
	if err != nil {
		return nil, "", nil, err
	}
	ref, err := s.runner.ResolveReference(ctx, s.store, opts.Reference)
	if err != nil {
		return nil, "", nil, err
	}
	var refs []source.Ref
	if lister, ok := s.store.(source.RefLister); ok {
		refs, _ = lister.Refs(ctx)
	}
	return recs, ref, refs, nil
}

// displayFlags configure terminal output.
type displayFlags struct {
	ascii      bool
	noColor    bool
	author     bool
	noDate     bool
	dateFormat string
}

func (f *displayFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.ascii, "ascii", false, "draw with ASCII characters only")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colors")
	cmd.Flags().BoolVar(&f.author, "author", false, "show commit authors")
	cmd.Flags().BoolVar(&f.noDate, "no-date", false, "hide commit dates")
	cmd.Flags().StringVar(&f.dateFormat, "date-format", "", "Go time layout for absolute dates (default: relative)")
}

func (c *CLI) terminalOptions(cmd *cobra.Command, f *displayFlags) terminal.Options {
	d := c.config.Display
	opts := terminal.Options{
		ASCII:      !d.Unicode,
		ShowAuthor: d.ShowAuthor,
		ShowDate:   d.ShowDate,
		DateFormat: d.DateFormat,
		Now:        time.Now(),
	}
	if cmd.Flags().Changed("ascii") {
		opts.ASCII = f.ascii
	}
	if cmd.Flags().Changed("author") {
		opts.ShowAuthor = f.author
	}
	if cmd.Flags().Changed("no-date") {
		opts.ShowDate = !f.noDate
	}
	if cmd.Flags().Changed("date-format") {
		opts.DateFormat = f.dateFormat
	}
	return opts
}

func (f *displayFlags) styles() terminal.Styles {
	if f.noColor {
		return terminal.Styles{}
	}
	return terminal.DefaultStyles()
}
