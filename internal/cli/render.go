package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/pipeline"
)

// dotCommand creates the dot command that exports the commit graph for
// Graphviz.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		repo     repoFlags
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "dot [path]",
		Short: "Export the commit graph as Graphviz DOT or SVG",
		Long: `Export the commit graph as a Graphviz digraph.

Each commit is a node pointing at its parents; nodes are grouped by lane so
Graphviz keeps every lane in one column. Commits outside the ancestry of the
reference are grey, boundary parents of a limited history are dashed.

-f svg renders the graph with the embedded Graphviz library.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatDOT && format != pipeline.FormatSVG {
				return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (must be one of: dot, svg)", format)
			}
			ctx := cmd.Context()
			s, err := c.openSession(ctx, cmd, args, &repo)
			if err != nil {
				return err
			}
			defer s.Close()
			return c.runRender(ctx, s, pipeline.RenderOptions{Format: format, Detailed: detailed}, output)
		},
	}

	repo.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add subject and author to node labels")

	return cmd
}

// runRender loads the history and writes one rendered artifact.
func (c *CLI) runRender(ctx context.Context, s *session, opts pipeline.RenderOptions, output string) error {
	res, err := s.load(ctx)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	data, err := pipeline.Render(ctx, res, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered "+opts.Format, "bytes", len(data))

	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Render complete")
	printFile(output)
	printStats(res.Stats, res.CacheInfo.HistoryHit)
	return nil
}
