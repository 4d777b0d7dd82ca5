package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railtrack/pkg/graph"
)

// layoutCommand creates the layout command that exports the row stream.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		repo   repoFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [path]",
		Short: "Compute the railway layout and write it as JSON",
		Long: `Compute the railway layout of a repository and write it as JSON.

The output lists one entry per row: node rows with the commit id, its lane
and the lanes passing by, edge rows with the segments connecting two node
rows. Renderers in other tools can draw the diagram from this file without
repeating the lane assignment.

Without -o the layout is written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, cmd, args, &repo)
			if err != nil {
				return err
			}
			defer s.Close()
			return c.runLayout(ctx, s, output)
		},
	}

	repo.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// runLayout loads the history, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, s *session, output string) error {
	res, err := s.load(ctx)
	if err != nil {
		return err
	}

	if output == "" {
		return graph.WriteLayout(res.Layout, os.Stdout)
	}
	if err := graph.WriteLayoutFile(res.Layout, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(res.Stats, res.CacheInfo.HistoryHit)
	return nil
}
