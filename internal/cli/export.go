package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railtrack/pkg/graph"
	"github.com/matzehuels/railtrack/pkg/source"
)

// exportCommand creates the export command that writes a records file.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		repo   repoFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the commit history to a records file",
		Long: `Write the commits of a repository and its named refs to a JSON records file.

The file can be read back with --input by every other command, which makes it
easy to share a history or to draw one without the repository at hand.

Without -o the records are written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, cmd, args, &repo)
			if err != nil {
				return err
			}
			defer s.Close()
			return c.runExport(ctx, s, output)
		},
	}

	repo.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, s *session, output string) error {
	prog := newProgress(c.Logger)
	records, hit, err := s.runner.LoadHistory(ctx, s.store, s.opts)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	h := graph.FromRecords(records)
	if lister, ok := s.store.(source.RefLister); ok {
		refs, err := lister.Refs(ctx)
		if err != nil {
			return fmt.Errorf("list refs: %w", err)
		}
		if len(refs) > 0 {
			h.Refs = make(map[string]string, len(refs))
			for _, r := range refs {
				h.Refs[r.Name] = string(r.Target)
			}
		}
	}
	prog.done("Loaded history", "commits", len(records), "refs", len(h.Refs), "cache", cacheStatus(hit))

	if output == "" {
		return graph.WriteHistory(h, os.Stdout)
	}
	if err := graph.WriteHistoryFile(h, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Export complete")
	printFile(output)
	printDetail("%d commits, %d refs (%s)", len(h.Commits), len(h.Refs), cacheStatus(hit))
	printNextStep("Draw it", appName+" log --input "+output)
	return nil
}
