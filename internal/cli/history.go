package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railtrack/pkg/render/terminal"
)

// logCommand creates the log command that prints the railway diagram.
func (c *CLI) logCommand() *cobra.Command {
	var (
		repo    repoFlags
		display displayFlags
		width   int
	)

	cmd := &cobra.Command{
		Use:   "log [path]",
		Short: "Print the commit graph as a railway diagram",
		Long: `Print the commit graph of a repository as a railway diagram.

Every commit gets a row; its lane is the track it runs on. Commits that are
not ancestors of the reference revision (--ref, default HEAD) are dimmed.

With --input the commits are read from a records file written by
'railtrack export' instead of a repository.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, cmd, args, &repo)
			if err != nil {
				return err
			}
			defer s.Close()

			opts := c.terminalOptions(cmd, &display)
			opts.Width = width
			if !cmd.Flags().Changed("width") {
				opts.Width = terminalWidth()
			}
			return c.runLog(ctx, s, opts, display.styles())
		},
	}

	repo.register(cmd)
	display.register(cmd)
	cmd.Flags().IntVarP(&width, "width", "w", 0, "truncate lines to this many columns (default: terminal width, 0 = never)")

	return cmd
}

func (c *CLI) runLog(ctx context.Context, s *session, opts terminal.Options, styles terminal.Styles) error {
	res, err := s.load(ctx)
	if err != nil {
		return err
	}
	opts.Decorations = res.Decorations()
	if err := terminal.Render(os.Stdout, res.Graph, res.Layout, opts, styles); err != nil {
		return err
	}
	if res.Graph.Truncated() {
		c.Logger.Debug("history is truncated", "commits", res.Stats.Commits)
	}
	return nil
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
