package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railtrack/pkg/dag"
	"github.com/matzehuels/railtrack/pkg/render/terminal"
	"github.com/matzehuels/railtrack/pkg/source"
)

// refsCommand creates the refs command that lists branches, tags and HEAD.
func (c *CLI) refsCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "refs [path]",
		Short: "List the refs of a repository and the commits they point to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(repoPath(args), &repoFlags{input: input})
			if err != nil {
				return err
			}
			lister, ok := store.(source.RefLister)
			if !ok {
				return fmt.Errorf("%s does not list refs", store.Path())
			}
			return c.runRefs(cmd.Context(), store, lister)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "read refs from a records file instead of a repository")

	return cmd
}

func (c *CLI) runRefs(ctx context.Context, store source.Store, lister source.RefLister) error {
	refs, err := lister.Refs(ctx)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		printInfo("No refs in %s", store.Path())
		return nil
	}

	fmt.Println(refsTable(refs))
	printDetail("%d refs in %s", len(refs), store.Path())
	if b, ok := store.(interface{ CurrentBranch() (string, error) }); ok {
		if branch, err := b.CurrentBranch(); err == nil {
			printKeyValue("On", branch)
		}
	}
	return nil
}

// refsTable renders refs as a bordered table, one row per ref.
func refsTable(refs []source.Ref) string {
	rows := make([][]string, len(refs))
	for i, r := range refs {
		rows[i] = []string{r.Name, r.Kind.String(), r.Target.Short(terminal.ShortIDLength)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Ref", "Kind", "Commit").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case col == 2:
				return base.Foreground(colorCyan)
			case refs[row].Kind == source.KindHead:
				return base.Foreground(colorYellow).Bold(true)
			case refs[row].Kind == source.KindTag:
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorWhite)
		}).
		String()
}

// shortID abbreviates a commit id the way diagram labels do.
func shortID(id dag.ID) string { return id.Short(terminal.ShortIDLength) }
