package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/pipeline"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report structural problems in a graph file",
		Long: `Report structural problems in a graph file.

Lists the groups of the graph and every issue found: empty or duplicate
ids, edges pointing at unknown nodes, unknown node types and cycles. The
viewer tolerates all of these by dropping what it cannot place; --strict
turns any issue into a non-zero exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.settings().Graph
			runner := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context()))
			g, err := runner.Load(path)
			if err != nil {
				return err
			}
			if path == "" {
				path = "demo graph"
			}

			issues := g.Validate()
			cycles := g.CyclicComponents()

			printKeyValue(c.Out, "Graph", path)
			printKeyValue(c.Out, "Nodes", strconv.Itoa(g.NodeCount()))
			printKeyValue(c.Out, "Edges", strconv.Itoa(g.EdgeCount()))
			fmt.Fprintln(c.Out, groupTable(g.Groups()).Render())

			for _, issue := range issues {
				printWarning(c.Out, "%s", issue)
			}
			for _, cycle := range cycles {
				printWarning(c.Out, "cycle: %s", strings.Join(cycle, " → "))
			}

			problems := len(issues) + len(cycles)
			if problems == 0 {
				printSuccess(c.Out, "No issues found")
				return nil
			}
			if strict {
				return perrors.New(perrors.ErrCodeInvalidGraph, "%d issues found", problems)
			}
			printInfo(c.Out, "%d issues found", problems)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when issues are found")

	return cmd
}

func groupTable(groups []lineage.GroupInfo) *table.Table {
	rows := make([][]string, 0, len(groups))
	for _, grp := range groups {
		rows = append(rows, []string{grp.Label, string(grp.Group), strconv.Itoa(grp.Count)})
	}
	return newTable([]string{"Group", "Type", "Nodes"}, rows, func(row, col int) lipgloss.Style {
		if col == 0 && row < len(groups) {
			return tierStyle(groups[row].Group)
		}
		return lipgloss.NewStyle()
	})
}
