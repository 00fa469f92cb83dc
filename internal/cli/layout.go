package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pgio "github.com/matzehuels/provgraph/pkg/io"
	"github.com/matzehuels/provgraph/pkg/pipeline"
	"github.com/matzehuels/provgraph/pkg/view"
)

// layoutCommand creates the layout command for inspecting node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		vf     viewFlags
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the computed layout of a view",
		Long: `Print the computed layout of a view.

Without flags a table of visible nodes with their column, depth and
position is printed. --json writes the full view snapshot instead (nodes,
styled edges, bounds, group states), to stdout or to --output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			vf.apply(&opts)
			snap, err := c.buildSnapshot(cmd.Context(), opts)
			if err != nil {
				return err
			}
			switch {
			case output != "":
				if err := pgio.ExportSnapshot(snap, output); err != nil {
					return err
				}
				printSuccess(c.Out, "Layout written")
				printFile(c.Out, output)
				return nil
			case asJSON:
				return pgio.WriteSnapshot(snap, c.Out)
			}
			fmt.Fprintln(c.Out, layoutTable(snap).Render())
			printDetail(c.Out, "Showing %d of %d nodes (%d%%)", snap.Visible, snap.Total, snap.Percent())
			return nil
		},
	}

	vf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the snapshot JSON to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the snapshot JSON to stdout")
	addLayoutFlags(cmd)

	return cmd
}

// buildSnapshot loads the graph and computes the view described by opts.
func (c *CLI) buildSnapshot(ctx context.Context, opts pipeline.Options) (view.Snapshot, error) {
	ctrl, err := c.buildController(ctx, opts)
	if err != nil {
		return view.Snapshot{}, err
	}
	return ctrl.Snapshot(), nil
}

// buildController loads the graph and returns a controller with the
// selection or filter of opts applied.
func (c *CLI) buildController(ctx context.Context, opts pipeline.Options) (*view.Controller, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
	g, err := runner.Load(opts.Graph)
	if err != nil {
		return nil, err
	}
	return runner.BuildView(g, opts)
}

func layoutTable(snap view.Snapshot) *table.Table {
	rows := make([][]string, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		mark := ""
		switch {
		case n.Overridden:
			mark = "pinned"
		case n.Highlighted:
			mark = "traced"
		}
		rows = append(rows, []string{
			n.Node.ID,
			n.Node.DisplayLabel(),
			string(n.Node.Type),
			strconv.Itoa(n.Column),
			strconv.Itoa(n.Depth),
			strconv.FormatFloat(n.Position.X, 'f', -1, 64),
			strconv.FormatFloat(n.Position.Y, 'f', -1, 64),
			mark,
		})
	}
	return newTable(
		[]string{"ID", "Label", "Type", "Col", "Depth", "X", "Y", ""},
		rows,
		func(row, col int) lipgloss.Style {
			if col == 2 && row < len(snap.Nodes) {
				return tierStyle(snap.Nodes[row].Node.Tier())
			}
			return lipgloss.NewStyle()
		},
	)
}
