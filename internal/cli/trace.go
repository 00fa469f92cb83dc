package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/lineage/transform"
	"github.com/matzehuels/provgraph/pkg/pipeline"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// maxTraceIDs caps the ids listed per tier unless --all is given.
const maxTraceIDs = 6

// traceCommand creates the trace command listing a node's lineage.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		direction string
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "trace <node-id>",
		Short: "List the upstream and downstream lineage of a node",
		Long: `List the upstream and downstream lineage of a node.

The trace runs over the full graph, ignoring collapsed tiers. Upstream
nodes are those the node derives from; downstream nodes derive from it.

Examples:
  provgraph trace model-42
  provgraph trace source-1 --direction down --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := perrors.ValidateNodeID(id); err != nil {
				return err
			}
			walk, err := traceFunc(direction)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context()))
			g, err := runner.Load(c.settings().Graph)
			if err != nil {
				return err
			}
			n, ok := g.Node(id)
			if !ok {
				return perrors.New(perrors.ErrCodeNotFound, "node %q not found", id)
			}

			h := walk(id, g.Edges())
			writeTrace(c.Out, g, n, h, all)
			return nil
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "both", "trace direction: up, down or both")
	cmd.Flags().BoolVar(&all, "all", false, "list every node id instead of a sample per tier")

	return cmd
}

func traceFunc(direction string) (func(string, []lineage.Edge) transform.Highlight, error) {
	switch strings.ToLower(direction) {
	case "up", "upstream":
		return transform.Upstream, nil
	case "down", "downstream":
		return transform.Downstream, nil
	case "both", "":
		return transform.Trace, nil
	}
	return nil, perrors.New(perrors.ErrCodeInvalidInput, "invalid direction %q (want up, down or both)", direction)
}

// writeTrace prints the traced nodes grouped by tier, in column order.
func writeTrace(w io.Writer, g *lineage.Graph, start lineage.Node, h transform.Highlight, all bool) {
	byTier := make(map[lineage.NodeType][]string)
	for _, id := range h.NodeIDs() {
		if id == start.ID {
			continue
		}
		if n, ok := g.Node(id); ok {
			byTier[n.Tier()] = append(byTier[n.Tier()], id)
		}
	}

	fmt.Fprintln(w, StyleTitle.Render(start.DisplayLabel())+" "+StyleDim.Render("("+start.ID+", "+start.Type.Label()+")"))

	var (
		rows  [][]string
		tiers []lineage.NodeType
	)
	for _, t := range lineage.Tiers {
		ids := byTier[t]
		if len(ids) == 0 {
			continue
		}
		tiers = append(tiers, t)
		rows = append(rows, []string{t.Label(), strconv.Itoa(len(ids)), sampleIDs(ids, all)})
	}
	if len(rows) == 0 {
		printInfo(w, "No connected nodes")
		return
	}

	tbl := newTable([]string{"Tier", "Count", "Nodes"}, rows, func(row, col int) lipgloss.Style {
		if col == 0 && row < len(tiers) {
			return tierStyle(tiers[row])
		}
		return lipgloss.NewStyle()
	})
	fmt.Fprintln(w, tbl.Render())
	printDetail(w, "%d nodes, %d edges in lineage", len(h.Nodes)-1, len(h.Edges))
}

func sampleIDs(ids []string, all bool) string {
	if all || len(ids) <= maxTraceIDs {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:maxTraceIDs], ", ") + fmt.Sprintf(", … (+%d)", len(ids)-maxTraceIDs)
}
