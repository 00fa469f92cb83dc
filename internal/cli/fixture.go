package cli

import (
	"github.com/spf13/cobra"

	pgio "github.com/matzehuels/provgraph/pkg/io"
	"github.com/matzehuels/provgraph/pkg/lineage/fixture"
)

// fixtureCommand creates the fixture command that exports the demo graph.
func (c *CLI) fixtureCommand() *cobra.Command {
	var (
		output string
		toml   bool
	)

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Write the demo provenance graph",
		Long: `Write the demo provenance graph used when no --graph is given.

The graph has 3 data sources, 5 feature groups, 1 feature view, 50 training
datasets, 75 models and 3 deployments. It is deterministic, so the file is a
convenient starting point for a hand-edited graph.

The format follows the --output extension (.json or .toml). Without
--output the graph is written to stdout as JSON, or TOML with --toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := fixture.Provenance()
			if output == "" {
				if toml {
					return pgio.WriteTOML(g, c.Out)
				}
				return pgio.WriteJSON(g, c.Out)
			}
			if err := pgio.Export(g, output); err != nil {
				return err
			}
			printSuccess(c.Out, "Wrote %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			printFile(c.Out, output)
			printNextStep(c.Out, "Explore it", "provgraph explore --graph "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or .toml)")
	cmd.Flags().BoolVar(&toml, "toml", false, "write TOML to stdout")

	return cmd
}
