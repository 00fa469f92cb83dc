package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// exploreCommand creates the explore command running the terminal UI.
func (c *CLI) exploreCommand() *cobra.Command {
	var vf viewFlags

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore the provenance graph in the terminal",
		Long: `Explore the provenance graph in the terminal.

Keys:
  1-6          toggle a tier (sources ... deployments)
  e / E        expand / collapse every tier
  ↑/↓, j/k     move the cursor
  enter        trace the node under the cursor (again to clear)
  space, i     show node details
  /            edit the name filter
  t            cycle the type filter
  c            clear trace and filters
  shift+arrow  nudge the node under the cursor
  r            reset nudged positions
  q            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.pipelineOptions()
			vf.apply(&opts)
			ctrl, err := c.buildController(ctx, opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewExploreModel(ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("run explorer: %w", err)
			}
			if m, ok := final.(ExploreModel); ok {
				snap := m.Snapshot()
				loggerFromContext(ctx).Debug("explorer closed", "visible", snap.Visible, "selection", snap.Selection)
			}
			return nil
		},
	}

	vf.register(cmd)
	addLayoutFlags(cmd)

	return cmd
}
