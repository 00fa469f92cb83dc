package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/provgraph/pkg/pipeline"
)

// defaultOutputBase names rendered files when no --output is given.
const defaultOutputBase = "provenance"

// viewFlags narrow the computed view before output.
type viewFlags struct {
	selectID   string
	filterName string
	filterType string
}

func (v *viewFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&v.selectID, "select", "s", "", "trace connectivity from this node id")
	f.StringVar(&v.filterName, "filter", "", "show nodes whose label or id contains this text")
	f.StringVarP(&v.filterType, "filter-type", "t", "", "show nodes of this type (source, featureGroup, ...)")
}

func (v viewFlags) apply(opts *pipeline.Options) {
	opts.Select = v.selectID
	opts.FilterName = v.filterName
	opts.FilterType = v.filterType
}

// renderOpts holds the flags of the render command.
type renderOpts struct {
	view     viewFlags
	output   string
	formats  string
	detailed bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a view of the provenance graph",
		Long: `Render a view of the provenance graph to files.

The view starts with the configured tiers collapsed (training datasets and
models by default). --select traces the lineage of one node; --filter and
--filter-type narrow the view instead.

Formats: dot, svg, png and json (the computed snapshot). SVG and PNG are
rendered with Graphviz and cached by content.

Examples:
  provgraph render                              # provenance.svg
  provgraph render -f svg,png -o out/lineage    # out/lineage.svg, out/lineage.png
  provgraph render --select model-42 --detailed
  provgraph render --collapse "" -f dot         # everything expanded`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), ro)
		},
	}

	ro.view.register(cmd)
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file or base name (default: provenance.<format>)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output formats: dot, svg, png, json (comma-separated)")
	cmd.Flags().BoolVar(&ro.detailed, "detailed", false, "include node metadata in labels")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "re-render and overwrite cached artifacts")
	addLayoutFlags(cmd)
	addCacheFlags(cmd)

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, ro renderOpts) error {
	logger := loggerFromContext(ctx)

	opts := c.pipelineOptions()
	ro.view.apply(&opts)
	opts.Formats = parseFormats(ro.formats)
	opts.Detailed = ro.detailed
	opts.Refresh = ro.refresh
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinner(ctx, c.Err, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spin.Start()
	result, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	paths := outputPaths(ro.output, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done("Rendered view")

	snap := result.Snapshot
	printSuccess(c.Out, "Rendered %d formats", len(opts.Formats))
	for _, format := range opts.Formats {
		printFile(c.Out, paths[format])
	}
	printStats(c.Out, snap.Visible, result.Stats.NodeCount, len(snap.Edges), result.CacheInfo.RenderHit)
	logger.Debug("pipeline stats", "stats", result.Stats.String())
	return nil
}

// outputPaths maps each format to its file. A single format with an
// explicit extension writes exactly to base; otherwise the extension is
// replaced per format.
func outputPaths(base string, formats []string) map[string]string {
	if base == "" {
		base = defaultOutputBase
	}
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && filepath.Ext(base) != "" {
		paths[formats[0]] = base
		return paths
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = stem + "." + f
	}
	return paths
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
