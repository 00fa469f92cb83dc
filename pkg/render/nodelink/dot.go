package nodelink

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/provgraph/pkg/layout"
	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/view"
)

// Options configures diagram generation.
type Options struct {
	// Detailed includes metadata rows in node labels.
	// When false, only the display label is shown.
	Detailed bool
}

const (
	edgeColor      = "#57606a"
	highlightColor = "#0969da"
	textColor      = "#24292f"
	collapsedFill  = "#f6f8fa"
)

var tierColors = map[lineage.NodeType]string{
	lineage.TypeSource:          "#0969da",
	lineage.TypeFeatureGroup:    "#1a7f37",
	lineage.TypeFeatureView:     "#9a6700",
	lineage.TypeTrainingDataset: "#cf222e",
	lineage.TypeModel:           "#6639ba",
	lineage.TypeDeployment:      "#bf3989",
}

// TierColor returns the accent color of a node type. Aggregates and unknown
// types are grey.
func TierColor(t lineage.NodeType) string {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return "#d0d7de"
}

// ToDOT converts a snapshot to Graphviz DOT. Positions are pinned in points
// with the y axis flipped, since Graphviz grows y upward.
func ToDOT(s view.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph provenance {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=dot, arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Node.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Edge.Source, e.Edge.Target, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n lineage.Node, detailed bool) string {
	label := n.DisplayLabel()
	if n.IsCollapsed() {
		return fmt.Sprintf("%s\n%d items", label, n.Count)
	}
	if !detailed {
		return label
	}
	parts := []string{label}
	for _, f := range n.Fields() {
		parts = append(parts, f.Label+": "+f.Value)
	}
	return strings.Join(parts, "\n")
}

func nodeAttrs(n layout.PositionedNode, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n.Node, detailed)),
		fmt.Sprintf("pos=%q", fmtPos(n.Position)),
		fmt.Sprintf("color=%q", fade(TierColor(n.Node.Type), n.Opacity)),
		fmt.Sprintf("fontcolor=%q", fade(textColor, n.Opacity)),
	}
	if n.Node.IsCollapsed() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", fmt.Sprintf("fillcolor=%q", collapsedFill))
	}
	if n.Highlighted {
		attrs = append(attrs, "penwidth=3")
	} else {
		attrs = append(attrs, "penwidth=1.5")
	}
	return attrs
}

func edgeAttrs(e layout.StyledEdge) []string {
	color := edgeColor
	if e.Edge.Data.IsHighlighted {
		color = highlightColor
	}
	attrs := []string{
		fmt.Sprintf("color=%q", fade(color, e.Opacity*e.StrokeOpacity)),
		"penwidth=" + fmtNum(e.StrokeWidth),
	}
	if e.Aggregated || e.Edge.Data.IsDerived {
		attrs = append(attrs, "style=dashed")
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label), "fontsize=10", fmt.Sprintf("fontcolor=%q", edgeColor))
	}
	return attrs
}

// fmtPos renders a pinned neato position.
func fmtPos(p lineage.Position) string {
	return fmtNum(p.X) + "," + fmtNum(-p.Y+0) + "!"
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fade appends an alpha channel to a #rrggbb color for opacities below one.
func fade(color string, opacity float64) string {
	if opacity >= 1 || len(color) != 7 {
		return color
	}
	return color + fmt.Sprintf("%02x", int(math.Round(max(opacity, 0)*255)))
}
