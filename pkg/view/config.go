package view

import (
	"github.com/matzehuels/provgraph/pkg/layout"
	"github.com/matzehuels/provgraph/pkg/lineage"
)

// Viewport carries presentation bounds for adapters that zoom and pan.
type Viewport struct {
	MinZoom    float64 `json:"minZoom"`
	MaxZoom    float64 `json:"maxZoom"`
	PanButtons []int   `json:"panButtons"`
}

// Config configures a [Controller].
type Config struct {
	// Collapsed lists the tiers collapsed initially.
	Collapsed []string

	Layout   layout.Options
	Viewport Viewport

	// OnNodeClick receives the full record of a clicked visible node.
	OnNodeClick func(lineage.Node)
}

// DefaultCollapsed is the initial collapse set: the two widest tiers.
var DefaultCollapsed = []string{string(lineage.TypeTrainingDataset), string(lineage.TypeModel)}

// DefaultConfig returns the standard viewer configuration.
func DefaultConfig() Config {
	return Config{
		Collapsed: DefaultCollapsed,
		Layout:    layout.DefaultOptions(),
		Viewport: Viewport{
			MinZoom:    0.5,
			MaxZoom:    2.0,
			PanButtons: []int{1, 2},
		},
	}
}
