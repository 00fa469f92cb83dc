package layout

import (
	"math"

	"github.com/matzehuels/provgraph/pkg/lineage"
)

// Default spacing constants, in pixels.
const (
	DefaultGrid          = 80
	DefaultColumnSpacing = 320
	DefaultRowSpacing    = 2 * DefaultGrid
	DefaultBaseRow       = 4 * DefaultGrid
)

// Options controls grid size and spacing.
type Options struct {
	Grid          float64 `json:"grid"`
	ColumnSpacing float64 `json:"column_spacing"`
	RowSpacing    float64 `json:"row_spacing"`
	BaseRow       float64 `json:"base_row"`
}

// DefaultOptions returns the standard 80px grid layout.
func DefaultOptions() Options {
	return Options{
		Grid:          DefaultGrid,
		ColumnSpacing: DefaultColumnSpacing,
		RowSpacing:    DefaultRowSpacing,
		BaseRow:       DefaultBaseRow,
	}
}

// WithDefaults replaces non-positive or non-finite spacing with defaults.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if !positive(o.Grid) {
		o.Grid = d.Grid
	}
	if !positive(o.ColumnSpacing) {
		o.ColumnSpacing = d.ColumnSpacing
	}
	if !positive(o.RowSpacing) {
		o.RowSpacing = d.RowSpacing
	}
	if math.IsNaN(o.BaseRow) || math.IsInf(o.BaseRow, 0) {
		o.BaseRow = d.BaseRow
	}
	return o
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

// Snap rounds v to the nearest multiple of grid, halves away from zero.
// A non-positive grid returns v unchanged.
func Snap(v, grid float64) float64 {
	if grid <= 0 || math.IsNaN(v) {
		return v
	}
	// adding zero folds -0 into 0
	return math.Round(v/grid)*grid + 0
}

// SnapPosition snaps both coordinates of p.
func SnapPosition(p lineage.Position, grid float64) lineage.Position {
	return lineage.Position{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// Overrides holds manually dragged positions by node id.
type Overrides map[string]lineage.Position
