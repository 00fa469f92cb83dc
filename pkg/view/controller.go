package view

import (
	"math"
	"strings"
	"time"

	"github.com/matzehuels/provgraph/pkg/layout"
	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/lineage/transform"
	"github.com/matzehuels/provgraph/pkg/observability"
)

// Controller owns a [ViewState] over an immutable graph.
type Controller struct {
	graph  *lineage.Graph
	cfg    Config
	groups []lineage.GroupInfo
	state  ViewState
	snap   Snapshot
}

// New returns a controller with cfg.Collapsed applied. Every tier present in
// g gets an entry in the collapse map. Unset layout spacing takes the
// defaults, and the resulting grid is used for both computed and dropped
// positions.
func New(g *lineage.Graph, cfg Config) *Controller {
	if g == nil {
		g = lineage.NewGraph(nil, nil)
	}
	cfg.Layout = cfg.Layout.WithDefaults()
	c := &Controller{
		graph:  g,
		cfg:    cfg,
		groups: g.Groups(),
		state: ViewState{
			Collapse:  transform.NewCollapseMap(),
			Overrides: layout.Overrides{},
		},
	}
	for _, gi := range c.groups {
		c.state.Collapse[string(gi.Group)] = false
	}
	c.state.Collapse.CollapseAll(cfg.Collapsed)
	c.recompute()
	return c
}

// Graph returns the underlying graph.
func (c *Controller) Graph() *lineage.Graph { return c.graph }

// State returns a copy of the current state.
func (c *Controller) State() ViewState { return c.state.Clone() }

// Snapshot returns the last computed view.
func (c *Controller) Snapshot() Snapshot { return c.snap }

// ToggleGroup flips the collapse state of group. Groups without members are
// ignored.
func (c *Controller) ToggleGroup(group string) Snapshot {
	if !c.hasGroup(group) {
		return c.snap
	}
	c.state.Collapse.Toggle(group)
	return c.recompute()
}

// ExpandAll expands every tier.
func (c *Controller) ExpandAll() Snapshot {
	c.state.Collapse.ExpandAll()
	return c.recompute()
}

// CollapseAll collapses every tier present in the graph.
func (c *Controller) CollapseAll() Snapshot {
	for _, gi := range c.groups {
		c.state.Collapse[string(gi.Group)] = true
	}
	return c.recompute()
}

// SelectNode traces the connectivity of id. Selecting the current selection
// or an empty id clears it; an id not in the graph is ignored. Tracing
// expands every tier first.
func (c *Controller) SelectNode(id string) Snapshot {
	switch {
	case id == "" || id == c.state.Selection:
		c.state.Selection = ""
	case !c.graph.HasNode(id):
		return c.snap
	default:
		c.state.Collapse.ExpandAll()
		c.state.Selection = id
	}
	return c.recompute()
}

// ClearSelection drops the trace and keeps the filter.
func (c *Controller) ClearSelection() Snapshot {
	c.state.Selection = ""
	return c.recompute()
}

// SetFilter replaces the filter. A non-empty filter clears the selection.
func (c *Controller) SetFilter(name string, t lineage.NodeType) Snapshot {
	c.state.Filter = transform.Criteria{Name: strings.TrimSpace(name), Type: t}
	if c.state.Filter.Active() {
		c.state.Selection = ""
	}
	return c.recompute()
}

// ClearAll resets selection and filter together.
func (c *Controller) ClearAll() Snapshot {
	c.state.Selection = ""
	c.state.Filter = transform.Criteria{}
	return c.recompute()
}

// DragNode stores pos as the override for a visible node. A final drop is
// snapped to the grid. Unknown ids and non-finite positions are ignored.
func (c *Controller) DragNode(id string, pos lineage.Position, final bool) Snapshot {
	if _, ok := c.snap.Node(id); !ok {
		return c.snap
	}
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) {
		return c.snap
	}
	if final {
		pos = layout.SnapPosition(pos, c.cfg.Layout.Grid)
	}
	c.state.Overrides[id] = pos
	return c.recompute()
}

// ResetPositions drops every override.
func (c *Controller) ResetPositions() Snapshot {
	clear(c.state.Overrides)
	return c.recompute()
}

// ClickNode passes the visible node id to the configured click callback. It
// reports whether the node was visible. State is not changed.
func (c *Controller) ClickNode(id string) (lineage.Node, bool) {
	pn, ok := c.snap.Node(id)
	if !ok {
		return lineage.Node{}, false
	}
	if c.cfg.OnNodeClick != nil {
		c.cfg.OnNodeClick(pn.Node)
	}
	return pn.Node, true
}

func (c *Controller) hasGroup(group string) bool {
	for _, gi := range c.groups {
		if string(gi.Group) == group {
			return true
		}
	}
	return false
}

// recompute runs collapse, trace, restrict, filter and layout, in that
// order, and stores the resulting snapshot.
func (c *Controller) recompute() Snapshot {
	hooks := observability.Pipeline()

	start := time.Now()
	collapsed, stats := transform.Collapse(c.graph.Nodes(), c.graph.Edges(), c.state.Collapse)
	hooks.OnCollapse(len(c.state.Collapse.Keys()), len(collapsed.Nodes), stats.Aggregates, time.Since(start))

	c.state.Highlight = transform.Highlight{}
	if traceFrom := c.traceStart(); traceFrom != "" {
		start = time.Now()
		c.state.Highlight = transform.Trace(traceFrom, collapsed.Edges)
		hooks.OnTrace(traceFrom, len(c.state.Highlight.Nodes), len(c.state.Highlight.Edges), time.Since(start))
	}

	visible := transform.Restrict(collapsed.Nodes, collapsed.Edges, c.state.Highlight)
	if c.state.Filter.Active() {
		visible = transform.Filter(visible.Nodes, visible.Edges, c.state.Filter)
	}

	start = time.Now()
	res := layout.Compute(visible.Nodes, visible.Edges, c.cfg.Layout, c.state.Overrides, c.state.Highlight)
	hooks.OnLayout(len(res.Nodes), len(res.Edges), time.Since(start))

	c.snap = Snapshot{
		Nodes:            res.Nodes,
		Edges:            res.Edges,
		Bounds:           res.Bounds,
		Visible:          len(res.Nodes),
		Total:            len(collapsed.Nodes),
		Selection:        c.state.Selection,
		HighlightedNodes: c.state.Highlight.NodeIDs(),
		HighlightedEdges: c.state.Highlight.EdgeIDs(),
		Filter:           c.state.Filter,
		FilteringActive:  c.state.FilteringActive(),
		Groups:           c.groupStates(),
		Stats:            stats,
		Viewport:         c.cfg.Viewport,
	}
	return c.snap
}

// traceStart returns the id to trace from. A selection hidden by a later
// collapse is traced from its aggregate.
func (c *Controller) traceStart() string {
	id := c.state.Selection
	if id == "" {
		return ""
	}
	if n, ok := c.graph.Node(id); ok && c.state.Collapse.Collapsed(n.Group) {
		return lineage.CollapsedID(n.Group)
	}
	return id
}

func (c *Controller) groupStates() []GroupState {
	out := make([]GroupState, len(c.groups))
	for i, gi := range c.groups {
		out[i] = GroupState{
			Group:     gi.Group,
			Label:     gi.Label,
			Count:     gi.Count,
			Collapsed: c.state.Collapse.Collapsed(string(gi.Group)),
		}
	}
	return out
}
