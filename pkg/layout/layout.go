package layout

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/lineage/transform"
)

// Highlight and edge styling constants.
const (
	FadedNodeOpacity = 0.6
	FadedEdgeOpacity = 0.4
	HighlightZIndex  = 10
	EdgeZIndex       = 1000
)

// PositionedNode is a visible node with its resolved position and style.
type PositionedNode struct {
	Node        lineage.Node     `json:"node"`
	Position    lineage.Position `json:"position"`
	Column      int              `json:"column"`
	Depth       int              `json:"depth"`
	Overridden  bool             `json:"overridden,omitempty"`
	Highlighted bool             `json:"highlighted,omitempty"`
	Opacity     float64          `json:"opacity"`
	ZIndex      int              `json:"zIndex"`
}

// StyledEdge is a visible edge with rendering attributes resolved.
type StyledEdge struct {
	Edge          lineage.Edge `json:"edge"`
	Aggregated    bool         `json:"aggregated,omitempty"`
	Label         string       `json:"label,omitempty"`
	Opacity       float64      `json:"opacity"`
	StrokeOpacity float64      `json:"strokeOpacity"`
	StrokeWidth   float64      `json:"strokeWidth"`
	Curvature     float64      `json:"curvature"`
	ZIndex        int          `json:"zIndex"`
}

// Bounds is the bounding box of node positions.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Result is the positioned graph.
type Result struct {
	Nodes  []PositionedNode `json:"nodes"`
	Edges  []StyledEdge     `json:"edges"`
	Bounds Bounds           `json:"bounds"`
}

// Position returns the position of id.
func (r Result) Position(id string) (lineage.Position, bool) {
	for _, n := range r.Nodes {
		if n.Node.ID == id {
			return n.Position, true
		}
	}
	return lineage.Position{}, false
}

// Compute positions nodes and styles edges. Edges with an endpoint outside
// nodes are dropped. Nodes keep their input order in the result.
func Compute(nodes []lineage.Node, edges []lineage.Edge, opts Options, overrides Overrides, h transform.Highlight) Result {
	if len(nodes) == 0 {
		return Result{}
	}
	opts = opts.WithDefaults()
	lay := newLayouter(nodes, edges, opts)
	computed := lay.place()

	res := Result{Nodes: make([]PositionedNode, len(lay.nodes))}
	for i, n := range lay.nodes {
		pn := PositionedNode{
			Node:     n,
			Position: computed[n.ID],
			Column:   n.Tier().Column(),
			Depth:    lay.depth[n.ID],
			Opacity:  1,
		}
		if p, ok := overrides[n.ID]; ok && finite(p) {
			pn.Position = p
			pn.Overridden = true
		}
		if h.HasNode(n.ID) {
			pn.Highlighted = true
			pn.ZIndex = HighlightZIndex
		} else if h.Active() {
			pn.Opacity = FadedNodeOpacity
		}
		res.Nodes[i] = pn
	}
	res.Edges = styleEdges(lay.edges, lay.byID, h)
	res.Bounds = bounds(res.Nodes)
	return res
}

type layouter struct {
	opts     Options
	nodes    []lineage.Node
	edges    []lineage.Edge
	byID     map[string]lineage.Node
	order    map[string]int
	parents  map[string][]string
	children map[string][]string
	depth    map[string]int
}

func newLayouter(nodes []lineage.Node, edges []lineage.Edge, opts Options) *layouter {
	l := &layouter{
		opts:     opts,
		byID:     make(map[string]lineage.Node, len(nodes)),
		order:    make(map[string]int, len(nodes)),
		parents:  make(map[string][]string),
		children: make(map[string][]string),
		depth:    make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := l.byID[n.ID]; dup {
			continue
		}
		l.order[n.ID] = len(l.nodes)
		l.byID[n.ID] = n
		l.nodes = append(l.nodes, n)
	}
	for _, e := range edges {
		if _, ok := l.byID[e.Source]; !ok {
			continue
		}
		if _, ok := l.byID[e.Target]; !ok {
			continue
		}
		l.edges = append(l.edges, e)
		if e.Source == e.Target || slices.Contains(l.parents[e.Target], e.Source) {
			continue
		}
		l.parents[e.Target] = append(l.parents[e.Target], e.Source)
		l.children[e.Source] = append(l.children[e.Source], e.Target)
	}
	l.computeDepths()
	return l
}

// computeDepths assigns the longest distance from a root to every node. A
// parent that is still on the DFS stack is ignored, so cycles terminate.
func (l *layouter) computeDepths() {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(l.nodes))
	var visit func(id string) int
	visit = func(id string) int {
		switch state[id] {
		case done:
			return l.depth[id]
		case visiting:
			return -1
		}
		state[id] = visiting
		d := 0
		for _, p := range l.parents[id] {
			if pd := visit(p); pd >= 0 {
				d = max(d, pd+1)
			}
		}
		state[id] = done
		l.depth[id] = d
		return d
	}
	for _, n := range l.nodes {
		visit(n.ID)
	}
}

// place computes a snapped position for every node.
//
// Sibling groups fan out around their own parent centroid without regard to
// other groups, so nodes from different groups may share a position. This
// keeps each node's position a function of its own parents only; users
// separate overlaps by dragging.
func (l *layouter) place() map[string]lineage.Position {
	o := l.opts
	pos := make(map[string]lineage.Position, len(l.nodes))

	ordered := slices.Clone(l.nodes)
	slices.SortStableFunc(ordered, func(a, b lineage.Node) int {
		return cmp.Compare(l.depth[a.ID], l.depth[b.ID])
	})

	siblings := make(map[string][]string)
	roots := make(map[lineage.NodeType][]string)
	for _, n := range l.nodes {
		if n.IsCollapsed() {
			continue
		}
		if ps := l.parents[n.ID]; len(ps) > 0 {
			key := signature(ps)
			siblings[key] = append(siblings[key], n.ID)
		} else {
			roots[n.Tier()] = append(roots[n.Tier()], n.ID)
		}
	}

	for _, n := range ordered {
		x := float64(n.Tier().Column()) * o.ColumnSpacing
		var y float64
		switch ps := l.parents[n.ID]; {
		case n.IsCollapsed():
			y = o.BaseRow
		case len(ps) == 0:
			group := roots[n.Tier()]
			y = o.BaseRow + fan(slices.Index(group, n.ID), len(group))*o.RowSpacing
		default:
			var sum float64
			var placed int
			for _, p := range ps {
				if pp, ok := pos[p]; ok {
					sum += pp.Y
					placed++
				}
			}
			if placed == 0 {
				y = float64(idSuffix(n.ID)) * o.RowSpacing
				break
			}
			group := siblings[signature(ps)]
			y = sum/float64(placed) + fan(slices.Index(group, n.ID), len(group))*o.RowSpacing
		}
		pos[n.ID] = lineage.Position{X: Snap(x, o.Grid), Y: Snap(y, o.Grid)}
	}
	return pos
}

// fan returns the offset of rank within a group of n, centered on zero.
func fan(rank, n int) float64 {
	if rank < 0 || n <= 1 {
		return 0
	}
	return float64(rank) - float64(n-1)/2
}

func signature(parents []string) string {
	s := slices.Clone(parents)
	slices.Sort(s)
	return strings.Join(s, "\x00")
}

// idSuffix parses the trailing "-<n>" of an id, or returns 0.
func idSuffix(id string) int {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return 0
	}
	v, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0
	}
	return v
}

func finite(p lineage.Position) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func bounds(nodes []PositionedNode) Bounds {
	if len(nodes) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, n := range nodes {
		b.MinX = min(b.MinX, n.Position.X)
		b.MinY = min(b.MinY, n.Position.Y)
		b.MaxX = max(b.MaxX, n.Position.X)
		b.MaxY = max(b.MaxY, n.Position.Y)
	}
	return b
}
