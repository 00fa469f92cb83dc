package layout

import (
	"fmt"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/lineage/transform"
)

func styleEdges(edges []lineage.Edge, byID map[string]lineage.Node, h transform.Highlight) []StyledEdge {
	out := make([]StyledEdge, 0, len(edges))
	for _, e := range edges {
		e.Data.IsDerived = e.Data.IsDerived || lineage.IsDerivedEdge(byID[e.Source], byID[e.Target])
		e.Data.IsHighlighted = h.HasEdge(e.ID)
		out = append(out, StyleEdge(e, h.Active()))
	}
	return out
}

// StyleEdge resolves rendering attributes of e. faded reports whether a
// highlight is active elsewhere in the graph; highlighted edges never fade.
func StyleEdge(e lineage.Edge, faded bool) StyledEdge {
	hash := idHash(e.ID)
	s := StyledEdge{
		Edge:          e,
		Aggregated:    e.Aggregated(),
		Opacity:       1,
		StrokeOpacity: 0.5 + float64(hash%20)/100,
		StrokeWidth:   1,
		Curvature:     0.25 + float64(hash%100)/300,
	}
	if e.Data.IsDerived {
		s.Curvature = 0.5 + float64(hash%100)/300
		s.StrokeOpacity += 0.1
	}
	switch {
	case e.Data.IsHighlighted:
		s.StrokeWidth = 1.5
		s.StrokeOpacity = 1
		s.ZIndex = EdgeZIndex
	case faded:
		s.Opacity = FadedEdgeOpacity
	}
	if s.Aggregated {
		s.Label = fmt.Sprintf("%d connections", e.Data.Count)
		if !e.Data.IsHighlighted {
			s.StrokeWidth = min(max(0.75, float64(e.Data.Count)/15), 2)
		}
	}
	return s
}

// idHash sums the bytes of id, giving each edge a stable pseudo-random
// variation.
func idHash(id string) int {
	var h int
	for i := 0; i < len(id); i++ {
		h += int(id[i])
	}
	return h
}
