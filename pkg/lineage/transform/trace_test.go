package transform

import (
	"reflect"
	"testing"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/lineage/fixture"
)

func TestTrace_Model42(t *testing.T) {
	_, edges := fixture.Data()
	h := Trace("model-42", edges)

	for _, id := range []string{"model-42", "td-42", "fv-1", "fg-1", "fg-4", "fg-2", "source-1", "source-2", "deploy-1"} {
		if !h.HasNode(id) {
			t.Errorf("trace from model-42 should include %s", id)
		}
	}
	for _, id := range []string{"td-41", "fg-3", "fg-5", "source-3", "deploy-2", "model-43"} {
		if h.HasNode(id) {
			t.Errorf("trace from model-42 should not include %s", id)
		}
	}
	for _, id := range []string{"e-td42-model42", "e-model42-deploy1", "e-fg2-fg4"} {
		if !h.HasEdge(id) {
			t.Errorf("trace from model-42 should include edge %s", id)
		}
	}
	if h.HasEdge("e-fv1-td41") {
		t.Error("sibling edge e-fv1-td41 should not be highlighted")
	}
}

func TestTrace_Empty(t *testing.T) {
	_, edges := fixture.Data()
	h := Trace("", edges)
	if h.Active() || len(h.Edges) != 0 {
		t.Errorf("Trace(\"\") = %v, want inactive", h)
	}
}

func TestTrace_UnknownStart(t *testing.T) {
	h := Trace("ghost", []lineage.Edge{e("a", "b")})
	if got := h.NodeIDs(); !reflect.DeepEqual(got, []string{"ghost"}) {
		t.Errorf("NodeIDs() = %v, want [ghost]", got)
	}
}

func TestTrace_Symmetry(t *testing.T) {
	_, edges := fixture.Data()
	for _, edge := range edges {
		if !Downstream(edge.Source, edges).HasNode(edge.Target) {
			t.Errorf("Downstream(%s) missing %s", edge.Source, edge.Target)
		}
		if !Upstream(edge.Target, edges).HasNode(edge.Source) {
			t.Errorf("Upstream(%s) missing %s", edge.Target, edge.Source)
		}
	}
}

func TestTrace_CycleTerminates(t *testing.T) {
	edges := []lineage.Edge{e("a", "b"), e("b", "c"), e("c", "a"), e("x", "y")}
	h := Trace("b", edges)

	if got := h.NodeIDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("NodeIDs() = %v, want [a b c]", got)
	}
	if got := h.EdgeIDs(); !reflect.DeepEqual(got, []string{"a->b", "b->c", "c->a"}) {
		t.Errorf("EdgeIDs() = %v", got)
	}
}

func TestTrace_ParallelEdges(t *testing.T) {
	edges := []lineage.Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "a", Target: "b"},
	}
	h := Trace("a", edges)
	if !h.HasEdge("e1") || !h.HasEdge("e2") {
		t.Errorf("EdgeIDs() = %v, want both parallel edges", h.EdgeIDs())
	}
}

func TestTrace_Directions(t *testing.T) {
	edges := []lineage.Edge{e("a", "b"), e("b", "c"), e("d", "b")}

	if got := Upstream("b", edges).NodeIDs(); !reflect.DeepEqual(got, []string{"a", "b", "d"}) {
		t.Errorf("Upstream(b) = %v", got)
	}
	if got := Downstream("b", edges).NodeIDs(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Downstream(b) = %v", got)
	}
}
