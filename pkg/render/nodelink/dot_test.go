package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/lineage/fixture"
	"github.com/matzehuels/provgraph/pkg/view"
)

func fixtureSnapshot() view.Snapshot {
	return view.New(fixture.Provenance(), view.DefaultConfig()).Snapshot()
}

func TestToDOT_Default(t *testing.T) {
	dot := ToDOT(fixtureSnapshot(), Options{})

	for _, want := range []string{
		"digraph provenance {",
		"layout=neato;",
		`"source-1" [label="Customer Database", pos="0,-160!"`,
		`"collapsed-model" [label="Models Group\n75 items", pos="1280,-320!"`,
		`style="rounded,filled,dashed"`,
		`"fv-1" -> "collapsed-trainingDataset" [`,
		`label="50 connections"`,
		`label="75 connections"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s", want)
		}
	}
	if got := strings.Count(dot, " -> "); got != 14 {
		t.Errorf("edge count = %d, want 14", got)
	}
	if strings.Contains(dot, "Type: MySQL") {
		t.Error("plain labels should not include metadata")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(fixtureSnapshot(), Options{Detailed: true})
	if !strings.Contains(dot, `Customer Database\nType: MySQL\nConnector: JDBC`) {
		t.Errorf("detailed label missing metadata rows:\n%s", dot)
	}
}

func TestToDOT_Trace(t *testing.T) {
	c := view.New(fixture.Provenance(), view.DefaultConfig())
	dot := ToDOT(c.SelectNode("model-42"), Options{})

	if got := strings.Count(dot, "penwidth=3"); got != 9 {
		t.Errorf("highlighted nodes = %d, want 9", got)
	}
	if got := strings.Count(dot, `color="#0969da", penwidth=1.5`); got != 9 {
		t.Errorf("highlighted edges = %d, want 9", got)
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(view.Snapshot{}, Options{})
	if strings.Contains(dot, "->") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(empty) = %q", dot)
	}
}

func TestFade(t *testing.T) {
	tests := []struct {
		color   string
		opacity float64
		want    string
	}{
		{"#0969da", 1, "#0969da"},
		{"#0969da", 0.6, "#0969da99"},
		{"#57606a", 0.4, "#57606a66"},
		{"#57606a", 0, "#57606a00"},
		{"grey", 0.5, "grey"},
	}
	for _, tt := range tests {
		if got := fade(tt.color, tt.opacity); got != tt.want {
			t.Errorf("fade(%q, %v) = %q, want %q", tt.color, tt.opacity, got, tt.want)
		}
	}
}

func TestFmtPos(t *testing.T) {
	tests := []struct {
		p    lineage.Position
		want string
	}{
		{lineage.Position{X: 10, Y: 0}, "10,0!"},
		{lineage.Position{X: 320, Y: 160}, "320,-160!"},
		{lineage.Position{X: -1.5, Y: -80}, "-1.5,80!"},
	}
	for _, tt := range tests {
		if got := fmtPos(tt.p); got != tt.want {
			t.Errorf("fmtPos(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestTierColor(t *testing.T) {
	if got := TierColor(lineage.TypeModel); got != "#6639ba" {
		t.Errorf("TierColor(model) = %q", got)
	}
	if got := TierColor(lineage.TypeCollapsedGroup); got != "#d0d7de" {
		t.Errorf("TierColor(collapsedGroup) = %q", got)
	}
}
