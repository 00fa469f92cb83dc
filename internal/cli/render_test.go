package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,png,dot", []string{"svg", "png", "dot"}},
		{"spaces and case", " DOT , json ", []string{"dot", "json"}},
		{"empty entries", "dot,,", []string{"dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		formats []string
		want    map[string]string
	}{
		{"default", "", []string{"svg"}, map[string]string{"svg": "provenance.svg"}},
		{"explicit file", "out/graph.svg", []string{"svg"}, map[string]string{"svg": "out/graph.svg"}},
		{"explicit file keeps extension", "graph.txt", []string{"dot"}, map[string]string{"dot": "graph.txt"}},
		{"base name", "lineage", []string{"dot", "json"}, map[string]string{"dot": "lineage.dot", "json": "lineage.json"}},
		{"extension replaced", "lineage.svg", []string{"svg", "png"}, map[string]string{"svg": "lineage.svg", "png": "lineage.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.base, tt.formats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths(%q, %v) = %v, want %v", tt.base, tt.formats, got, tt.want)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := sandbox(t)
	base := filepath.Join(dir, "out", "lineage")

	out, err := run(t, "render", "-f", "dot,json", "-o", base, "--detailed")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "14 of 137 nodes") {
		t.Errorf("render output = %q, want view stats", out)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.HasPrefix(string(dot), "digraph provenance {") {
		t.Errorf("dot output starts with %q", string(dot[:min(len(dot), 30)]))
	}
	if !strings.Contains(string(dot), "Type: MySQL") {
		t.Error("detailed dot output should include metadata")
	}

	snap, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if !strings.Contains(string(snap), `"visible": 14`) {
		t.Error("snapshot json should report 14 visible nodes")
	}
}

func TestRenderCommand_Select(t *testing.T) {
	dir := sandbox(t)
	path := filepath.Join(dir, "trace.dot")

	if _, err := run(t, "render", "-f", "dot", "-o", path, "--select", "deploy-3"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	dot, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.Contains(string(dot), `"deploy-3"`) || strings.Contains(string(dot), `"deploy-1"`) {
		t.Error("traced dot output should contain only the lineage of deploy-3")
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	sandbox(t)

	tests := []struct {
		name string
		args []string
		code perrors.Code
	}{
		{"unsupported format", []string{"render", "-f", "pdf"}, perrors.ErrCodeUnsupported},
		{"unknown node", []string{"render", "-f", "dot", "--select", "nope"}, perrors.ErrCodeNotFound},
		{"bad graph extension", []string{"render", "-f", "dot", "--graph", "graph.yaml"}, perrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !perrors.Is(err, tt.code) {
				t.Errorf("render %v error = %v, want code %s", tt.args[1:], err, tt.code)
			}
		})
	}
}
