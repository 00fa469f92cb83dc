package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/provgraph/pkg/cache"
	pgio "github.com/matzehuels/provgraph/pkg/io"
	"github.com/matzehuels/provgraph/pkg/lineage/fixture"
	"github.com/matzehuels/provgraph/pkg/view"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

// stubRenderer replaces the SVG renderer and counts its calls.
func stubRenderer(t *testing.T) *int {
	t.Helper()
	calls := 0
	orig := renderers[FormatSVG]
	renderers[FormatSVG] = func(_ context.Context, dot string) ([]byte, error) {
		calls++
		return []byte("<svg>" + cache.Hash([]byte(dot))[:8] + "</svg>"), nil
	}
	t.Cleanup(func() { renderers[FormatSVG] = orig })
	return &calls
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.TTL != DefaultTTL {
		t.Errorf("TTL = %v, want %v", opts.TTL, DefaultTTL)
	}

	tests := []struct {
		name string
		opts Options
		code perrors.Code
	}{
		{"bad format", Options{Formats: []string{"gif"}}, perrors.ErrCodeUnsupported},
		{"bad graph ext", Options{Graph: "lineage.yaml"}, perrors.ErrCodeInvalidFormat},
		{"bad type", Options{FilterType: "widget"}, perrors.ErrCodeInvalidNodeType},
		{"select and filter", Options{Select: "model-1", FilterName: "x"}, perrors.ErrCodeInvalidInput},
		{"control char", Options{Select: "a\nb"}, perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !perrors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecute_Fixture(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		View:    view.DefaultConfig(),
		Formats: []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Stats.NodeCount != 137 {
		t.Errorf("NodeCount = %d, want 137", res.Stats.NodeCount)
	}
	if res.Snapshot.Visible != 14 {
		t.Errorf("Visible = %d, want 14", res.Snapshot.Visible)
	}
	if len(res.Issues) != 0 {
		t.Errorf("Issues = %v, want none", res.Issues)
	}
	if got := string(res.Artifacts[FormatDOT]); got != res.DOT {
		t.Error("dot artifact should equal Result.DOT")
	}
	if !strings.Contains(res.DOT, `"collapsed-model"`) {
		t.Error("DOT should contain the model aggregate")
	}
	if !strings.Contains(string(res.Artifacts[FormatJSON]), `"visible": 14`) {
		t.Errorf("json artifact missing visible count:\n%s", res.Artifacts[FormatJSON])
	}
	if res.CacheInfo.RenderHit {
		t.Error("RenderHit should be false without cacheable formats")
	}
}

func TestExecute_SelectAndFilter(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		visible int
	}{
		{"select", Options{Select: "model-42"}, 9},
		{"filter type", Options{FilterType: "model"}, 1},
		{"filter name", Options{FilterName: "customer"}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.View = view.DefaultConfig()
			tt.opts.Formats = []string{FormatDOT}
			res, err := r.Execute(ctx, tt.opts)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if res.Snapshot.Visible != tt.visible {
				t.Errorf("Visible = %d, want %d", res.Snapshot.Visible, tt.visible)
			}
		})
	}
}

func TestExecute_GraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineage.toml")
	if err := pgio.Export(fixture.Provenance(), path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	res, err := quietRunner(nil).Execute(context.Background(), Options{
		Graph:   path,
		View:    view.DefaultConfig(),
		Formats: []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Graph.NodeCount() != 137 || res.Snapshot.Visible != 14 {
		t.Errorf("nodes = %d, visible = %d, want 137 and 14", res.Graph.NodeCount(), res.Snapshot.Visible)
	}
}

func TestExecute_Errors(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Graph: filepath.Join(t.TempDir(), "missing.json")}); !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing graph error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := r.Execute(ctx, Options{Select: "ghost", Formats: []string{FormatDOT}}); !perrors.Is(err, perrors.ErrCodeNotFound) {
		t.Errorf("unknown selection error = %v, want NOT_FOUND", err)
	}
}

func TestRenderWithCacheInfo_Caching(t *testing.T) {
	calls := stubRenderer(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := quietRunner(fc)
	defer r.Close()

	ctx := context.Background()
	snap := view.New(fixture.Provenance(), view.DefaultConfig()).Snapshot()
	opts := Options{Formats: []string{FormatSVG}}

	first, hit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo() error = %v", err)
	}
	if hit || *calls != 1 {
		t.Errorf("first render: hit = %v, calls = %d, want miss and 1 call", hit, *calls)
	}

	second, hit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo() error = %v", err)
	}
	if !hit || *calls != 1 {
		t.Errorf("second render: hit = %v, calls = %d, want hit and 1 call", hit, *calls)
	}
	if string(first[FormatSVG]) != string(second[FormatSVG]) {
		t.Error("cached artifact should equal the rendered one")
	}

	// Detailed labels change the DOT and therefore the key.
	if _, hit, _ := r.RenderWithCacheInfo(ctx, snap, Options{Formats: []string{FormatSVG}, Detailed: true}); hit {
		t.Error("detailed render should miss")
	}

	opts.Refresh = true
	if _, hit, _ := r.RenderWithCacheInfo(ctx, snap, opts); hit || *calls != 3 {
		t.Errorf("refresh: hit = %v, calls = %d, want miss and 3 calls", hit, *calls)
	}
}

func TestRenderWithCacheInfo_NullCache(t *testing.T) {
	calls := stubRenderer(t)
	r := quietRunner(nil)
	snap := view.New(fixture.Provenance(), view.DefaultConfig()).Snapshot()

	for range 2 {
		if _, err := r.Render(context.Background(), snap, Options{}); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}
	if *calls != 2 {
		t.Errorf("calls = %d, want 2 with caching disabled", *calls)
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{NodeCount: 3, EdgeCount: 2}
	if got, want := s.String(), "3 nodes, 2 edges (load 0s, view 0s, render 0s)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
