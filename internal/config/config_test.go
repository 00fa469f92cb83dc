package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/provgraph/pkg/layout"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// chdir switches into a fresh directory so provgraph.yaml lookups are
// isolated.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Float64("grid", layout.DefaultGrid, "")
	fs.StringSlice("collapse", nil, "")
	fs.String("addr", DefaultAddr, "")
	fs.Bool("verbose", false, "")
	fs.Duration("cache-ttl", DefaultCacheTTL, "")
	fs.String("format", "svg", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, used, err := Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, used)

	assert.Equal(t, layout.DefaultOptions(), cfg.LayoutOptions())
	assert.Equal(t, []string{"trainingDataset", "model"}, cfg.View.Collapsed)
	assert.Equal(t, 0.5, cfg.View.MinZoom)
	assert.Equal(t, 2.0, cfg.View.MaxZoom)
	assert.Equal(t, []int{1, 2}, cfg.View.PanButtons)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultShutdown, cfg.Server.Shutdown)
}

func TestLoad_File(t *testing.T) {
	dir := chdir(t)
	writeFile(t, filepath.Join(dir, "provgraph.yaml"), `
graph: lineage.json
layout:
  grid: 40
  row_spacing: 120
view:
  collapsed: [feature_group]
server:
  addr: ":9090"
cache:
  ttl: 1h
`)

	cfg, used, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "provgraph.yaml", used)
	assert.Equal(t, "lineage.json", cfg.Graph)
	assert.Equal(t, 40.0, cfg.Layout.Grid)
	assert.Equal(t, 120.0, cfg.Layout.RowSpacing)
	assert.Equal(t, layout.DefaultColumnSpacing, cfg.Layout.ColumnSpacing)
	assert.Equal(t, []string{"featureGroup"}, cfg.View.Collapsed)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "layout:\n  grid: 40\nserver:\n  addr: \":9090\"\n")
	t.Setenv("PROVGRAPH_LAYOUT_GRID", "20")
	t.Setenv("PROVGRAPH_SERVER_ADDR", ":7070")
	t.Setenv("PROVGRAPH_VIEW_COLLAPSED", "model, deployment")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--grid", "10"}))

	cfg, used, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 10.0, cfg.Layout.Grid, "flag beats env and file")
	assert.Equal(t, ":7070", cfg.Server.Addr, "env beats file")
	assert.Equal(t, []string{"model", "deployment"}, cfg.View.Collapsed)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	chdir(t)
	t.Setenv("PROVGRAPH_SERVER_ADDR", ":7070")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--collapse", "source", "--format", "png"}))

	cfg, _, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, []string{"source"}, cfg.View.Collapsed)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code perrors.Code
	}{
		{"negative grid", "layout:\n  grid: -1\n", perrors.ErrCodeInvalidInput},
		{"zero spacing", "layout:\n  column_spacing: 0\n", perrors.ErrCodeInvalidInput},
		{"zoom bounds", "view:\n  min_zoom: 3\n", perrors.ErrCodeInvalidInput},
		{"unknown tier", "view:\n  collapsed: [widget]\n", perrors.ErrCodeInvalidNodeType},
		{"aggregate tier", "view:\n  collapsed: [collapsedGroup]\n", perrors.ErrCodeInvalidNodeType},
		{"graph extension", "graph: lineage.csv\n", perrors.ErrCodeInvalidFormat},
		{"malformed yaml", "layout: [\n", perrors.ErrCodeInvalidFormat},
		{"empty addr", "server:\n  addr: \"\"\n", perrors.ErrCodeInvalidInput},
		{"no sessions", "server:\n  max_sessions: 0\n", perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdir(t)
			path := filepath.Join(dir, "provgraph.yaml")
			writeFile(t, path, tt.yaml)

			_, _, err := Load(path, nil)
			require.Error(t, err)
			assert.Equal(t, tt.code, perrors.GetCode(err))
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t)
	_, _, err := Load("nope.yaml", nil)
	assert.Equal(t, perrors.ErrCodeFileNotFound, perrors.GetCode(err))
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		name, value string
		key         string
		want        any
	}{
		{"PROVGRAPH_LAYOUT_COLUMN_SPACING", "300", "layout.column_spacing", "300"},
		{"PROVGRAPH_GRAPH", "g.json", "graph", "g.json"},
		{"PROVGRAPH_VIEW_PAN_BUTTONS", "1,2", "view.pan_buttons", []string{"1", "2"}},
		{"PROVGRAPH_VIEW_COLLAPSED", "", "view.collapsed", []string(nil)},
	}
	for _, tt := range tests {
		key, val := envKey(tt.name, tt.value)
		if key != tt.key {
			t.Errorf("envKey(%s) key = %q, want %q", tt.name, key, tt.key)
		}
		assert.Equal(t, tt.want, val, tt.name)
	}
}

func TestViewConfig(t *testing.T) {
	chdir(t)
	cfg, _, err := Load("", nil)
	require.NoError(t, err)

	vc := cfg.ViewConfig()
	assert.Equal(t, cfg.View.Collapsed, vc.Collapsed)
	assert.Equal(t, layout.DefaultGrid, vc.Layout.Grid)
	assert.Equal(t, []int{1, 2}, vc.Viewport.PanButtons)
}
