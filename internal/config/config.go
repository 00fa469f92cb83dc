// Package config loads provgraph settings with koanf.
//
// Values are layered, lowest to highest precedence:
//
//  1. Built-in defaults
//  2. provgraph.yaml (or the file given with --config)
//  3. PROVGRAPH_* environment variables
//  4. Command-line flags that were explicitly set
//
// Environment variables map onto nested keys by their first underscore:
// PROVGRAPH_LAYOUT_COLUMN_SPACING sets layout.column_spacing. List values
// are comma separated.
package config

import (
	"slices"
	"time"

	"github.com/matzehuels/provgraph/pkg/cache"
	"github.com/matzehuels/provgraph/pkg/layout"
	"github.com/matzehuels/provgraph/pkg/view"
)

// Config is the fully resolved configuration.
type Config struct {
	// Graph is the graph file to load. Empty means the built-in fixture.
	Graph   string `koanf:"graph"`
	Verbose bool   `koanf:"verbose"`

	Layout LayoutConfig `koanf:"layout"`
	View   ViewConfig   `koanf:"view"`
	Server ServerConfig `koanf:"server"`
	Cache  CacheConfig  `koanf:"cache"`
}

// LayoutConfig holds the layout engine settings.
type LayoutConfig struct {
	Grid          float64 `koanf:"grid"`
	ColumnSpacing float64 `koanf:"column_spacing"`
	RowSpacing    float64 `koanf:"row_spacing"`
	BaseRow       float64 `koanf:"base_row"`
}

// ViewConfig holds the initial view state and viewport bounds.
type ViewConfig struct {
	Collapsed  []string `koanf:"collapsed"`
	MinZoom    float64  `koanf:"min_zoom"`
	MaxZoom    float64  `koanf:"max_zoom"`
	PanButtons []int    `koanf:"pan_buttons"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr        string        `koanf:"addr"`
	Watch       bool          `koanf:"watch"`
	MaxSessions int           `koanf:"max_sessions"`
	Shutdown    time.Duration `koanf:"shutdown_timeout"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Disabled      bool          `koanf:"disabled"`
	// Dir of the file cache. Empty means the user cache directory.
	Dir           string        `koanf:"dir"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	TTL           time.Duration `koanf:"ttl"`
}

// Defaults.
const (
	DefaultAddr        = ":8080"
	DefaultMaxSessions = 256
	DefaultShutdown    = 5 * time.Second
	DefaultCacheTTL    = 24 * time.Hour
)

func defaults() map[string]any {
	vc := view.DefaultConfig()
	return map[string]any{
		"graph":                   "",
		"verbose":                 false,
		"layout.grid":             layout.DefaultGrid,
		"layout.column_spacing":   layout.DefaultColumnSpacing,
		"layout.row_spacing":      layout.DefaultRowSpacing,
		"layout.base_row":         layout.DefaultBaseRow,
		"view.collapsed":          slices.Clone(vc.Collapsed),
		"view.min_zoom":           vc.Viewport.MinZoom,
		"view.max_zoom":           vc.Viewport.MaxZoom,
		"view.pan_buttons":        slices.Clone(vc.Viewport.PanButtons),
		"server.addr":             DefaultAddr,
		"server.watch":            false,
		"server.max_sessions":     DefaultMaxSessions,
		"server.shutdown_timeout": DefaultShutdown,
		"cache.disabled":          false,
		"cache.dir":               "",
		"cache.redis_addr":        "",
		"cache.redis_password":    "",
		"cache.redis_db":          0,
		"cache.ttl":               DefaultCacheTTL,
	}
}

// LayoutOptions converts the layout section.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		Grid:          c.Layout.Grid,
		ColumnSpacing: c.Layout.ColumnSpacing,
		RowSpacing:    c.Layout.RowSpacing,
		BaseRow:       c.Layout.BaseRow,
	}
}

// ViewConfig converts the view and layout sections into a controller
// configuration.
func (c *Config) ViewConfig() view.Config {
	return view.Config{
		Collapsed: c.View.Collapsed,
		Layout:    c.LayoutOptions(),
		Viewport: view.Viewport{
			MinZoom:    c.View.MinZoom,
			MaxZoom:    c.View.MaxZoom,
			PanButtons: c.View.PanButtons,
		},
	}
}

// RedisConfig converts the cache section for the Redis backend.
func (c *Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.Cache.RedisAddr,
		Password: c.Cache.RedisPassword,
		DB:       c.Cache.RedisDB,
	}
}
