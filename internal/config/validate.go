package config

import (
	"github.com/matzehuels/provgraph/pkg/lineage"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// Validate checks ranges and normalizes tier names in View.Collapsed to
// their canonical spelling.
func (c *Config) Validate() error {
	switch {
	case c.Layout.Grid < 0:
		return perrors.New(perrors.ErrCodeInvalidInput, "layout.grid must not be negative")
	case c.Layout.ColumnSpacing <= 0 || c.Layout.RowSpacing <= 0:
		return perrors.New(perrors.ErrCodeInvalidInput, "layout spacing must be positive")
	case c.View.MinZoom <= 0 || c.View.MaxZoom < c.View.MinZoom:
		return perrors.New(perrors.ErrCodeInvalidInput, "view zoom bounds must satisfy 0 < min_zoom <= max_zoom")
	case c.Server.Addr == "":
		return perrors.New(perrors.ErrCodeInvalidInput, "server.addr must not be empty")
	case c.Server.MaxSessions < 1:
		return perrors.New(perrors.ErrCodeInvalidInput, "server.max_sessions must be at least 1")
	case c.Cache.TTL < 0:
		return perrors.New(perrors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Graph != "" {
		if err := perrors.ValidateGraphPath(c.Graph); err != nil {
			return err
		}
	}

	for i, name := range c.View.Collapsed {
		t, err := lineage.ParseNodeType(name)
		if err != nil || !t.IsTier() {
			return perrors.New(perrors.ErrCodeInvalidNodeType, "view.collapsed: %q is not a tier", name)
		}
		c.View.Collapsed[i] = string(t)
	}
	return nil
}
