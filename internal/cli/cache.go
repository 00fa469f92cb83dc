package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/provgraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached SVG and PNG renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			if cfg.Cache.Disabled {
				printInfo(c.Out, "Cache is disabled")
				return nil
			}

			cc, err := newCache(ctx, cfg.Cache, cfg.RedisConfig())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo(c.Out, "Cache does not support clearing")
				return nil
			}
			n, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo(c.Out, "Cache is empty")
				return nil
			}
			printSuccess(c.Out, "Cleared %d cached entries", n)
			printDetail(c.Out, "Location: %s", cacheLocation(cfg.Cache.RedisAddr, cc))
			return nil
		},
	}
	addCacheFlags(cmd)
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			switch {
			case cfg.Cache.RedisAddr != "":
				fmt.Fprintln(c.Out, "redis://"+cfg.Cache.RedisAddr)
				return nil
			case cfg.Cache.Dir != "":
				fmt.Fprintln(c.Out, cfg.Cache.Dir)
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
	addCacheFlags(cmd)
	return cmd
}

func cacheLocation(redisAddr string, cc cache.Cache) string {
	if fc, ok := cc.(*cache.FileCache); ok {
		return fc.Dir()
	}
	return "redis://" + redisAddr
}
