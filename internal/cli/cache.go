package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parsets/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local dataset and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisCfg cache.RedisConfig

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached datasets and rendered artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := c.print()
			if redisCfg.Addr != "" || redisCfg.URL != "" {
				rc, err := cache.NewRedisCache(ctx, redisCfg)
				if err != nil {
					return err
				}
				defer rc.Close()
				if err := rc.Clear(ctx); err != nil {
					return err
				}
				out.success("Cleared redis keys under %q", redisCfg.Prefix)
				return nil
			}

			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				out.info("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(ctx); err != nil {
				return err
			}
			out.success("Cleared cache")
			out.detail("Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&redisCfg.Addr, "redis-addr", "", "clear a redis cache at this address instead")
	cmd.Flags().StringVar(&redisCfg.URL, "redis-url", "", "clear a redis cache at this URL instead")
	cmd.Flags().StringVar(&redisCfg.Prefix, "redis-prefix", defaultRedisPrefix, "key prefix to clear")

	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}
