package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/baseline/internal/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the feature catalog cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop the cached feature catalog",
		Long: `Clear removes the cached catalog from the configured backend. For the
file and bolt backends every entry in the cache directory is removed; for
redis and mongo only this endpoint's catalog entry is deleted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.cfg.Cache.Backend {
			case config.BackendFile, config.BackendBolt:
				dir, err := c.cfg.CacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				return clearDir(dir)
			case config.BackendRedis, config.BackendMongo:
				ctx := cmd.Context()
				eng, err := c.newEngine(ctx, false)
				if err != nil {
					return err
				}
				defer eng.Close()
				spinner := newSpinnerWithContext(ctx, "Refreshing feature catalog...")
				spinner.Start()
				if err := eng.client.Refresh(ctx); err != nil {
					spinner.Stop()
					return fmt.Errorf("clear %s cache: %w", c.cfg.Cache.Backend, err)
				}
				spinner.StopWithSuccess(fmt.Sprintf("Cleared cached catalog for %s", eng.client.Endpoint()))
				printDetail("Backend: %s", c.cfg.Cache.Backend)
				return nil
			default:
				printInfo("The %s backend keeps nothing between runs", c.cfg.Cache.Backend)
				return nil
			}
		},
	}
}

// clearDir removes every file below dir, then the emptied subdirectories.
func clearDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}
		if path == dir {
			return nil
		}
		if !info.IsDir() {
			if err := os.Remove(path); err == nil {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Clean up empty subdirectories
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || path == dir {
			return nil
		}
		if info.IsDir() {
			os.Remove(path)
		}
		return nil
	})

	printSuccess("Cleared %d cached entries", count)
	printDetail("Directory: %s", dir)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if c.cfg.Cache.Backend == config.BackendBolt {
				dir = filepath.Join(dir, boltFile)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
