package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"apisect/internal/config"
	"apisect/internal/metadata"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the decoded model cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("clean cache: %w", err)
		}
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "cleaned %s\n", cache.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd, cacheCleanCmd)
}

// openCache opens the cache the nearest manifest points at, or the default
// per-user one.
func openCache() (*metadata.Cache, error) {
	cfg, _, err := config.Discover(".")
	if err != nil {
		return nil, err
	}
	dir := cfg.Load.CacheDir
	if dir == "" {
		if dir, err = metadata.DefaultCacheDir("apisect"); err != nil {
			return nil, fmt.Errorf("locate cache: %w", err)
		}
	}
	return metadata.OpenCache(dir)
}
