/*
Copyright © 2025 dagslott
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dagslott/imagesort/internal/dedup"
	"github.com/dagslott/imagesort/internal/hashcache"
	"github.com/dagslott/imagesort/internal/thumbnail"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the fingerprint and thumbnail caches",
	Long: `Cache manages the on-disk caches imagesort keeps between runs: the
fingerprint cache that lets repeated duplicate scans skip image
decoding, and the thumbnail cache used for previews.

Example:
  imagesort cache stats
  imagesort cache clear
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location and entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cacheDirFromFlags(cmd)
		cache := hashcache.Open(dir)

		fmt.Printf("Cache directory: %s\n", dir)
		fmt.Printf("Fingerprint entries: %d\n", cache.Len())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached fingerprints and thumbnails",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cacheDirFromFlags(cmd)

		cache := hashcache.Open(dir)
		entries := cache.Len()
		if err := cache.Clear(); err != nil {
			return fmt.Errorf("failed to clear fingerprint cache: %w", err)
		}

		removed, err := thumbnail.ClearCache(filepath.Join(dir, "thumbnails"))
		if err != nil {
			fmt.Printf("Warning: failed to clear thumbnail cache: %v\n", err)
		}

		fmt.Printf("Cleared %d fingerprint entries and %d thumbnails\n", entries, removed)
		return nil
	},
}

// cacheDirFromFlags resolves the cache directory from the flag, the config
// file, or the built-in default, in that order.
func cacheDirFromFlags(cmd *cobra.Command) string {
	if cmd.Flags().Changed("cache-dir") {
		dir, _ := cmd.Flags().GetString("cache-dir")
		return dir
	}
	if cfg, err := loadConfig(cmd); err == nil && cfg.Engine.CacheDir != "" {
		return cfg.Engine.CacheDir
	}
	return dedup.DefaultCacheDir()
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheCmd.PersistentFlags().String("cache-dir", "", "Directory for the fingerprint cache")
}
