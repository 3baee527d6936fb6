/*
Copyright © 2025 dagslott
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dagslott/imagesort/internal/dedup"
	"github.com/dagslott/imagesort/internal/progress"
	"github.com/dagslott/imagesort/internal/scanner"
	"github.com/dagslott/imagesort/internal/thumbnail"
)

// thumbsCmd represents the thumbs command
var thumbsCmd = &cobra.Command{
	Use:   "thumbs [folder]",
	Short: "Pre-generate preview thumbnails for a folder",
	Long: `Thumbs walks a folder and generates a small JPEG preview for every
supported image, storing them in the thumbnail cache. Thumbnails that
already exist are skipped, so repeated runs are cheap.

Example:
  imagesort thumbs ~/Pictures
  imagesort thumbs ~/Pictures --cache-dir /tmp/previews
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, quiet := outputFlags(cmd)

		cacheDir := dedup.DefaultCacheDir()
		if cmd.Flags().Changed("cache-dir") {
			cacheDir, _ = cmd.Flags().GetString("cache-dir")
		} else if cfg, err := loadConfig(cmd); err == nil && cfg.Engine.CacheDir != "" {
			cacheDir = cfg.Engine.CacheDir
		}
		thumbDir := filepath.Join(cacheDir, "thumbnails")

		images, err := scanner.ScanDirectory(args[0])
		if err != nil {
			return err
		}
		if len(images) == 0 {
			fmt.Println("No supported images found.")
			return nil
		}

		progressMgr := progress.NewManager(progress.Options{
			Quiet:   quiet,
			Verbose: verbose,
		})
		progressMgr.StartStage(len(images), "Generating thumbnails")

		created := 0
		failed := 0
		for _, img := range images {
			thumbPath, err := thumbnail.GetOrCreate(img.Path, thumbDir)
			if err != nil {
				failed++
				progressMgr.PrintVerbose("Warning: %s: %v", img.Path, err)
			} else {
				created++
				progressMgr.PrintVerbose("%s -> %s", img.Path, thumbPath)
			}
			progressMgr.Tick()
		}
		progressMgr.FinishStage()

		if !quiet {
			fmt.Printf("Thumbnails ready for %d of %d images in %s\n", created, len(images), thumbDir)
		}
		if failed > 0 {
			fmt.Printf("Warning: %d images could not be thumbnailed\n", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(thumbsCmd)

	thumbsCmd.Flags().String("cache-dir", "", "Directory for the thumbnail cache")
}
