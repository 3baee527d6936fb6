/*
Copyright © 2025 dagslott
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dagslott/imagesort/internal/dedup"
	"github.com/dagslott/imagesort/internal/fingerprint"
	"github.com/dagslott/imagesort/internal/progress"
	"github.com/dagslott/imagesort/internal/scanner"
	"github.com/dagslott/imagesort/util"
)

// dupesCmd represents the dupes command
var dupesCmd = &cobra.Command{
	Use:   "dupes [folder]",
	Short: "Find duplicate and visually similar images in a folder",
	Long: `Dupes scans a folder for duplicate images in two stages. Byte-identical
files are grouped by a fast partial content hash, then the remaining
images are compared by perceptual fingerprint so resized, re-encoded or
lightly edited copies are found too.

The threshold is a Hamming distance between 64-bit fingerprints: 0 only
matches identical fingerprints, 10 is a reasonable default, and larger
values trade precision for recall.

Example:
  imagesort dupes ~/Pictures
  imagesort dupes ~/Pictures --threshold 5 --algorithm perception
  imagesort dupes ~/Pictures --json > dupes.json
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, quiet := outputFlags(cmd)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		threshold := cfg.Engine.Threshold
		if cmd.Flags().Changed("threshold") {
			threshold, _ = cmd.Flags().GetInt("threshold")
		}

		algoName := cfg.Engine.Algorithm
		if cmd.Flags().Changed("algorithm") {
			algoName, _ = cmd.Flags().GetString("algorithm")
		}
		algo, err := fingerprint.ParseAlgorithm(algoName)
		if err != nil {
			return err
		}

		hashWorkers := cfg.Engine.HashWorkers
		if cmd.Flags().Changed("hash-workers") {
			hashWorkers, _ = cmd.Flags().GetInt("hash-workers")
		}
		decodeWorkers := cfg.Engine.DecodeWorkers
		if cmd.Flags().Changed("decode-workers") {
			decodeWorkers, _ = cmd.Flags().GetInt("decode-workers")
		}

		cacheDir := cfg.Engine.CacheDir
		if cmd.Flags().Changed("cache-dir") {
			cacheDir, _ = cmd.Flags().GetString("cache-dir")
		}

		jsonOut, _ := cmd.Flags().GetBool("json")

		images, err := scanner.ScanDirectory(args[0])
		if err != nil {
			return err
		}
		paths := scanner.Paths(images)

		if !quiet && !jsonOut {
			fmt.Printf("Scanning %d images for duplicates (threshold %d, %s hash)\n",
				len(paths), threshold, algo)
		}

		// The progress bar writes to stderr, so JSON output on stdout
		// stays clean.
		progressMgr := progress.NewManager(progress.Options{
			Quiet:   quiet,
			Verbose: verbose,
		})
		progressMgr.StartStage(len(paths), "Fingerprinting")

		detector, err := dedup.New(dedup.Options{
			HashWorkers:   hashWorkers,
			DecodeWorkers: decodeWorkers,
			Algorithm:     algo,
			CacheDir:      cacheDir,
			Notify: func(dedup.Event) {
				progressMgr.Tick()
			},
		})
		if err != nil {
			return err
		}

		result, err := detector.Detect(paths, threshold)
		progressMgr.FinishStage()
		if err != nil {
			return err
		}

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printGroups(result, quiet)
		return nil
	},
}

// printGroups renders a detection result for humans: one block per group,
// members indented, a summary line at the end.
func printGroups(result *dedup.Result, quiet bool) {
	heading := color.New(color.FgCyan, color.Bold)
	member := color.New(color.FgGreen)

	for i, group := range result.Groups {
		var groupSize int64
		for _, m := range group.Members {
			groupSize += m.SizeBytes
		}
		heading.Printf("Group %d (%d files, %s)\n", i+1, len(group.Members), util.HumanReadableSize(groupSize))
		for _, m := range group.Members {
			member.Printf("  %s\n", m.Path)
		}
	}

	if quiet {
		return
	}

	fmt.Println()
	if len(result.Groups) == 0 {
		fmt.Println("No duplicates found.")
	} else {
		fmt.Printf("%d groups, %d duplicate files out of %d processed\n",
			len(result.Groups), result.TotalDuplicates, result.Processed)
	}
	if result.Errors > 0 {
		fmt.Printf("Warning: %d files could not be processed\n", result.Errors)
	}
}

func init() {
	rootCmd.AddCommand(dupesCmd)

	dupesCmd.Flags().IntP("threshold", "t", 10, "Maximum Hamming distance for a visual match (0-64)")
	dupesCmd.Flags().StringP("algorithm", "a", "difference", "Perceptual hash algorithm: difference, perception or average")
	dupesCmd.Flags().Int("hash-workers", 0, "Workers for content hashing (0 uses the default)")
	dupesCmd.Flags().Int("decode-workers", 0, "Workers for image decoding (0 uses the default)")
	dupesCmd.Flags().String("cache-dir", "", "Directory for the fingerprint cache")
	dupesCmd.Flags().Bool("json", false, "Emit the result as JSON on stdout")
}
