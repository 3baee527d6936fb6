/*
Copyright © 2025 dagslott
*/
package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dagslott/imagesort/internal/scanner"
	"github.com/dagslott/imagesort/util"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Scan a folder and report the images found in it",
	Long: `Scan walks a folder recursively and reports every supported image file,
grouped by extension, along with the total size of the collection.

Example:
  imagesort scan ~/Pictures
  imagesort scan ~/Pictures --verbose
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, quiet := outputFlags(cmd)

		images, err := scanner.ScanDirectory(args[0])
		if err != nil {
			return err
		}

		if len(images) == 0 {
			fmt.Println("No supported images found.")
			return nil
		}

		byExtension := make(map[string]int)
		for _, img := range images {
			byExtension[img.Extension]++
		}

		extensions := make([]string, 0, len(byExtension))
		for ext := range byExtension {
			extensions = append(extensions, ext)
		}
		sort.Strings(extensions)

		if !quiet {
			fmt.Printf("Found %d images (%s)\n", len(images), util.HumanReadableSize(scanner.TotalSize(images)))
			for _, ext := range extensions {
				fmt.Printf("  %-6s %d\n", ext, byExtension[ext])
			}
		}

		if verbose {
			fmt.Println()
			for _, img := range images {
				fmt.Printf("%s (%s)\n", img.Path, util.HumanReadableSize(img.SizeBytes))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
