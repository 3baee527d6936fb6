/*
Copyright © 2025 dagslott
*/
package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/dagslott/imagesort/internal/scanner"
	"github.com/dagslott/imagesort/internal/sorter"
)

// sortCmd represents the sort command
var sortCmd = &cobra.Command{
	Use:   "sort [source] [target]",
	Short: "Sort images into date-based folders",
	Long: `Sort scans the source folder for images and places each one under the
target folder in a year/month layout derived from its EXIF creation
date. Files without a usable date go into an "Undated" folder.

Files are copied by default. With --move the originals are relocated
instead, and their sidecar files (XMP, AAE, Google Takeout JSON) move
with them.

Example:
  imagesort sort ~/Downloads/camera ~/Pictures
  imagesort sort ~/Downloads/camera ~/Pictures --move --day-folders
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, quiet := outputFlags(cmd)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		sortCfg := cfg.Sort
		if cmd.Flags().Changed("day-folders") {
			sortCfg.UseDayFolder, _ = cmd.Flags().GetBool("day-folders")
		}
		if cmd.Flags().Changed("month-names") {
			sortCfg.UseMonthNames, _ = cmd.Flags().GetBool("month-names")
		}

		move, _ := cmd.Flags().GetBool("move")
		yes, _ := cmd.Flags().GetBool("yes")

		method := sorter.MethodCopy
		if move {
			method = sorter.MethodMove
		}

		images, err := scanner.ScanDirectory(args[0])
		if err != nil {
			return err
		}
		if len(images) == 0 {
			fmt.Println("No supported images found.")
			return nil
		}

		// Moving is destructive for the source layout, so confirm first.
		if move && !yes {
			confirmPrompt := promptui.Prompt{
				Label:     fmt.Sprintf("Move %d files from %s to %s", len(images), args[0], args[1]),
				IsConfirm: true,
				Default:   "y",
			}
			if _, err := confirmPrompt.Run(); err != nil {
				if err == promptui.ErrAbort {
					fmt.Println("Sort cancelled.")
					return nil
				}
				return fmt.Errorf("confirmation failed: %v", err)
			}
		}

		result := sorter.SortImages(scanner.Paths(images), args[1], method, sortCfg)

		if !quiet {
			fmt.Printf("Sorted %d of %d files\n", result.Success, result.Processed)
		}
		for _, msg := range result.ErrorMessages {
			fmt.Printf("Warning: %s\n", msg)
		}
		if result.Errors > 0 {
			return fmt.Errorf("%d files could not be sorted", result.Errors)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sortCmd)

	sortCmd.Flags().BoolP("move", "m", false, "Move files instead of copying them")
	sortCmd.Flags().Bool("day-folders", false, "Create a day folder inside each month")
	sortCmd.Flags().Bool("month-names", false, "Use month names in folder names (e.g. \"04 - April\")")
	sortCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt when moving")
}
