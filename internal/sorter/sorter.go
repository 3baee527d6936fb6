// Package sorter places images into date-derived folder structures and keeps
// their sidecar files alongside them through renames and collisions.
package sorter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dagslott/imagesort/internal/metadata"
	"github.com/dagslott/imagesort/internal/sidecar"
)

// Method selects how files reach their destination.
const (
	MethodCopy = "copy"
	MethodMove = "move"
)

// undatedFolder receives files whose creation date cannot be determined.
const undatedFolder = "Undated"

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Config controls the destination folder layout.
type Config struct {
	UseDayFolder  bool `yaml:"use_day_folder"`
	UseMonthNames bool `yaml:"use_month_names"`
}

// OperationResult accumulates per-file outcomes; individual failures never
// abort the batch.
type OperationResult struct {
	Processed     int      `json:"processed"`
	Success       int      `json:"success"`
	Errors        int      `json:"errors"`
	ErrorMessages []string `json:"errorMessages"`
}

func (r *OperationResult) addSuccess() {
	r.Success++
}

func (r *OperationResult) addError(format string, args ...interface{}) {
	r.Errors++
	r.ErrorMessages = append(r.ErrorMessages, fmt.Sprintf(format, args...))
}

// SortImages places each path under targetDir in a year/month[/day] layout
// derived from its creation date. Dating is strict: files without an embedded
// date land in the Undated folder rather than falling back to mtime.
func SortImages(paths []string, targetDir, method string, cfg Config) *OperationResult {
	result := &OperationResult{Processed: len(paths)}

	if !dirExists(targetDir) {
		result.addError("target folder does not exist: %s", targetDir)
		return result
	}

	for _, path := range paths {
		if !fileExists(path) {
			result.addError("file does not exist: %s", path)
			continue
		}

		destDir := filepath.Join(targetDir, undatedFolder)
		if date, ok := metadata.ReadCreationDateWithFallback(path, false); ok {
			monthFolder := fmt.Sprintf("%02d", int(date.Month()))
			if cfg.UseMonthNames {
				monthFolder = fmt.Sprintf("%02d - %s", int(date.Month()), monthNames[date.Month()-1])
			}
			destDir = filepath.Join(targetDir, fmt.Sprintf("%d", date.Year()), monthFolder)
			if cfg.UseDayFolder {
				destDir = filepath.Join(destDir, fmt.Sprintf("%02d", date.Day()))
			}
		}

		if err := os.MkdirAll(destDir, 0o755); err != nil {
			result.addError("could not create folder %s: %v", destDir, err)
			continue
		}

		placeFile(result, path, destDir, method)
	}
	return result
}

// MoveImages relocates paths directly into targetDir, with the same collision
// and sidecar handling as SortImages but no date folders.
func MoveImages(paths []string, targetDir string) *OperationResult {
	result := &OperationResult{Processed: len(paths)}

	if !dirExists(targetDir) {
		result.addError("target folder does not exist: %s", targetDir)
		return result
	}

	for _, path := range paths {
		if !fileExists(path) {
			result.addError("file does not exist: %s", path)
			continue
		}
		placeFile(result, path, targetDir, MethodMove)
	}
	return result
}

// DeleteImages removes paths and their sidecars. Sidecar removal failures are
// ignored; the main file decides success.
func DeleteImages(paths []string) *OperationResult {
	result := &OperationResult{Processed: len(paths)}

	for _, path := range paths {
		if !fileExists(path) {
			result.addError("file does not exist: %s", path)
			continue
		}
		sidecars := sidecar.FindSidecars(path)
		if err := os.Remove(path); err != nil {
			result.addError("could not delete %s: %v", path, err)
			continue
		}
		result.addSuccess()
		for _, sc := range sidecars {
			_ = os.Remove(sc)
		}
	}
	return result
}

// placeFile moves or copies one file into destDir, resolving filename
// collisions as name_N.ext and carrying sidecars along under the final name.
func placeFile(result *OperationResult, path, destDir, method string) {
	destPath := resolveCollision(destDir, filepath.Base(path))

	var err error
	if method == MethodMove {
		err = os.Rename(path, destPath)
	} else {
		err = copyFile(path, destPath)
	}
	if err != nil {
		result.addError("could not %s file %s: %v", method, path, err)
		return
	}
	result.addSuccess()

	moveSidecars(path, destPath, method)
}

// moveSidecars mirrors the main file's final name onto each sidecar. A
// full-filename sidecar (img.jpg.json) is rebuilt from the destination
// filename; a stem sidecar (img.xmp) just swaps its extension in.
func moveSidecars(sourcePath, destPath, method string) {
	destDir := filepath.Dir(destPath)
	destFilename := filepath.Base(destPath)
	sourceFilename := filepath.Base(sourcePath)

	for _, sc := range sidecar.FindSidecars(sourcePath) {
		scExt := strings.TrimPrefix(filepath.Ext(sc), ".")
		scFilename := filepath.Base(sc)

		var destSidecar string
		if strings.HasPrefix(scFilename, sourceFilename) {
			destSidecar = filepath.Join(destDir, fmt.Sprintf("%s.%s", destFilename, scExt))
		} else {
			base := strings.TrimSuffix(destFilename, filepath.Ext(destFilename))
			destSidecar = filepath.Join(destDir, fmt.Sprintf("%s.%s", base, scExt))
		}

		if method == MethodMove {
			_ = os.Rename(sc, destSidecar)
		} else {
			_ = copyFile(sc, destSidecar)
		}
	}
}

// resolveCollision returns a destination path that does not exist yet,
// appending _1, _2, ... before the extension when needed.
func resolveCollision(destDir, filename string) string {
	destPath := filepath.Join(destDir, filename)
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for counter := 1; pathExists(destPath); counter++ {
		if ext == "" {
			destPath = filepath.Join(destDir, fmt.Sprintf("%s_%d", stem, counter))
		} else {
			destPath = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		}
	}
	return destPath
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
