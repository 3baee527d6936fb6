// Package sidecar locates metadata companion files (XMP, AAE, JSON, THM) that
// must travel with an image when it is moved, copied, or deleted.
package sidecar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var sidecarExtensions = []string{"xmp", "aae", "json", "thm"}

// FindSidecars returns every sidecar that belongs to imagePath. Three naming
// schemes are probed per extension: same stem (photo.jpg -> photo.xmp), the
// upper-case variant (photo.XMP), and full-filename suffix as produced by
// Google Takeout (photo.jpg -> photo.jpg.json).
func FindSidecars(imagePath string) []string {
	dir := filepath.Dir(imagePath)
	filename := filepath.Base(imagePath)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	var sidecars []string
	for _, ext := range sidecarExtensions {
		stemPath := filepath.Join(dir, fmt.Sprintf("%s.%s", stem, ext))
		if fileExists(stemPath) {
			sidecars = append(sidecars, stemPath)
			continue
		}

		upperPath := filepath.Join(dir, fmt.Sprintf("%s.%s", stem, strings.ToUpper(ext)))
		if fileExists(upperPath) {
			sidecars = append(sidecars, upperPath)
			continue
		}

		fullPath := filepath.Join(dir, fmt.Sprintf("%s.%s", filename, ext))
		if fileExists(fullPath) {
			sidecars = append(sidecars, fullPath)
		}
	}
	return sidecars
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
