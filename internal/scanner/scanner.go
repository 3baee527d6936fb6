// Package scanner discovers image files under a root folder and filters them
// by extension before they are handed to the detection pipeline.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ImageInfo describes one discovered image file.
type ImageInfo struct {
	Path      string
	Filename  string
	Extension string
	SizeBytes int64
}

// supportedExtensions lists the image formats the pipeline accepts, lowercase
// and without the leading dot.
var supportedExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true,
	"webp": true, "tiff": true, "tif": true, "ico": true, "heic": true,
	"heif": true,
}

// IsSupportedExtension reports whether ext (with or without a leading dot,
// any case) names a supported image format.
func IsSupportedExtension(ext string) bool {
	return supportedExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// ScanDirectory walks root recursively and returns every supported image.
// Unreadable subtrees are skipped; a missing or non-directory root is an
// error.
func ScanDirectory(root string) ([]ImageInfo, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("folder does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a folder: %s", root)
	}

	var images []ImageInfo
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable entries rather than aborting the whole scan.
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !supportedExtensions[ext] {
			return nil
		}

		fi, err := entry.Info()
		if err != nil {
			return nil
		}
		images = append(images, ImageInfo{
			Path:      path,
			Filename:  entry.Name(),
			Extension: ext,
			SizeBytes: fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	return images, nil
}

// TotalSize sums the sizes of the given images.
func TotalSize(images []ImageInfo) int64 {
	var total int64
	for _, img := range images {
		total += img.SizeBytes
	}
	return total
}

// Paths extracts the path list in scan order.
func Paths(images []ImageInfo) []string {
	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.Path
	}
	return paths
}
