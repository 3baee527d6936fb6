// Package thumbnail generates and caches gallery thumbnails. Cache keys mix
// the source path and its modification time, so edited files regenerate
// automatically while untouched ones are served from disk.
package thumbnail

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Size is the bounding box for generated thumbnails, in pixels.
const Size = 200

var videoExtensions = map[string]bool{
	"mp4": true, "mov": true, "avi": true, "mkv": true,
	"webm": true, "wmv": true, "m4v": true,
}

// GetOrCreate returns the path of a cached thumbnail for imagePath,
// generating it on first use. Video files are thumbnailed by grabbing a
// frame with ffmpeg; everything else is decoded and fitted to Size.
func GetOrCreate(imagePath, cacheDir string) (string, error) {
	key, err := CacheKey(imagePath)
	if err != nil {
		return "", err
	}
	thumbPath := filepath.Join(cacheDir, key+".jpg")

	if _, err := os.Stat(thumbPath); err == nil {
		return thumbPath, nil
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create thumbnail cache: %w", err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(imagePath), "."))
	if videoExtensions[ext] {
		if err := grabVideoFrame(imagePath, thumbPath); err != nil {
			return "", err
		}
		return thumbPath, nil
	}

	img, err := imaging.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", imagePath, err)
	}
	thumb := imaging.Fit(img, Size, Size, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save thumbnail for %s: %w", imagePath, err)
	}
	return thumbPath, nil
}

// CacheKey derives the cache filename stem from path and mtime. Only the
// first 16 digest bytes are kept for shorter filenames.
func CacheKey(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	var mtimeBytes [8]byte
	binary.LittleEndian.PutUint64(mtimeBytes[:], uint64(info.ModTime().Unix()))

	hasher := sha256.New()
	hasher.Write([]byte(path))
	hasher.Write(mtimeBytes[:])
	return hex.EncodeToString(hasher.Sum(nil)[:16]), nil
}

// grabVideoFrame extracts a single frame one second in, avoiding black
// opening frames.
func grabVideoFrame(input, output string) error {
	cmd := exec.Command("ffmpeg",
		"-y",
		"-ss", "00:00:01",
		"-i", input,
		"-vframes", "1",
		"-q:v", "2",
		output,
	)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg frame grab for %s: %w", input, err)
	}
	return nil
}

// ClearCache deletes all cached thumbnails and reports how many were removed.
func ClearCache(cacheDir string) (int, error) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read thumbnail cache: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".jpg" {
			continue
		}
		if os.Remove(filepath.Join(cacheDir, entry.Name())) == nil {
			count++
		}
	}
	return count, nil
}
