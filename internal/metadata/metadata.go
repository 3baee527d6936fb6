// Package metadata extracts capture dates from media files: EXIF tags for
// images, ffprobe creation_time for videos, with an optional filesystem-mtime
// fallback.
package metadata

import (
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifTimeLayout is the EXIF ASCII date format.
const exifTimeLayout = "2006:01:02 15:04:05"

// ReadCreationDate returns the best-known creation date of path, falling back
// to the filesystem modification time when no embedded date exists.
func ReadCreationDate(path string) (time.Time, bool) {
	return ReadCreationDateWithFallback(path, true)
}

// ReadCreationDateWithFallback tries EXIF first, then video metadata, then
// (only when useFallback is set) the file's mtime.
func ReadCreationDateWithFallback(path string, useFallback bool) (time.Time, bool) {
	if t, ok := readExifDate(path); ok {
		return t, true
	}
	if t, ok := readVideoDate(path); ok {
		return t, true
	}
	if !useFallback {
		return time.Time{}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// readExifDate checks the standard date tags in priority order.
func readExifDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}

	for _, tag := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime} {
		field, err := x.Get(tag)
		if err != nil {
			continue
		}
		value, err := field.StringVal()
		if err != nil {
			continue
		}
		if t, err := time.ParseInLocation(exifTimeLayout, strings.TrimSpace(value), time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// readVideoDate shells out to ffprobe for the container creation_time tag.
// A missing ffprobe binary is just "no date".
func readVideoDate(path string) (time.Time, bool) {
	out, err := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_entries", "format_tags=creation_time",
		path,
	).Output()
	if err != nil {
		return time.Time{}, false
	}
	return parseFfprobeJSON(out)
}

func parseFfprobeJSON(out []byte) (time.Time, bool) {
	var doc struct {
		Format struct {
			Tags struct {
				CreationTime string `json:"creation_time"`
			} `json:"tags"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &doc); err != nil || doc.Format.Tags.CreationTime == "" {
		return time.Time{}, false
	}

	// ffprobe emits ISO 8601, usually "2023-12-29T00:33:00.000000Z".
	raw := doc.Format.Tags.CreationTime
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSuffix(raw, "Z")

	t, err := time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
