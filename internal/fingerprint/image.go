package fingerprint

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	// imaging registers BMP/GIF/JPEG/PNG/TIFF decoders; webp comes separately.
	_ "golang.org/x/image/webp"
)

// maxHashDimension bounds the image fed into perceptual hashing. Anything
// larger is downscaled with nearest-neighbour resampling: the hash only looks
// at coarse structure, so decode speed wins over fidelity here.
const maxHashDimension = 512

// LoadImage loads an image for fingerprinting. The fast path decodes the
// EXIF embedded thumbnail, which is typically orders of magnitude smaller
// than the source; it falls back to a full decode when no usable thumbnail
// exists. Either way the result fits within 512x512.
func LoadImage(path string) (image.Image, error) {
	if thumb, ok := loadEmbeddedThumbnail(path); ok {
		return clampForHashing(thumb), nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return clampForHashing(img), nil
}

// loadEmbeddedThumbnail extracts and decodes the EXIF thumbnail, if any.
// Failures here are never errors; the caller just takes the slow path.
func loadEmbeddedThumbnail(path string) (image.Image, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, false
	}
	data, err := x.JpegThumbnail()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	return img, true
}

func clampForHashing(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxHashDimension && b.Dy() <= maxHashDimension {
		return img
	}
	return imaging.Fit(img, maxHashDimension, maxHashDimension, imaging.NearestNeighbor)
}
