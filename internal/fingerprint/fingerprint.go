// Package fingerprint computes content signatures and perceptual fingerprints
// for image files. Partial signatures are a cheap proxy for byte-exact
// equality; perceptual fingerprints are 64-bit vectors compared by Hamming
// distance.
package fingerprint

import (
	"errors"
	"fmt"
	"image"
	"math/bits"
	"strconv"
	"strings"

	"github.com/corona10/goimagehash"
)

// Algorithm selects the perceptual-hash variant. The set is closed: each
// variant has its own bit layout and fingerprints from different variants
// must never be compared.
type Algorithm int

const (
	// Exact marks full-file SHA-256 hashing. It is not a perceptual variant;
	// Compute rejects it.
	Exact Algorithm = iota
	// Difference is the gradient (dHash) variant, the pipeline default.
	Difference
	// Perception is the double-gradient (pHash) variant.
	Perception
	// Average is the mean (aHash) variant.
	Average
)

// ErrUnsupportedAlgorithm is returned when a non-perceptual variant is
// requested from Compute.
var ErrUnsupportedAlgorithm = errors.New("algorithm is not a perceptual hash variant")

// ErrIncomparable is returned when two fingerprints of different variants are
// compared.
var ErrIncomparable = errors.New("fingerprints use different algorithm variants")

func (a Algorithm) String() string {
	switch a {
	case Exact:
		return "exact"
	case Difference:
		return "difference"
	case Perception:
		return "perception"
	case Average:
		return "average"
	}
	return "unknown"
}

// ParseAlgorithm maps a config string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "difference", "dhash":
		return Difference, nil
	case "perception", "phash":
		return Perception, nil
	case "average", "ahash":
		return Average, nil
	}
	return Exact, fmt.Errorf("unknown perceptual hash algorithm %q", s)
}

// prefix returns the single-letter encoding prefix for the variant.
func (a Algorithm) prefix() string {
	switch a {
	case Difference:
		return "d"
	case Perception:
		return "p"
	case Average:
		return "a"
	}
	return "?"
}

// Fingerprint is a 64-bit perceptual fingerprint together with the variant
// that produced it.
type Fingerprint struct {
	Bits uint64
	Algo Algorithm
}

// Compute derives a 64-bit perceptual fingerprint from an image. The image is
// internally reduced to an 8x8 grid by the hash implementation.
func Compute(img image.Image, algo Algorithm) (Fingerprint, error) {
	var (
		h   *goimagehash.ImageHash
		err error
	)
	switch algo {
	case Difference:
		h, err = goimagehash.DifferenceHash(img)
	case Perception:
		h, err = goimagehash.PerceptionHash(img)
	case Average:
		h, err = goimagehash.AverageHash(img)
	default:
		return Fingerprint{}, ErrUnsupportedAlgorithm
	}
	if err != nil {
		return Fingerprint{}, fmt.Errorf("compute %s hash: %w", algo, err)
	}
	return Fingerprint{Bits: h.GetHash(), Algo: algo}, nil
}

// Distance returns the Hamming distance between two fingerprints of the same
// variant (0..64).
func (f Fingerprint) Distance(other Fingerprint) (int, error) {
	if f.Algo != other.Algo {
		return 0, ErrIncomparable
	}
	return bits.OnesCount64(f.Bits ^ other.Bits), nil
}

// HammingDistance is Distance without the variant check. It is used by the
// similarity index, which only ever holds fingerprints of one variant.
func (f Fingerprint) HammingDistance(other Fingerprint) int {
	return bits.OnesCount64(f.Bits ^ other.Bits)
}

// Encode renders the fingerprint as a portable string, e.g. "d:00ff00ff00ff00ff".
func (f Fingerprint) Encode() string {
	return fmt.Sprintf("%s:%016x", f.Algo.prefix(), f.Bits)
}

// Decode parses a string produced by Encode. Unknown or malformed strings are
// an error; callers treat that as a cache miss.
func Decode(s string) (Fingerprint, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[1]) != 16 {
		return Fingerprint{}, fmt.Errorf("malformed fingerprint %q", s)
	}

	var algo Algorithm
	switch parts[0] {
	case "d":
		algo = Difference
	case "p":
		algo = Perception
	case "a":
		algo = Average
	default:
		return Fingerprint{}, fmt.Errorf("unknown fingerprint variant %q", parts[0])
	}

	bits, err := strconv.ParseUint(parts[1], 16, 64)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("malformed fingerprint bits %q: %w", parts[1], err)
	}

	return Fingerprint{Bits: bits, Algo: algo}, nil
}
