package dedup

import (
	"github.com/dagslott/imagesort/internal/fingerprint"
)

// FileRecord describes one input file as observed at scan time. It is
// immutable for the duration of a detection run.
type FileRecord struct {
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"sizeBytes"`
}

// Group is one set of files judged duplicate, either byte-exact siblings or
// visually similar within the run's threshold. Every emitted group has at
// least two members, and a file appears in at most one group per run.
type Group struct {
	Members []FileRecord `json:"members"`
}

// Result is the structured outcome of one detection run. Errors counts files
// that were skipped (missing, unreadable, undecodable); Processed is the
// number of input paths, so a caller can judge completeness.
type Result struct {
	Groups          []Group `json:"groups"`
	TotalDuplicates int     `json:"totalDuplicates"`
	Processed       int     `json:"processed"`
	Errors          int     `json:"errors"`
}

// Event is a progress notification, emitted once per successfully processed
// item in the fingerprinting stage (cache hit or fresh computation).
// Delivery is fire-and-forget from worker goroutines.
type Event struct {
	RunID string
	Path  string
}

// Options configures a Detector.
type Options struct {
	// HashWorkers sizes the partial-signature pool. Defaults to 16; hashing
	// is cheap so this pool can be wide.
	HashWorkers int
	// DecodeWorkers sizes the fingerprinting pool. Defaults to 8; kept
	// smaller to bound peak memory from simultaneous image decodes.
	DecodeWorkers int
	// Algorithm is the perceptual-hash variant for the whole run. Defaults
	// to Difference. Fingerprints from other variants found in the cache are
	// treated as misses.
	Algorithm fingerprint.Algorithm
	// CacheDir holds the fingerprint cache. Defaults to a directory under
	// the OS temp dir.
	CacheDir string
	// Notify, when set, receives one Event per processed item. It is called
	// from worker goroutines and must not block.
	Notify func(Event)
}

// hashedImage is one successfully fingerprinted member of the visual scan set.
type hashedImage struct {
	rec FileRecord
	fp  fingerprint.Fingerprint
}
