// Package dedup drives the two-stage duplicate-detection pipeline: a cheap
// exact-match filter over size and partial content signatures, followed by
// perceptual fingerprinting and bounded-distance similarity search over the
// remaining representatives.
package dedup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dagslott/imagesort/internal/bktree"
	"github.com/dagslott/imagesort/internal/fingerprint"
	"github.com/dagslott/imagesort/internal/hashcache"
)

const (
	defaultHashWorkers   = 16
	defaultDecodeWorkers = 8
)

// Detector owns the fingerprint cache and worker-pool configuration for
// detection runs. A single Detector may serve multiple sequential runs and
// reuses its cache across them.
type Detector struct {
	hashWorkers   int
	decodeWorkers int
	algo          fingerprint.Algorithm
	cache         *hashcache.Cache
	notify        func(Event)
}

// DefaultCacheDir returns the platform cache location used when Options does
// not name one.
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), "imagesort-fingerprints")
}

// New validates the options and loads the fingerprint cache. Option
// validation failures are the only hard setup errors of the engine.
func New(opts Options) (*Detector, error) {
	if opts.HashWorkers == 0 {
		opts.HashWorkers = defaultHashWorkers
	}
	if opts.DecodeWorkers == 0 {
		opts.DecodeWorkers = defaultDecodeWorkers
	}
	if opts.HashWorkers < 0 || opts.DecodeWorkers < 0 {
		return nil, fmt.Errorf("worker pool sizes must be positive (hash=%d, decode=%d)",
			opts.HashWorkers, opts.DecodeWorkers)
	}
	if opts.Algorithm == fingerprint.Exact {
		opts.Algorithm = fingerprint.Difference
	}
	if opts.CacheDir == "" {
		opts.CacheDir = DefaultCacheDir()
	}

	return &Detector{
		hashWorkers:   opts.HashWorkers,
		decodeWorkers: opts.DecodeWorkers,
		algo:          opts.Algorithm,
		cache:         hashcache.Open(opts.CacheDir),
		notify:        opts.Notify,
	}, nil
}

// Cache exposes the detector's fingerprint cache.
func (d *Detector) Cache() *hashcache.Cache {
	return d.cache
}

// Detect finds duplicate groups among paths. Two fingerprints within
// threshold Hamming distance (0..64) are considered visually duplicate;
// threshold 0 matches exact fingerprints only. Individual file failures are
// counted in Result.Errors and never abort the run.
func (d *Detector) Detect(paths []string, threshold int) (*Result, error) {
	if threshold < 0 || threshold > 64 {
		return nil, fmt.Errorf("threshold must be within 0..64, got %d", threshold)
	}

	runID := uuid.NewString()
	var errCount atomic.Int64

	// Stage 1: bucket by file size. Only paths sharing a size with another
	// path are exact-match candidates; stat failures surface later in the
	// fingerprinting stage, where they are counted.
	sizeOf := make(map[string]int64, len(paths))
	bucketCount := make(map[int64]int)
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			sizeOf[p] = info.Size()
			bucketCount[info.Size()]++
		}
	}

	var candidates []string
	isCandidate := make(map[string]bool)
	for _, p := range paths {
		if size, ok := sizeOf[p]; ok && bucketCount[size] > 1 {
			candidates = append(candidates, p)
			isCandidate[p] = true
		}
	}

	// Stage 2: partial signatures for candidates, computed on the wide pool.
	// Candidates are grouped by (size, signature); groups that end up with a
	// single member fall back to singleton treatment.
	sigs := d.partialSignatures(candidates)

	exactGroups := make(map[string][]FileRecord)
	var groupOrder []string
	for i, p := range candidates {
		if sigs[i] == "" {
			continue
		}
		key := fmt.Sprintf("%d_%s", sizeOf[p], sigs[i])
		if _, seen := exactGroups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		exactGroups[key] = append(exactGroups[key], FileRecord{
			Path:      p,
			Filename:  filepath.Base(p),
			SizeBytes: sizeOf[p],
		})
	}

	groupOf := make(map[string]string)
	survivors := groupOrder[:0]
	for _, key := range groupOrder {
		members := exactGroups[key]
		if len(members) < 2 {
			delete(exactGroups, key)
			continue
		}
		survivors = append(survivors, key)
		for _, m := range members {
			groupOf[m.Path] = key
		}
	}
	groupOrder = survivors

	// Stage 3: the visual scan set is every non-candidate in input order,
	// then candidates that fell out of exact grouping, then one
	// representative per exact group in first-seen order. This order is the
	// deterministic traversal order for group extraction.
	var scanSet []string
	for _, p := range paths {
		if !isCandidate[p] {
			scanSet = append(scanSet, p)
		}
	}
	for _, p := range candidates {
		if _, grouped := groupOf[p]; !grouped {
			scanSet = append(scanSet, p)
		}
	}
	for _, key := range groupOrder {
		scanSet = append(scanSet, exactGroups[key][0].Path)
	}

	// Stage 4: perceptual fingerprints on the narrow pool, consulting the
	// cache first. Failed items are dropped and counted; order is preserved.
	hashed := d.fingerprintAll(scanSet, runID, &errCount)

	// Stage 5: similarity index plus a reverse map from fingerprint value to
	// every owning item, since distinct files may share a fingerprint.
	tree := &bktree.Tree{}
	owners := make(map[fingerprint.Fingerprint][]int)
	for i, h := range hashed {
		tree.Insert(h.fp)
		owners[h.fp] = append(owners[h.fp], i)
	}

	// Stage 6: claim groups in scan-set order. Every queried item matches at
	// least itself at distance 0, and claimed representatives pull their
	// exact-duplicate siblings back into the group.
	visited := make(map[int]bool)
	var groups []Group
	for i := range hashed {
		if visited[i] {
			continue
		}

		var claimed []int
		for _, match := range tree.Query(hashed[i].fp, threshold) {
			for _, idx := range owners[match.Fingerprint] {
				if !visited[idx] {
					visited[idx] = true
					claimed = append(claimed, idx)
				}
			}
		}
		sort.Ints(claimed)

		var members []FileRecord
		for _, idx := range claimed {
			rep := hashed[idx].rec
			members = append(members, rep)
			if key, ok := groupOf[rep.Path]; ok {
				for _, sibling := range exactGroups[key] {
					if sibling.Path != rep.Path {
						members = append(members, sibling)
					}
				}
			}
		}
		if len(members) > 1 {
			groups = append(groups, Group{Members: members})
		}
	}

	// Finalize: a failed flush only costs cache misses on the next run.
	if err := d.cache.Flush(); err != nil {
		fmt.Printf("Warning: failed to persist fingerprint cache: %v\n", err)
	}

	total := 0
	for _, g := range groups {
		total += len(g.Members) - 1
	}

	return &Result{
		Groups:          groups,
		TotalDuplicates: total,
		Processed:       len(paths),
		Errors:          int(errCount.Load()),
	}, nil
}

// partialSignatures computes content signatures for every candidate with a
// bounded worker pool. A failed signature leaves an empty slot; the caller
// treats that path as a singleton.
func (d *Detector) partialSignatures(candidates []string) []string {
	sigs := make([]string, len(candidates))
	if len(candidates) == 0 {
		return sigs
	}

	jobs := make(chan int)
	var group errgroup.Group
	for w := 0; w < d.hashWorkers; w++ {
		group.Go(func() error {
			for idx := range jobs {
				if sig, err := fingerprint.PartialSignature(candidates[idx]); err == nil {
					sigs[idx] = sig
				}
			}
			return nil
		})
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	_ = group.Wait() // workers never return errors; failures drop the file

	return sigs
}

// fingerprintAll resolves a fingerprint for every scan-set item, via cache or
// fresh computation, and compacts the successes preserving scan-set order.
func (d *Detector) fingerprintAll(scanSet []string, runID string, errCount *atomic.Int64) []hashedImage {
	slots := make([]*hashedImage, len(scanSet))
	if len(scanSet) > 0 {
		jobs := make(chan int)
		var group errgroup.Group
		for w := 0; w < d.decodeWorkers; w++ {
			group.Go(func() error {
				for idx := range jobs {
					slots[idx] = d.fingerprintOne(scanSet[idx], runID, errCount)
				}
				return nil
			})
		}
		for i := range scanSet {
			jobs <- i
		}
		close(jobs)
		_ = group.Wait()
	}

	hashed := make([]hashedImage, 0, len(scanSet))
	for _, slot := range slots {
		if slot != nil {
			hashed = append(hashed, *slot)
		}
	}
	return hashed
}

// fingerprintOne handles a single item: stat, cache lookup, and on a miss the
// decode-and-hash slow path. Returns nil when the file must be dropped.
func (d *Detector) fingerprintOne(path, runID string, errCount *atomic.Int64) *hashedImage {
	info, err := os.Stat(path)
	if err != nil {
		errCount.Add(1)
		return nil
	}

	rec := FileRecord{
		Path:      path,
		Filename:  filepath.Base(path),
		SizeBytes: info.Size(),
	}
	mtime := info.ModTime().Unix()

	if fp, ok := d.cache.Lookup(path, mtime); ok && fp.Algo == d.algo {
		d.emit(Event{RunID: runID, Path: path})
		return &hashedImage{rec: rec, fp: fp}
	}

	img, err := fingerprint.LoadImage(path)
	if err != nil {
		errCount.Add(1)
		return nil
	}
	fp, err := fingerprint.Compute(img, d.algo)
	if err != nil {
		errCount.Add(1)
		return nil
	}

	d.cache.Record(path, mtime, fp)
	d.emit(Event{RunID: runID, Path: path})
	return &hashedImage{rec: rec, fp: fp}
}

func (d *Detector) emit(ev Event) {
	if d.notify != nil {
		d.notify(ev)
	}
}
