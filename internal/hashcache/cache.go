// Package hashcache persists perceptual fingerprints between detection runs.
// Entries are keyed by file path and validated against the file's
// modification time (second granularity); a stale mtime is an ordinary miss.
package hashcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dagslott/imagesort/internal/fingerprint"
)

const cacheFileName = "hash_cache.json"

// Entry is the persisted form of one cached fingerprint.
type Entry struct {
	Fingerprint string `json:"fingerprint"`
	Mtime       int64  `json:"mtime"`
}

// Cache is an in-memory fingerprint store backed by a single JSON file.
// Lookups take a read lock, inserts a write lock. Lookup followed by Record
// is deliberately not atomic: two workers may compute the same missing
// fingerprint concurrently and the last writer wins, which is idempotent.
type Cache struct {
	filePath string
	mutex    sync.RWMutex
	entries  map[string]Entry
	dirty    bool
}

// Open loads the cache stored under dir. A missing store starts empty; a
// corrupt or unreadable store is logged and also starts empty. Open never
// fails the caller.
func Open(dir string) *Cache {
	c := &Cache{
		filePath: filepath.Join(dir, cacheFileName),
		entries:  make(map[string]Entry),
	}

	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: failed to read fingerprint cache %s: %v\n", c.filePath, err)
		}
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		fmt.Printf("Warning: discarding corrupt fingerprint cache %s: %v\n", c.filePath, err)
		c.entries = make(map[string]Entry)
	}
	return c
}

// Lookup returns the cached fingerprint for path if the stored modification
// time exactly matches mtime. Any mismatch, including an undecodable stored
// value from an older engine version, is a miss.
func (c *Cache) Lookup(path string, mtime int64) (fingerprint.Fingerprint, bool) {
	c.mutex.RLock()
	entry, ok := c.entries[path]
	c.mutex.RUnlock()

	if !ok || entry.Mtime != mtime {
		return fingerprint.Fingerprint{}, false
	}
	fp, err := fingerprint.Decode(entry.Fingerprint)
	if err != nil {
		return fingerprint.Fingerprint{}, false
	}
	return fp, true
}

// Record upserts the fingerprint for path, overwriting any prior entry.
func (c *Cache) Record(path string, mtime int64, fp fingerprint.Fingerprint) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[path] = Entry{Fingerprint: fp.Encode(), Mtime: mtime}
	c.dirty = true
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// Flush serializes the whole map and atomically replaces the backing store.
// It is called once at the end of a detection run rather than per entry.
func (c *Cache) Flush() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("marshal fingerprint cache: %w", err)
	}

	tmp := c.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write fingerprint cache: %w", err)
	}
	if err := os.Rename(tmp, c.filePath); err != nil {
		return fmt.Errorf("replace fingerprint cache: %w", err)
	}

	c.dirty = false
	return nil
}

// Clear removes the backing store and empties the in-memory map.
func (c *Cache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]Entry)
	c.dirty = false
	if err := os.Remove(c.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove fingerprint cache: %w", err)
	}
	return nil
}
