package build

import (
	"fmt"
	"hash/crc32"
	"sync"
	"sync/atomic"

	"github.com/conneroisu/keymapdoc/internal/keymap"
)

// BuildCache remembers the last Data built for each layout file together
// with a checksum of the content it was built from. Watch mode uses it to
// skip layout files whose content did not change.
type BuildCache struct {
	entries map[string]cacheEntry
	mutex   sync.RWMutex
	hits    int64
	misses  int64
}

type cacheEntry struct {
	hash string
	data *keymap.Data
}

// NewBuildCache creates an empty cache.
func NewBuildCache() *BuildCache {
	return &BuildCache{entries: make(map[string]cacheEntry)}
}

// ContentHash returns the CRC32 checksum of content.
func ContentHash(content []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(content))
}

// Get returns the Data cached for path if it was built from content with
// the given hash.
func (bc *BuildCache) Get(path, hash string) (*keymap.Data, bool) {
	bc.mutex.RLock()
	entry, ok := bc.entries[path]
	bc.mutex.RUnlock()

	if !ok || entry.hash != hash {
		atomic.AddInt64(&bc.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&bc.hits, 1)
	return entry.data, true
}

// Set stores data for path.
func (bc *BuildCache) Set(path, hash string, data *keymap.Data) {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()

	bc.entries[path] = cacheEntry{hash: hash, data: data}
}

// Invalidate drops the entry for path.
func (bc *BuildCache) Invalidate(path string) {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()

	delete(bc.entries, path)
}

// Len returns the number of cached layout files.
func (bc *BuildCache) Len() int {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	return len(bc.entries)
}

// Stats returns hit and miss counts.
func (bc *BuildCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&bc.hits), atomic.LoadInt64(&bc.misses)
}
