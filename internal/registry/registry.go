// Package registry keeps the most recent build of every keymap and notifies
// watchers when keymaps are added, rebuilt or removed.
package registry

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/conneroisu/keymapdoc/internal/keymap"
	"github.com/conneroisu/keymapdoc/internal/types"
)

const watcherBuffer = 100

// KeymapRegistry is a concurrency-safe store of built keymaps keyed by id.
type KeymapRegistry struct {
	keymaps  map[string]*keymap.Data
	paths    map[string]string
	symbols  *symbolIndex
	mutex    sync.RWMutex
	watchers []chan types.KeymapEvent
}

// NewKeymapRegistry creates an empty registry.
func NewKeymapRegistry() *KeymapRegistry {
	return &KeymapRegistry{
		keymaps:  make(map[string]*keymap.Data),
		paths:    make(map[string]string),
		symbols:  newSymbolIndex(),
		watchers: make([]chan types.KeymapEvent, 0),
	}
}

// Register adds or replaces a keymap.
func (r *KeymapRegistry) Register(data *keymap.Data) {
	if data == nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := types.EventTypeAdded
	if old, exists := r.keymaps[data.ID]; exists {
		eventType = types.EventTypeUpdated
		r.symbols.remove(old)
		delete(r.paths, cleanPath(old.LayoutFile))
	}

	r.keymaps[data.ID] = data
	r.paths[cleanPath(data.LayoutFile)] = data.ID
	r.symbols.add(data)

	r.notify(types.KeymapEvent{Type: eventType, ID: data.ID, Timestamp: time.Now()})
}

// Remove deletes a keymap. Removing an unknown id is a no-op.
func (r *KeymapRegistry) Remove(id string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	data, exists := r.keymaps[id]
	if !exists {
		return
	}

	delete(r.keymaps, id)
	delete(r.paths, cleanPath(data.LayoutFile))
	r.symbols.remove(data)

	r.notify(types.KeymapEvent{Type: types.EventTypeRemoved, ID: id, Timestamp: time.Now()})
}

// Get retrieves a keymap by id.
func (r *KeymapRegistry) Get(id string) (*keymap.Data, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	data, exists := r.keymaps[id]
	return data, exists
}

// IDForPath returns the id of the keymap built from the layout file path.
func (r *KeymapRegistry) IDForPath(path string) (string, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, ok := r.paths[cleanPath(path)]
	return id, ok
}

// All returns every keymap sorted by id.
func (r *KeymapRegistry) All() []*keymap.Data {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ids := make([]string, 0, len(r.keymaps))
	for id := range r.keymaps {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	result := make([]*keymap.Data, len(ids))
	for i, id := range ids {
		result[i] = r.keymaps[id]
	}
	return result
}

// Lookup returns the catalog entries typing symbol in every registered
// keymap, keymaps ordered by id.
func (r *KeymapRegistry) Lookup(symbol string) []keymap.Match {
	r.mutex.RLock()
	ids := r.symbols.keymaps(symbol)
	candidates := make([]*keymap.Data, 0, len(ids))
	for _, id := range ids {
		candidates = append(candidates, r.keymaps[id])
	}
	r.mutex.RUnlock()

	return keymap.Lookup(candidates, symbol)
}

// Symbols returns every distinct symbol across registered keymaps, sorted.
func (r *KeymapRegistry) Symbols() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.symbols.all()
}

// Watch returns a channel that receives keymap events. Events are dropped
// for a watcher whose buffer is full.
func (r *KeymapRegistry) Watch() <-chan types.KeymapEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.KeymapEvent, watcherBuffer)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it.
func (r *KeymapRegistry) UnWatch(ch <-chan types.KeymapEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered keymaps.
func (r *KeymapRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.keymaps)
}

// notify must be called with the write lock held.
func (r *KeymapRegistry) notify(event types.KeymapEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
		}
	}
}

func cleanPath(path string) string {
	return filepath.Clean(path)
}
