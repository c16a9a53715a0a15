package build

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conneroisu/keymapdoc/internal/keymap"
)

func TestBuildCache(t *testing.T) {
	cache := NewBuildCache()
	data := &keymap.Data{ID: "x"}
	hash := ContentHash([]byte("layers: {}"))

	_, ok := cache.Get("a.yaml", hash)
	assert.False(t, ok)

	cache.Set("a.yaml", hash, data)
	got, ok := cache.Get("a.yaml", hash)
	assert.True(t, ok)
	assert.Same(t, data, got)

	_, ok = cache.Get("a.yaml", ContentHash([]byte("changed")))
	assert.False(t, ok)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)

	cache.Invalidate("a.yaml")
	assert.Equal(t, 0, cache.Len())

	cache.Set("b.yaml", hash, data)
	assert.Equal(t, 1, cache.Len())
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash([]byte("abc")), ContentHash([]byte("abc")))
	assert.NotEqual(t, ContentHash([]byte("abc")), ContentHash([]byte("abd")))
	assert.Len(t, ContentHash(nil), 8)
}
