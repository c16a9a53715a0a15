package keymap

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/conneroisu/keymapdoc/internal/layers"
)

type dedupKey struct {
	symbol      string
	description string
}

// Aggregate merges the symbols of built into one entry per (symbol,
// description) pair. The first occurrence fixes category, priority and
// description; later ones only add access methods under their real layer.
// The result is sorted with SortCatalog.
func Aggregate(built []Layer) []CatalogEntry {
	index := make(map[dedupKey]int)
	catalog := make([]CatalogEntry, 0)

	for _, layer := range built {
		owner := layers.Resolve(layer.Name)
		for _, access := range layer.Symbols {
			key := dedupKey{symbol: access.Symbol, description: access.Description}
			i, seen := index[key]
			if !seen {
				i = len(catalog)
				index[key] = i
				catalog = append(catalog, CatalogEntry{
					Symbol:        access.Symbol,
					Description:   access.Description,
					Category:      access.Category,
					Priority:      access.Priority,
					AccessMethods: make(map[string][]AccessMethod),
				})
			}
			entry := &catalog[i]
			entry.AccessMethods[owner] = append(entry.AccessMethods[owner], methodOf(access))
		}
	}

	SortCatalog(catalog)
	return catalog
}

// SortCatalog orders entries by priority, then category, then symbol.
// Text is compared with the root collation; byte order breaks ties so the
// order is total.
func SortCatalog(entries []CatalogEntry) {
	cmp := NewTextComparer()
	slices.SortStableFunc(entries, func(a, b CatalogEntry) int {
		if a.Priority != b.Priority {
			if a.Priority < b.Priority {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
}

// TextComparer compares strings with the root collation. A collator is not
// safe for concurrent use, so each goroutine needs its own TextComparer.
type TextComparer struct {
	collator *collate.Collator
}

// NewTextComparer returns a comparer for the root locale.
func NewTextComparer() *TextComparer {
	return &TextComparer{collator: collate.New(language.Und)}
}

// Compare returns -1, 0 or 1. It returns 0 only for identical strings.
func (t *TextComparer) Compare(a, b string) int {
	if c := t.collator.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// ExtraLayers returns the keys of methods that are not real layers, sorted.
// Unknown layer names resolve to themselves and land here.
func ExtraLayers(methods map[string][]AccessMethod) []string {
	known := make(map[string]struct{})
	for _, rl := range layers.RealLayers() {
		known[rl.Name] = struct{}{}
	}

	var extra []string
	for name := range methods {
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return extra
}
