package registry

import (
	"slices"

	"github.com/conneroisu/keymapdoc/internal/keymap"
)

// symbolIndex maps each symbol to the ids of the keymaps that can type it.
// It is guarded by the registry's mutex.
type symbolIndex struct {
	bySymbol map[string]map[string]struct{}
}

func newSymbolIndex() *symbolIndex {
	return &symbolIndex{bySymbol: make(map[string]map[string]struct{})}
}

func (x *symbolIndex) add(data *keymap.Data) {
	for _, entry := range data.AllSymbols {
		ids, ok := x.bySymbol[entry.Symbol]
		if !ok {
			ids = make(map[string]struct{})
			x.bySymbol[entry.Symbol] = ids
		}
		ids[data.ID] = struct{}{}
	}
}

func (x *symbolIndex) remove(data *keymap.Data) {
	for _, entry := range data.AllSymbols {
		ids, ok := x.bySymbol[entry.Symbol]
		if !ok {
			continue
		}
		delete(ids, data.ID)
		if len(ids) == 0 {
			delete(x.bySymbol, entry.Symbol)
		}
	}
}

// keymaps returns the ids typing symbol, sorted.
func (x *symbolIndex) keymaps(symbol string) []string {
	ids := make([]string, 0, len(x.bySymbol[symbol]))
	for id := range x.bySymbol[symbol] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (x *symbolIndex) all() []string {
	symbols := make([]string, 0, len(x.bySymbol))
	for s := range x.bySymbol {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)
	return symbols
}
