package keymap

// Match is one catalog entry of one keymap that types a looked-up symbol.
type Match struct {
	KeymapID string       `json:"keymapId" yaml:"keymapId"`
	Entry    CatalogEntry `json:"entry" yaml:"entry"`
}

// Lookup returns every catalog entry whose symbol equals symbol, across
// keymaps in the order given. Entries that share the symbol but differ in
// description are returned separately.
func Lookup(keymaps []*Data, symbol string) []Match {
	var matches []Match
	for _, km := range keymaps {
		if km == nil {
			continue
		}
		for _, entry := range km.AllSymbols {
			if entry.Symbol == symbol {
				matches = append(matches, Match{KeymapID: km.ID, Entry: entry})
			}
		}
	}
	return matches
}
