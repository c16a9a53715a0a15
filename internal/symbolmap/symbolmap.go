// Package symbolmap holds the keycode-to-symbol table used to turn keycodes
// into the characters they type.
//
// The table is configuration data. A default covering US QWERTY keycodes is
// embedded; a project can replace it with its own JSON file of the same
// shape:
//
//	{"KC_A": {"symbol": "a", "shiftedSymbol": "A", "description": "Lowercase a",
//	          "category": "letters", "priority": 0}}
package symbolmap

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

//go:embed symbol_mapping.json
var defaultMapping []byte

// Entry describes what one keycode types.
type Entry struct {
	Symbol        string `json:"symbol"`
	ShiftedSymbol string `json:"shiftedSymbol,omitempty"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Priority      int    `json:"priority"`
}

// Table is an immutable keycode lookup. The zero value is an empty table.
type Table struct {
	entries map[string]Entry
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Parse(defaultMapping)
	if err != nil {
		panic(fmt.Sprintf("symbolmap: embedded mapping is invalid: %v", err))
	}
	return t
})

// Default returns the embedded table. It is shared and must not be modified.
func Default() *Table {
	return defaultTable()
}

// Load reads a table from path. An empty path yields the embedded default.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading symbol mapping %s: %w", path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing symbol mapping %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a JSON table.
func Parse(data []byte) (*Table, error) {
	entries := make(map[string]Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return &Table{entries: entries}, nil
}

// New builds a table from entries. The map is copied.
func New(entries map[string]Entry) *Table {
	copied := make(map[string]Entry, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return &Table{entries: copied}
}

// Lookup returns the entry for keycode.
func (t *Table) Lookup(keycode string) (Entry, bool) {
	if t == nil || keycode == "" {
		return Entry{}, false
	}
	e, ok := t.entries[keycode]
	return e, ok
}

// Len returns the number of keycodes in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
