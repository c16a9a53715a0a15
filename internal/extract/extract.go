// Package extract derives the symbols a single parsed key can type, together
// with the exact notation needed to reach each one.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/conneroisu/keymapdoc/internal/classify"
	"github.com/conneroisu/keymapdoc/internal/keydef"
	"github.com/conneroisu/keymapdoc/internal/layers"
	"github.com/conneroisu/keymapdoc/internal/position"
	"github.com/conneroisu/keymapdoc/internal/symbolmap"
)

// Method tells whether a symbol is typed directly or with a held modifier.
type Method string

const (
	MethodDirect   Method = "direct"
	MethodModifier Method = "modifier"
)

// Access is one concrete way to type one symbol.
type Access struct {
	Symbol      string `json:"symbol" yaml:"symbol"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Priority    int    `json:"priority" yaml:"priority"`
	Layer       string `json:"layer" yaml:"layer"`
	Position    int    `json:"position" yaml:"position"`
	Coordinate  string `json:"coordinate" yaml:"coordinate"`
	Notation    string `json:"notation" yaml:"notation"`
	Method      Method `json:"method" yaml:"method"`
	KeyLabel    string `json:"keyLabel" yaml:"keyLabel"`
}

// Extractor turns keys into symbol accesses using a keycode table.
type Extractor struct {
	table *symbolmap.Table
}

// New returns an Extractor backed by table. A nil table behaves as empty.
func New(table *symbolmap.Table) *Extractor {
	return &Extractor{table: table}
}

// Key returns the symbols key types when pressed at index pos of layer.
func (e *Extractor) Key(key keydef.Key, layer string, pos int) []Access {
	switch k := key.(type) {
	case keydef.EmptyKey, keydef.HeldKey:
		return nil
	case keydef.ModTapKey:
		return e.Key(k.Tap, layer, pos)
	}

	coordinate := position.Coordinate(pos)
	method := MethodDirect
	if _, ok := layers.Modifier(layer); ok {
		method = MethodModifier
	}

	base := Access{
		Layer:      layer,
		Position:   pos,
		Coordinate: coordinate,
		Notation:   layers.Notation(layer, coordinate),
		Method:     method,
		KeyLabel:   key.Label(),
	}

	if entry, ok := e.table.Lookup(key.Keycode()); ok {
		return fromMapping(base, entry, key.Label())
	}

	switch key.(type) {
	case keydef.LabeledKey, keydef.CharKey:
		label := key.Label()
		if label == "" || label == keydef.EmptyLabel {
			return nil
		}
		c := classify.Label(label, layer)
		base.Symbol = label
		base.Description = c.Description
		base.Category = c.Category
		base.Priority = c.Priority
		return []Access{base}
	}

	return nil
}

func fromMapping(base Access, entry symbolmap.Entry, label string) []Access {
	base.Category = entry.Category
	base.Priority = entry.Priority

	if IsUppercase(label) {
		if entry.ShiftedSymbol == "" {
			return nil
		}
		base.Symbol = entry.ShiftedSymbol
		base.Description = ShiftedDescription(entry.ShiftedSymbol)
		return []Access{base}
	}

	if entry.Symbol == "" {
		return nil
	}
	base.Symbol = entry.Symbol
	base.Description = entry.Description
	return []Access{base}
}

// IsUppercase reports whether label is a single character that has a
// distinct lowercase form and is in its uppercase form. Caseless characters
// such as digits are never uppercase.
func IsUppercase(label string) bool {
	if utf8.RuneCountInString(label) != 1 {
		return false
	}
	return label == strings.ToUpper(label) && label != strings.ToLower(label)
}

// ShiftedDescription describes a shifted symbol: "Uppercase X" for ASCII
// capitals, the symbol itself otherwise.
func ShiftedDescription(symbol string) string {
	if len(symbol) == 1 && symbol[0] >= 'A' && symbol[0] <= 'Z' {
		return "Uppercase " + symbol
	}
	return symbol
}
