// Package classify assigns a description, a rarity category and a sort
// priority to symbols that have no entry in the keycode mapping table.
package classify

import (
	"regexp"
	"strings"

	"github.com/conneroisu/keymapdoc/internal/layers"
)

// Categories.
const (
	CategoryNumbers     = "numbers"
	CategoryCommon      = "common"
	CategoryNonPrinting = "non-printing"
	CategorySpecial     = "special"
	CategoryCommands    = "commands"
	CategoryRare        = "rare"
)

// Priorities; lower sorts first.
const (
	PriorityNumbers = 1
	PriorityCommon  = 2
	PrioritySpecial = 3
	PriorityRare    = 4
)

// Result is the outcome of classifying one label.
type Result struct {
	Category    string
	Priority    int
	Description string
}

var (
	keypadPattern   = regexp.MustCompile(`^KP_\d+$`)
	functionPattern = regexp.MustCompile(`^F\d+$`)
)

var commandPrefixes = []string{"Cmd+", "Ctrl+", "Alt+", "Shift+"}

var symbolLayers = map[string]struct{}{
	layers.Symbol:      {},
	layers.ShiftSymbol: {},
}

var baseLayers = map[string]struct{}{
	layers.Base:         {},
	layers.BaseShift:    {},
	layers.BaseAlt:      {},
	layers.BaseShiftAlt: {},
}

var curlyQuotes = map[string]struct{}{
	"“": {}, "”": {}, "‘": {}, "’": {},
}

// Currency signs that count as common only when typed from the base layers.
var baseCurrencies = map[string]struct{}{
	"€": {}, "£": {},
}

// Label classifies label as typed on layer. The first matching rule wins.
func Label(label, layer string) Result {
	switch {
	case keypadPattern.MatchString(label):
		return Result{CategoryNumbers, PriorityNumbers, "Keypad " + strings.TrimPrefix(label, "KP_")}
	case functionPattern.MatchString(label):
		return Result{CategoryNonPrinting, PrioritySpecial, "Function key " + label}
	case isCommand(label):
		return Result{CategoryCommands, PriorityRare, label}
	case label == "Repeat":
		return Result{CategorySpecial, PrioritySpecial, "Repeat last key"}
	case label == "Alt Repeat":
		return Result{CategorySpecial, PrioritySpecial, "Alternate repeat"}
	case strings.Contains(label, "Word"):
		return Result{CategorySpecial, PrioritySpecial, label}
	}

	desc, known := Describe(label)

	if _, ok := symbolLayers[layer]; ok {
		if !known {
			desc = label
		}
		return Result{CategoryRare, PriorityRare, desc}
	}

	if !known {
		return Result{CategoryCommon, PriorityCommon, label}
	}

	if _, ok := curlyQuotes[label]; ok {
		return Result{CategoryRare, PriorityRare, desc}
	}
	if _, ok := baseCurrencies[label]; ok {
		if _, onBase := baseLayers[layer]; !onBase {
			return Result{CategoryRare, PriorityRare, desc}
		}
	}

	return Result{CategoryCommon, PriorityCommon, desc}
}

func isCommand(label string) bool {
	for _, prefix := range commandPrefixes {
		if strings.Contains(label, prefix) {
			return true
		}
	}
	return false
}
