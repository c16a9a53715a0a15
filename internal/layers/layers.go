// Package layers resolves declared layer names to the real, physically
// switched layers they belong to, and to the modifier notation needed to
// reach modifier-only ("ghost") variants.
package layers

import "github.com/conneroisu/keymapdoc/internal/position"

// Declared layer names used by the reference layouts.
const (
	Base         = "BASE"
	BaseShift    = "BASE_SHIFT"
	BaseAlt      = "BASE_ALT"
	BaseShiftAlt = "BASE_SHIFT_ALT"
	Nav          = "NAV"
	AltNav       = "ALT_NAV"
	Symbol       = "SYMBOL"
	ShiftSymbol  = "SHIFT_SYMBOL"
)

// Real layer display names.
const (
	RealBase   = "Layer 0 (Base)"
	RealNav    = "Layer 1 (Nav)"
	RealSymbol = "Layer 2 (Symbol)"
)

// RealLayer describes one physically switched layer.
type RealLayer struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

var realLayers = []RealLayer{
	{ID: "layer0", Name: RealBase},
	{ID: "layer1", Name: RealNav},
	{ID: "layer2", Name: RealSymbol},
}

// RealLayers returns the fixed list of real layers in display order.
func RealLayers() []RealLayer {
	out := make([]RealLayer, len(realLayers))
	copy(out, realLayers)
	return out
}

var ghosts = map[string]struct{}{
	BaseShift:    {},
	BaseAlt:      {},
	BaseShiftAlt: {},
}

var owners = map[string]string{
	Base:        RealBase,
	Nav:         RealNav,
	AltNav:      RealNav,
	Symbol:      RealSymbol,
	ShiftSymbol: RealSymbol,
}

// Shift and Alt are one-shot modifiers on the inner thumb keys; pressing
// both reaches the shift+alt variant.
var modifiers = map[string]string{
	BaseShift:    position.LeftThumbInner,
	BaseAlt:      position.RightThumbInner,
	BaseShiftAlt: position.LeftThumbInner + "+" + position.RightThumbInner,
	ShiftSymbol:  position.LeftThumbInner,
	AltNav:       position.RightThumbInner,
}

// IsGhost reports whether name is a modifier-accessed view of the base layer.
func IsGhost(name string) bool {
	_, ok := ghosts[name]
	return ok
}

// Resolve returns the real layer name owns. Unknown names pass through
// unchanged.
func Resolve(name string) string {
	if IsGhost(name) {
		return RealBase
	}
	if real, ok := owners[name]; ok {
		return real
	}
	return name
}

// Modifier returns the notation of the key(s) that must be held to reach
// name, and false when the layer is reached without one.
func Modifier(name string) (string, bool) {
	mod, ok := modifiers[name]
	return mod, ok
}

// Notation prefixes coordinate with the modifier needed for layer, if any.
func Notation(layer, coordinate string) string {
	if mod, ok := Modifier(layer); ok {
		return mod + "+" + coordinate
	}
	return coordinate
}
