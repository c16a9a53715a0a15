// Package keydef turns raw key entries from a layout file into typed key
// descriptors.
//
// A raw entry is whatever the YAML decoder produced for one cell of a layer
// grid: nil, a string, or a mapping with optional "type", "t" (tap) and "h"
// (hold) fields. Parse is total: anything it does not recognise becomes an
// UnknownKey rather than an error, so a single odd cell never stops a
// keymap from being processed.
package keydef

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind identifies the variant of a parsed key.
type Kind string

const (
	KindEmpty       Kind = "empty"
	KindLabeled     Kind = "labeled"
	KindKeycode     Kind = "keycode"
	KindChar        Kind = "char"
	KindModTap      Kind = "mod-tap"
	KindOneShotMod  Kind = "one-shot-mod"
	KindLayerSwitch Kind = "layer-switch"
	KindHeld        Kind = "held"
	KindUnknown     Kind = "unknown"
)

// KeycodePrefix is prepended to synthesized keycodes.
const KeycodePrefix = "KC_"

// EmptyLabel is the placeholder caption of an empty key.
const EmptyLabel = "—"

// HeldMarker is the value of the "type" field that marks a held modifier.
const HeldMarker = "held"

// Key is a parsed key definition. The set of implementations is closed;
// switch on the concrete type or on Kind().
type Key interface {
	Kind() Kind
	// Keycode returns the synthesized keycode, or "" when the key has none.
	Keycode() string
	// Label returns the display caption.
	Label() string

	isKey()
}

// EmptyKey is a null cell.
type EmptyKey struct{}

// LabeledKey is a free-form caption such as "Cmd+C" or "Alt Repeat".
type LabeledKey struct {
	Text string
}

// BasicKey is a named key resolved to a keycode ("Space", "ESC", "KP_ENTER").
type BasicKey struct {
	Code string
	Name string
}

// CharKey is a single character; Name keeps its original case.
type CharKey struct {
	Code string
	Name string
}

// ModTapKey sends Tap when tapped and acts as HoldMod while held.
type ModTapKey struct {
	Tap     Key
	HoldMod string
	Caption string
}

// OneShotModKey applies Modifier to the next keystroke only.
type OneShotModKey struct {
	Modifier string
	Code     string
}

// LayerSwitchKey moves to Target.
type LayerSwitchKey struct {
	Target string
	Code   string
}

// HeldKey is a physical modifier that is kept pressed to stay on a layer.
type HeldKey struct{}

// UnknownKey is anything Parse could not classify.
type UnknownKey struct {
	Raw string
}

func (EmptyKey) Kind() Kind              { return KindEmpty }
func (EmptyKey) Keycode() string         { return "" }
func (EmptyKey) Label() string           { return EmptyLabel }
func (LabeledKey) Kind() Kind            { return KindLabeled }
func (LabeledKey) Keycode() string       { return "" }
func (k LabeledKey) Label() string       { return k.Text }
func (BasicKey) Kind() Kind              { return KindKeycode }
func (k BasicKey) Keycode() string       { return k.Code }
func (k BasicKey) Label() string         { return k.Name }
func (CharKey) Kind() Kind               { return KindChar }
func (k CharKey) Keycode() string        { return k.Code }
func (k CharKey) Label() string          { return k.Name }
func (ModTapKey) Kind() Kind             { return KindModTap }
func (ModTapKey) Keycode() string        { return "" }
func (k ModTapKey) Label() string        { return k.Caption }
func (OneShotModKey) Kind() Kind         { return KindOneShotMod }
func (k OneShotModKey) Keycode() string  { return k.Code }
func (k OneShotModKey) Label() string    { return "OSM " + k.Modifier }
func (LayerSwitchKey) Kind() Kind        { return KindLayerSwitch }
func (k LayerSwitchKey) Keycode() string { return k.Code }
func (k LayerSwitchKey) Label() string   { return "→ " + k.Target }
func (HeldKey) Kind() Kind               { return KindHeld }
func (HeldKey) Keycode() string          { return "" }
func (HeldKey) Label() string            { return "(held)" }
func (UnknownKey) Kind() Kind            { return KindUnknown }
func (UnknownKey) Keycode() string       { return "" }
func (k UnknownKey) Label() string       { return k.Raw }

func (EmptyKey) isKey()       {}
func (LabeledKey) isKey()     {}
func (BasicKey) isKey()       {}
func (CharKey) isKey()        {}
func (ModTapKey) isKey()      {}
func (OneShotModKey) isKey()  {}
func (LayerSwitchKey) isKey() {}
func (HeldKey) isKey()        {}
func (UnknownKey) isKey()     {}

// namedKeycodes maps common key names to their keycodes. Checked before the
// all-caps rule so "Space" does not become KC_SPACE by accident of casing.
var namedKeycodes = map[string]string{
	"Space":  "KC_SPACE",
	"Esc":    "KC_ESC",
	"Tab":    "KC_TAB",
	"Enter":  "KC_ENTER",
	"BSpace": "KC_BSPC",
	"Repeat": "QK_REPEAT_KEY",
	"Trans":  "KC_TRNS",
	"Left":   "KC_LEFT",
	"Right":  "KC_RIGHT",
	"Up":     "KC_UP",
	"Down":   "KC_DOWN",
}

var (
	upperKeycodePattern = regexp.MustCompile(`^[A-Z_]+$`)
)

const (
	oneShotPrefix     = "OSM "
	layerSwitchPrefix = "TO("
)

// Parse converts one raw key entry into a Key.
func Parse(raw any) Key {
	switch v := raw.(type) {
	case nil:
		return EmptyKey{}
	case string:
		return parseString(v)
	case map[string]any:
		return parseMapping(v)
	default:
		return UnknownKey{Raw: fmt.Sprint(raw)}
	}
}

func parseString(s string) Key {
	if strings.ContainsAny(s, "+ ") {
		return LabeledKey{Text: s}
	}

	if code, ok := namedKeycodes[s]; ok {
		return BasicKey{Code: code, Name: s}
	}

	if upperKeycodePattern.MatchString(s) {
		return BasicKey{Code: KeycodePrefix + strings.ToUpper(s), Name: s}
	}

	if utf8.RuneCountInString(s) == 1 {
		return CharKey{Code: KeycodePrefix + strings.ToUpper(s), Name: s}
	}

	return LabeledKey{Text: s}
}

func parseMapping(m map[string]any) Key {
	if kind, ok := m["type"].(string); ok && kind == HeldMarker {
		return HeldKey{}
	}

	tap, hasTap := m["t"]
	if !hasTap {
		return UnknownKey{Raw: fmt.Sprint(m)}
	}

	if hold, hasHold := m["h"]; hasHold {
		holdMod := fmt.Sprint(hold)
		return ModTapKey{
			Tap:     Parse(tap),
			HoldMod: holdMod,
			Caption: fmt.Sprintf("%v (%s hold)", displayValue(tap), holdMod),
		}
	}

	if s, ok := tap.(string); ok {
		if strings.HasPrefix(s, oneShotPrefix) {
			mod := strings.TrimPrefix(s, oneShotPrefix)
			return OneShotModKey{
				Modifier: mod,
				Code:     fmt.Sprintf("OSM(MOD_L%s)", strings.ToUpper(mod)),
			}
		}
		if strings.HasPrefix(s, layerSwitchPrefix) {
			return LayerSwitchKey{Target: switchTarget(s), Code: s}
		}
	}

	return Parse(tap)
}

// switchTarget drops the "TO(" prefix and the final character, whatever it
// is, so a malformed switch still names a layer and never types a symbol.
func switchTarget(s string) string {
	if len(s) <= len(layerSwitchPrefix) {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[len(layerSwitchPrefix) : len(s)-size]
}

func displayValue(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}
