package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conneroisu/keymapdoc/internal/layers"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		layer string
		want  Result
	}{
		{"keypad digit", "KP_7", layers.Nav, Result{CategoryNumbers, 1, "Keypad 7"}},
		{"keypad on symbol layer", "KP_0", layers.Symbol, Result{CategoryNumbers, 1, "Keypad 0"}},
		{"function key", "F12", layers.Nav, Result{CategoryNonPrinting, 3, "Function key F12"}},
		{"command combo", "Cmd+C", layers.Base, Result{CategoryCommands, 4, "Cmd+C"}},
		{"command combo on unknown layer", "Ctrl+Shift+Tab", "MEDIA", Result{CategoryCommands, 4, "Ctrl+Shift+Tab"}},
		{"repeat", "Repeat", layers.Base, Result{CategorySpecial, 3, "Repeat last key"}},
		{"alt repeat", "Alt Repeat", layers.Base, Result{CategorySpecial, 3, "Alternate repeat"}},
		{"word motion", "Next Word", layers.Nav, Result{CategorySpecial, 3, "Next Word"}},
		{"symbol layer known", "π", layers.Symbol, Result{CategoryRare, 4, "Pi"}},
		{"symbol layer unknown", "☃", layers.ShiftSymbol, Result{CategoryRare, 4, "☃"}},
		{"symbol layer plain punctuation", "@", layers.Symbol, Result{CategoryRare, 4, "At sign"}},
		{"base punctuation", "@", layers.BaseAlt, Result{CategoryCommon, 2, "At sign"}},
		{"curly quote on base", "“", layers.BaseAlt, Result{CategoryRare, 4, "Opening double quote"}},
		{"curly quote elsewhere", "’", layers.Nav, Result{CategoryRare, 4, "Closing single quote"}},
		{"euro on base alt", "€", layers.BaseShiftAlt, Result{CategoryCommon, 2, "Euro sign"}},
		{"pound on base", "£", layers.Base, Result{CategoryCommon, 2, "Pound sterling"}},
		{"pound on nav", "£", layers.Nav, Result{CategoryRare, 4, "Pound sterling"}},
		{"euro on symbol", "€", layers.Symbol, Result{CategoryRare, 4, "Euro sign"}},
		{"unknown label", "Mute", layers.Nav, Result{CategoryCommon, 2, "Mute"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.label, tt.layer))
		})
	}
}

func TestDescribe(t *testing.T) {
	desc, ok := Describe("ˆ")
	assert.True(t, ok)
	assert.Equal(t, "Circumflex", desc)

	desc, ok = Describe("~")
	assert.True(t, ok)
	assert.Equal(t, "Tilde", desc)

	_, ok = Describe("KP_1")
	assert.False(t, ok)
}

func TestBuildDescriptionsLastDefinitionWins(t *testing.T) {
	m := buildDescriptions(
		[]entry{{"x", "first"}, {"y", "why"}},
		[]entry{{"x", "second"}},
	)

	assert.Equal(t, "second", m["x"])
	assert.Equal(t, "why", m["y"])
	assert.Len(t, m, 2)
}
