//go:build property

package keydef

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSingleCharacterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("lowercase letters parse as chars with prefixed uppercase keycode", prop.ForAll(
		func(r rune) bool {
			s := string(r)
			key := Parse(s)
			return key.Kind() == KindChar &&
				key.Keycode() == KeycodePrefix+strings.ToUpper(s) &&
				key.Label() == s
		},
		gen.AlphaLowerChar(),
	))

	properties.Property("any char-kind key keeps its original label", prop.ForAll(
		func(r rune) bool {
			s := string(r)
			key := Parse(s)
			if key.Kind() != KindChar {
				return true
			}
			return key.Keycode() == KeycodePrefix+strings.ToUpper(s) && key.Label() == s
		},
		gen.Rune(),
	))

	properties.Property("parse never returns nil", prop.ForAll(
		func(s string) bool {
			return Parse(s) != nil && Parse(map[string]any{"t": s}) != nil
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
