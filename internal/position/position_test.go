package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinate(t *testing.T) {
	assert.Len(t, table, 34)

	assert.Equal(t, "LPT", Coordinate(0))
	assert.Equal(t, "RPT", Coordinate(9))
	assert.Equal(t, "LPH", Coordinate(10))
	assert.Equal(t, "RPH", Coordinate(19))
	assert.Equal(t, "LPB", Coordinate(20))
	assert.Equal(t, "LTO", Coordinate(30))
	assert.Equal(t, LeftThumbInner, Coordinate(31))
	assert.Equal(t, RightThumbInner, Coordinate(32))
	assert.Equal(t, "RTO", Coordinate(33))
}

func TestCoordinateFallback(t *testing.T) {
	assert.Equal(t, "pos34", Coordinate(34))
	assert.Equal(t, "pos120", Coordinate(120))
	assert.Equal(t, "pos-1", Coordinate(-1))
}

func TestCodesAreUnique(t *testing.T) {
	seen := make(map[string]int)
	for i := 0; i < len(table); i++ {
		code := Coordinate(i)
		prev, dup := seen[code]
		assert.False(t, dup, "code %s used at %d and %d", code, prev, i)
		assert.Len(t, code, 3)
		seen[code] = i
	}
}
