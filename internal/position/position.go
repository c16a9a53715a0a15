// Package position maps flattened key indexes of a split 3x5+2 layout to
// ergonomic coordinate codes.
//
// A code is three letters: hand (L/R), finger (P pinky, R ring, M middle,
// I index, E index-extension, T thumb) and row (T top, H home, B bottom) or,
// for thumbs, I inner / O outer.
package position

import "strconv"

// table is laid out as three rows of ten keys (five per hand) followed by
// the four thumb keys.
var table = [...]string{
	"LPT", "LRT", "LMT", "LIT", "LET",
	"RET", "RIT", "RMT", "RRT", "RPT",

	"LPH", "LRH", "LMH", "LIH", "LEH",
	"REH", "RIH", "RMH", "RRH", "RPH",

	"LPB", "LRB", "LMB", "LIB", "LEB",
	"REB", "RIB", "RMB", "RRB", "RPB",

	"LTO", "LTI",
	"RTI", "RTO",
}

// Thumb key codes referenced by modifier notations.
const (
	LeftThumbInner  = "LTI"
	RightThumbInner = "RTI"
)

// Coordinate returns the code for index. Indexes outside the table, which
// happen for layouts with more or fewer keys, fall back to "pos<N>".
func Coordinate(index int) string {
	if index >= 0 && index < len(table) {
		return table[index]
	}
	return "pos" + strconv.Itoa(index)
}
