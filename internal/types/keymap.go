// Package types holds the records shared by discovery, the registry and the
// build pipeline. Keeping them here avoids import cycles between those
// packages.
package types

import "time"

// KeymapInfo identifies one discovered layout file.
type KeymapInfo struct {
	// ID is the keyboard path segments and keymap name joined with "-".
	// It names output directories and generated files.
	ID string `json:"id" yaml:"id"`
	// Keyboard is the keyboard path below the keyboards root, "/"-separated.
	Keyboard string `json:"keyboard" yaml:"keyboard"`
	// Keymap is the directory name under "keymaps".
	Keymap string `json:"keymap" yaml:"keymap"`
	// Path is the layout file location.
	Path string `json:"path" yaml:"path"`
}

// EventType represents the type of keymap change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// KeymapEvent is a change in the keymap registry.
type KeymapEvent struct {
	Type EventType
	// ID of the affected keymap. Always set, including for removals.
	ID string
	// Timestamp records when the event occurred.
	Timestamp time.Time
}
