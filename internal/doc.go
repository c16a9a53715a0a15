// Package internal contains the implementation packages of the keymapdoc
// CLI.
//
// # Package Organization
//
// Keymap processing, from raw key to catalog:
//
//   - keydef: raw layout cells to typed key definitions
//   - position: key index to hand/finger/row coordinate codes
//   - classify: category, priority and description of unmapped symbols
//   - symbolmap: keycode to symbol table (embedded, overridable)
//   - extract: the symbols one key produces, with how to reach them
//   - layers: declared layer names to real layers and modifier notation
//   - keymap: layout decoding, layer building and catalog aggregation
//
// Around it:
//
//   - scanner: discovery of layout files below the keyboards root
//   - build: bounded worker pool, content cache and metrics for batches
//   - registry: built keymaps by id, symbol index and change events
//   - renderer: layer images through the external keymap-drawer command
//   - cheatsheet: HTML cheat sheets
//   - watcher: debounced layout file watching
//   - config, logging, errors, types, version: ambient support
//
// # Failure Model
//
// A keymap that cannot be read or parsed is skipped and reported; it never
// stops a batch. A layout file outside the keyboards/<kb>/keymaps/<km>/
// structure fails discovery as a whole.
package internal
