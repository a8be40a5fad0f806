// Package ui implements the interactive chord progression client using bubbletea's Elm architecture.
//
// One screen holds every panel:
//   - parameters: length, temperature, repetitiveness and window size, stepped with ←/→
//   - chords: the catalog as a multi-select list; the seed keeps the order chords were picked in
//   - progression: one box per requested chord, four per row, blank until a generation fills it
//   - status: spinner while a request is in flight, the last error, the last saved path
//
// The (view) [Model] owns a progression.Controller and is the only writer of its state. Backend calls run as
// tea.Cmd functions and come back through the Msg union, so state changes only ever happen inside Update.
//
// A seed longer than the requested length is refused before any request is made and shows a blocking notice
// that must be dismissed with enter or esc. While a generation is in flight further generate presses are ignored.
package ui
