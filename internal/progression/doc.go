// Package progression holds the client-side state model for chord generation.
//
// # State
//
// [State] is the single record of everything the user can see or change: generation parameters, the selected seed chords,
// the chord catalog, the current progression and its download reference, the in-flight flag, and the last notice/error.
// It is owned by one [Controller] and mutated only through named transitions:
//
//   - [Controller.SetParameters], [Controller.SetSelection], [Controller.ToggleChord], [Controller.ClearSelection]
//   - [Controller.BeginCatalogLoad] / [Controller.ApplyCatalog]
//   - [Controller.BeginGeneration] / [Controller.ApplyGenerationResult] / [Controller.FailGeneration]
//   - [Controller.DismissNotice]
//
// The Begin/Apply pairs let an event loop (the bubbletea TUI) run the network call elsewhere and feed the outcome back as
// a message. [Controller.LoadCatalog] and [Controller.Generate] compose the pairs synchronously for CLI commands.
//
// The controller is not safe for concurrent use; exactly one goroutine (the event loop) owns it.
//
// # Rendering
//
// [Render] is a pure function of (length, progression) returning exactly length [Slot] values.
//
// # Downloads
//
// [Dispatcher] saves the artifact behind a download reference through a [Saver], once per call, and does nothing for a nil
// reference.
package progression
