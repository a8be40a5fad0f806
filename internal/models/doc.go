// Package models defines domain entities and persistence interfaces for the chordgen client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): values exchanged with the generation backend and the UI
//   - [ChordLabel] : opaque chord identifier owned by the backend
//   - [SelectionOption] : label/value pair shown by the chord selector
//   - [GenerationParameters] : user-adjustable generation settings
//   - [ChordProgression] : generated chord sequence
//   - [DownloadReference] : locator of the generated MIDI artifact
//   - [GenerationResult] : progression and reference, always applied together
//
// 2. Persistent Entities: database-backed models
//   - [Generation] : a successful generation recorded in the history store
//
// Persisted entities implement [Record]; [Store] is the matching data access contract with soft deletes.
package models
