package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/chordgen/internal/shared"
)

var _ Record = (*Generation)(nil)

// Generation is a successful generation persisted to the history store.
type Generation struct {
	id          string
	sequence    int
	params      GenerationParameters
	seed        []ChordLabel
	progression ChordProgression
	downloadRef DownloadReference
	savedPath   string
	label       string
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewGeneration creates a Generation from the request that produced it and the backend's result.
func NewGeneration(sequence int, params GenerationParameters, seed []ChordLabel, result GenerationResult) *Generation {
	now := time.Now()
	return &Generation{
		sequence:    sequence,
		params:      params,
		seed:        append([]ChordLabel(nil), seed...),
		progression: append(ChordProgression(nil), result.Progression...),
		downloadRef: result.DownloadRef,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (g *Generation) ID() string                     { return g.id }
func (g *Generation) Sequence() int                  { return g.sequence }
func (g *Generation) Params() GenerationParameters   { return g.params }
func (g *Generation) Seed() []ChordLabel             { return g.seed }
func (g *Generation) Progression() ChordProgression  { return g.progression }
func (g *Generation) DownloadRef() DownloadReference { return g.downloadRef }
func (g *Generation) SavedPath() string              { return g.savedPath }
func (g *Generation) Label() string                  { return g.label }
func (g *Generation) CreatedAt() time.Time           { return g.createdAt }
func (g *Generation) UpdatedAt() time.Time           { return g.updatedAt }
func (g *Generation) DeletedAt() *time.Time          { return g.deletedAt }

// Result reconstructs the [GenerationResult] this record was created from.
func (g *Generation) Result() GenerationResult {
	return GenerationResult{Progression: g.progression, DownloadRef: g.downloadRef}
}

func (g *Generation) SetID(id string)           { g.id = id }
func (g *Generation) SetSequence(seq int)       { g.sequence = seq }
func (g *Generation) SetSavedPath(path string)  { g.savedPath = path }
func (g *Generation) SetLabel(label string)     { g.label = label }
func (g *Generation) SetCreatedAt(t time.Time)  { g.createdAt = t }
func (g *Generation) SetUpdatedAt(t time.Time)  { g.updatedAt = t }
func (g *Generation) SetDeletedAt(t *time.Time) { g.deletedAt = t }

// Validate requires valid parameters and a download reference. The progression may not exceed the requested length.
func (g *Generation) Validate() error {
	if err := g.params.Validate(); err != nil {
		return err
	}
	if g.downloadRef == "" {
		return fmt.Errorf("%w: download reference is required", shared.ErrInvalidInput)
	}
	if len(g.progression) > g.params.Length {
		return fmt.Errorf("%w: progression has %d chords, requested %d", shared.ErrInvalidInput, len(g.progression), g.params.Length)
	}
	return nil
}
