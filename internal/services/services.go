// package services defines the [Backend] interface for the chord generation backend and its HTTP implementation
package services

import (
	"context"
	"io"

	"github.com/desertthunder/chordgen/internal/models"
)

// Backend is the generation backend as seen by the client.
type Backend interface {
	// Chords fetches the full set of selectable chord labels.
	Chords(ctx context.Context) ([]models.ChordLabel, error)

	// Generate requests a progression for the given parameters and seed.
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error)

	// Fetch opens the artifact behind a download reference. Callers close the reader.
	Fetch(ctx context.Context, ref models.DownloadReference) (io.ReadCloser, error)

	// Resolve turns a download reference into an absolute URL.
	Resolve(ref models.DownloadReference) (string, error)
}

// chordsResponse is the body of GET /chords.
type chordsResponse struct {
	AllChords *[]string `json:"all_chords"`
}

// generateResponse is the body of POST /generate.
type generateResponse struct {
	ChordProgression *[]string `json:"chord_progression"`
	MidiURL          string    `json:"midi_url"`
}

// generatePayload is the body of POST /generate. SelectedChords holds either []string or []models.SelectionOption.
type generatePayload struct {
	Length         int     `json:"length"`
	Temperature    float64 `json:"temperature"`
	Repetitiveness float64 `json:"repetitiveness"`
	WindowSize     int     `json:"window_size"`
	SelectedChords any     `json:"selected_chords"`
}
