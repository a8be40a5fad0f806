package models

import (
	"fmt"
	"math"

	"github.com/desertthunder/chordgen/internal/shared"
)

// ChordLabel identifies a chord, e.g. "Cmaj7". The client never interprets it.
type ChordLabel string

// SelectionOption is the display contract of the chord selector. Label and Value are always equal.
type SelectionOption struct {
	Label ChordLabel `json:"label"`
	Value ChordLabel `json:"value"`
}

// ChordProgression is an ordered sequence of generated chords.
type ChordProgression []ChordLabel

// DownloadReference locates the generated MIDI artifact (usually a backend-relative URL).
type DownloadReference string

// GenerationResult is what a successful generation yields. Both fields are replaced as a unit.
type GenerationResult struct {
	Progression ChordProgression  `json:"chord_progression"`
	DownloadRef DownloadReference `json:"midi_url"`
}

// GenerationRequest is a validated request: the parameters plus the ordered seed.
type GenerationRequest struct {
	Params GenerationParameters
	Seed   []ChordLabel
}

// Parameter bounds mirrored by the parameter panel.
const (
	MinLength          = 1
	MaxLength          = 8
	LengthStep         = 1
	MinTemperature     = 0.1
	MaxTemperature     = 2.0
	TemperatureStep    = 0.1
	MinRepetitiveness  = 0.0
	MaxRepetitiveness  = 4.0
	RepetitivenessStep = 1.0
	MinWindowSize      = 0
)

// GenerationParameters are the user-adjustable generation settings.
//
// Fields are independent; the only cross-check (seed length vs. Length) happens at request time.
type GenerationParameters struct {
	Length         int     `json:"length"`
	Temperature    float64 `json:"temperature"`
	Repetitiveness float64 `json:"repetitiveness"`
	WindowSize     int     `json:"window_size"`
}

// DefaultParameters returns the initial parameter values.
func DefaultParameters() GenerationParameters {
	return GenerationParameters{Length: 4, Temperature: 1.0, Repetitiveness: 2.0, WindowSize: 4}
}

// Validate reports the first field outside its range.
func (p GenerationParameters) Validate() error {
	if p.Length < MinLength || p.Length > MaxLength {
		return fmt.Errorf("%w: length must be between %d and %d, got %d", shared.ErrInvalidInput, MinLength, MaxLength, p.Length)
	}
	if p.Temperature < MinTemperature-1e-9 || p.Temperature > MaxTemperature+1e-9 {
		return fmt.Errorf("%w: temperature must be between %.1f and %.1f, got %v", shared.ErrInvalidInput, MinTemperature, MaxTemperature, p.Temperature)
	}
	if p.Repetitiveness < MinRepetitiveness || p.Repetitiveness > MaxRepetitiveness {
		return fmt.Errorf("%w: repetitiveness must be between %.0f and %.0f, got %v", shared.ErrInvalidInput, MinRepetitiveness, MaxRepetitiveness, p.Repetitiveness)
	}
	if p.WindowSize < MinWindowSize {
		return fmt.Errorf("%w: window size must not be negative, got %d", shared.ErrInvalidInput, p.WindowSize)
	}
	return nil
}

// StepLength moves Length by delta steps, clamped to its range.
func (p GenerationParameters) StepLength(delta int) GenerationParameters {
	p.Length = clampInt(p.Length+delta*LengthStep, MinLength, MaxLength)
	return p
}

// StepTemperature moves Temperature by delta steps of 0.1, clamped and rounded to one decimal.
func (p GenerationParameters) StepTemperature(delta int) GenerationParameters {
	t := math.Round((p.Temperature+float64(delta)*TemperatureStep)*10) / 10
	p.Temperature = math.Min(math.Max(t, MinTemperature), MaxTemperature)
	return p
}

// StepRepetitiveness moves Repetitiveness by delta whole steps, clamped to its range.
func (p GenerationParameters) StepRepetitiveness(delta int) GenerationParameters {
	r := math.Round(p.Repetitiveness + float64(delta)*RepetitivenessStep)
	p.Repetitiveness = math.Min(math.Max(r, MinRepetitiveness), MaxRepetitiveness)
	return p
}

// StepWindowSize moves WindowSize by delta. Only the lower bound is enforced.
func (p GenerationParameters) StepWindowSize(delta int) GenerationParameters {
	p.WindowSize = max(p.WindowSize+delta, MinWindowSize)
	return p
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Labels converts plain strings to chord labels.
func Labels(values ...string) []ChordLabel {
	labels := make([]ChordLabel, len(values))
	for i, v := range values {
		labels[i] = ChordLabel(v)
	}
	return labels
}

// Strings converts chord labels back to plain strings.
func Strings(labels []ChordLabel) []string {
	values := make([]string, len(labels))
	for i, l := range labels {
		values[i] = string(l)
	}
	return values
}
