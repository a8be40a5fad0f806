// package formatter renders progressions and generation history as text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/chordgen/internal/midi"
	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/progression"
	"github.com/desertthunder/chordgen/internal/shared"
)

// Export formats accepted by [Export].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

const timeLayout = "2006-01-02 15:04"

// Slots renders the progression row as bracketed boxes, e.g. "[ C ][ G ][   ]".
func Slots(slots []progression.Slot) string {
	var b strings.Builder
	for _, s := range slots {
		fmt.Fprintf(&b, "[ %s ]", s.Label)
	}
	return b.String()
}

// Progression joins chord labels with " - ", or "(empty)" for no chords.
func Progression(p models.ChordProgression) string {
	if len(p) == 0 {
		return "(empty)"
	}
	return strings.Join(models.Strings(p), " - ")
}

// Parameters renders parameters on one line.
func Parameters(p models.GenerationParameters) string {
	return fmt.Sprintf("length=%d temperature=%.1f repetitiveness=%.0f window=%d", p.Length, p.Temperature, p.Repetitiveness, p.WindowSize)
}

// Generation renders one history entry in detail.
func Generation(g *models.Generation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d  %s\n", g.Sequence(), g.ID())
	if g.Label() != "" {
		fmt.Fprintf(&b, "Label:       %s\n", g.Label())
	}
	fmt.Fprintf(&b, "Created:     %s\n", g.CreatedAt().Local().Format(timeLayout))
	fmt.Fprintf(&b, "Parameters:  %s\n", Parameters(g.Params()))
	fmt.Fprintf(&b, "Seed:        %s\n", Progression(models.ChordProgression(g.Seed())))
	fmt.Fprintf(&b, "Progression: %s\n", Progression(g.Progression()))
	fmt.Fprintf(&b, "Slots:       %s\n", Slots(progression.Render(g.Params().Length, g.Progression())))
	fmt.Fprintf(&b, "MIDI:        %s\n", g.DownloadRef())
	if g.SavedPath() != "" {
		fmt.Fprintf(&b, "Saved to:    %s\n", g.SavedPath())
	}

	return b.String()
}

// Summary renders a MIDI inspection result.
func Summary(s *midi.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tracks:     %d\n", s.Tracks)
	fmt.Fprintf(&b, "Resolution: %d ticks/quarter\n", s.Resolution)
	fmt.Fprintf(&b, "Note-ons:   %d\n", s.NoteOns)
	fmt.Fprintf(&b, "Duration:   %s\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "Onsets:     %d\n", len(s.Onsets))
	for i, o := range s.Onsets {
		fmt.Fprintf(&b, "  %2d. %8s  %s\n", i+1, o.Time.Round(time.Millisecond), strings.Join(o.Names(), " "))
	}

	return b.String()
}

// ExportToCSV converts generations to CSV with columns: Sequence, ID, Created, Length, Temperature, Repetitiveness,
// WindowSize, Seed, Progression, MIDI, SavedPath, Label. Chord lists are space separated.
func ExportToCSV(gens []*models.Generation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "ID", "Created", "Length", "Temperature", "Repetitiveness", "WindowSize", "Seed", "Progression", "MIDI", "SavedPath", "Label"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, g := range gens {
		p := g.Params()
		record := []string{
			strconv.Itoa(g.Sequence()),
			g.ID(),
			g.CreatedAt().UTC().Format(time.RFC3339),
			strconv.Itoa(p.Length),
			strconv.FormatFloat(p.Temperature, 'f', 1, 64),
			strconv.FormatFloat(p.Repetitiveness, 'f', 0, 64),
			strconv.Itoa(p.WindowSize),
			strings.Join(models.Strings(g.Seed()), " "),
			strings.Join(models.Strings(g.Progression()), " "),
			string(g.DownloadRef()),
			g.SavedPath(),
			g.Label(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts generations to a Markdown document with one section per generation
func ExportToMarkdown(gens []*models.Generation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Chord Progressions\n\n")
	buf.WriteString(fmt.Sprintf("**Generations**: %d\n\n", len(gens)))

	for _, g := range gens {
		title := fmt.Sprintf("#%d", g.Sequence())
		if g.Label() != "" {
			title += " " + g.Label()
		}
		buf.WriteString(fmt.Sprintf("## %s\n\n", title))
		buf.WriteString(fmt.Sprintf("| %s |\n", strings.Join(slotLabels(g), " | ")))
		buf.WriteString(fmt.Sprintf("|%s\n\n", strings.Repeat(" --- |", g.Params().Length)))
		buf.WriteString(fmt.Sprintf("- **Parameters**: %s\n", Parameters(g.Params())))
		buf.WriteString(fmt.Sprintf("- **Seed**: %s\n", Progression(models.ChordProgression(g.Seed()))))
		buf.WriteString(fmt.Sprintf("- **MIDI**: `%s`\n", g.DownloadRef()))
		buf.WriteString(fmt.Sprintf("- **Created**: %s\n\n", g.CreatedAt().Local().Format(timeLayout)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts generations to plain text, one line per generation
func ExportToText(gens []*models.Generation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Generations: %d\n\n", len(gens)))
	for _, g := range gens {
		label := ""
		if g.Label() != "" {
			label = fmt.Sprintf(" (%s)", g.Label())
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", g.Sequence(), Progression(g.Progression()), label))
	}

	return buf.Bytes(), nil
}

type generationJSON struct {
	ID          string                      `json:"id"`
	Sequence    int                         `json:"sequence"`
	Label       string                      `json:"label,omitempty"`
	Params      models.GenerationParameters `json:"parameters"`
	Seed        []string                    `json:"selected_chords"`
	Progression []string                    `json:"chord_progression"`
	MidiURL     string                      `json:"midi_url"`
	SavedPath   string                      `json:"saved_path,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// ExportToJSON converts generations to an indented JSON array
func ExportToJSON(gens []*models.Generation) ([]byte, error) {
	out := make([]generationJSON, len(gens))
	for i, g := range gens {
		out[i] = generationJSON{
			ID:          g.ID(),
			Sequence:    g.Sequence(),
			Label:       g.Label(),
			Params:      g.Params(),
			Seed:        models.Strings(g.Seed()),
			Progression: models.Strings(g.Progression()),
			MidiURL:     string(g.DownloadRef()),
			SavedPath:   g.SavedPath(),
			CreatedAt:   g.CreatedAt().UTC(),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders gens in the named format.
func Export(gens []*models.Generation, format string) ([]byte, error) {
	switch format {
	case "", FormatText, "txt":
		return ExportToText(gens)
	case FormatMarkdown, "md":
		return ExportToMarkdown(gens)
	case FormatCSV:
		return ExportToCSV(gens)
	case FormatJSON:
		return ExportToJSON(gens)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders gens and writes them to path.
func WriteExport(gens []*models.Generation, format, path string) error {
	data, err := Export(gens, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func slotLabels(g *models.Generation) []string {
	slots := progression.Render(g.Params().Length, g.Progression())
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = strings.TrimSpace(s.Label)
		if labels[i] == "" {
			labels[i] = " "
		}
	}
	return labels
}
