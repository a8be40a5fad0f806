// package midi inspects the Standard MIDI Files produced by the generation backend.
package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/desertthunder/chordgen/internal/shared"
	"gitlab.com/gomidi/midi/v2/smf"
)

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Onset is a group of notes struck on the same tick.
type Onset struct {
	Tick int64
	Time time.Duration
	Keys []uint8
}

// Names returns the pitch names of the onset's keys, lowest first (e.g. "C4", "E4", "G4").
func (o Onset) Names() []string {
	names := make([]string, len(o.Keys))
	for i, k := range o.Keys {
		names[i] = KeyName(k)
	}
	return names
}

// Summary describes a MIDI artifact.
type Summary struct {
	Tracks     int
	Resolution uint16
	NoteOns    int
	Onsets     []Onset
	Duration   time.Duration
}

// KeyName returns the scientific pitch name for a MIDI key, with key 60 as C4.
func KeyName(key uint8) string {
	return fmt.Sprintf("%s%d", pitchClasses[key%12], int(key)/12-1)
}

// InspectFile reads and inspects the MIDI file at path.
func InspectFile(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Inspect(bytes.NewReader(data))
}

// Inspect parses r as an SMF and groups its note-ons into onsets ordered by tick.
func Inspect(r io.Reader) (summary *Summary, err error) {
	// smf can panic on truncated input
	defer func() {
		if rec := recover(); rec != nil {
			summary = nil
			err = fmt.Errorf("%w: %v", shared.ErrInvalidArtifact, rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArtifact, err)
	}

	summary = &Summary{Tracks: len(s.Tracks)}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		summary.Resolution = uint16(mt)
	}

	byTick := make(map[int64][]uint8)
	var lastTick int64
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			if event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
				summary.NoteOns++
				if !slices.Contains(byTick[absTicks], key) {
					byTick[absTicks] = append(byTick[absTicks], key)
				}
			}
		}
		lastTick = max(lastTick, absTicks)
	}

	ticks := make([]int64, 0, len(byTick))
	for tick := range byTick {
		ticks = append(ticks, tick)
	}
	slices.Sort(ticks)

	for _, tick := range ticks {
		keys := byTick[tick]
		slices.Sort(keys)
		summary.Onsets = append(summary.Onsets, Onset{
			Tick: tick,
			Time: time.Duration(s.TimeAt(tick)) * time.Microsecond,
			Keys: keys,
		})
	}
	summary.Duration = time.Duration(s.TimeAt(lastTick)) * time.Microsecond

	return summary, nil
}
