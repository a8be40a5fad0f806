package progression

import "github.com/desertthunder/chordgen/internal/models"

// BlankSlot is shown in slots without a generated chord.
const BlankSlot = "   "

// Slot is one display box of the progression row.
type Slot struct {
	Index  int
	Label  string
	Filled bool
}

// Render returns exactly length slots in left-to-right order. Slot i holds progression[i] when present and [BlankSlot]
// otherwise; chords beyond length are not shown. A non-positive length renders nothing.
func Render(length int, progression models.ChordProgression) []Slot {
	if length <= 0 {
		return []Slot{}
	}

	slots := make([]Slot, length)
	for i := range slots {
		slots[i] = Slot{Index: i, Label: BlankSlot}
		if i < len(progression) && progression[i] != "" {
			slots[i].Label = string(progression[i])
			slots[i].Filled = true
		}
	}
	return slots
}

// ToOptions maps each catalog label to a selector option, preserving order.
func ToOptions(labels []models.ChordLabel) []models.SelectionOption {
	opts := make([]models.SelectionOption, len(labels))
	for i, l := range labels {
		opts[i] = models.SelectionOption{Label: l, Value: l}
	}
	return opts
}
