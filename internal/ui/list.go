package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/chordgen/internal/models"
)

var _ list.Item = chordItem{}

// chordItem wraps [models.SelectionOption] to implement [list.Item]. order is the 1-based seed position, 0 when unselected.
type chordItem struct {
	option models.SelectionOption
	order  int
}

func (i chordItem) FilterValue() string { return string(i.option.Label) }
func (i chordItem) Title() string {
	if i.order > 0 {
		return fmt.Sprintf("[%d] %s", i.order, i.option.Label)
	}
	return fmt.Sprintf("[ ] %s", i.option.Label)
}
func (i chordItem) Description() string { return "" }

// chordItems builds list items for options, marking each selected label with its seed position.
func chordItems(options []models.SelectionOption, selected []models.ChordLabel) []list.Item {
	order := make(map[models.ChordLabel]int, len(selected))
	for i, l := range selected {
		order[l] = i + 1
	}

	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = chordItem{option: o, order: order[o.Value]}
	}
	return items
}
