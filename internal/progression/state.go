package progression

import (
	"slices"

	"github.com/desertthunder/chordgen/internal/models"
)

// CatalogStatus tracks the one-shot chord catalog load.
type CatalogStatus int

const (
	CatalogPending CatalogStatus = iota
	CatalogLoading
	CatalogLoaded
	CatalogFailed
)

func (s CatalogStatus) String() string {
	switch s {
	case CatalogPending:
		return "pending"
	case CatalogLoading:
		return "loading"
	case CatalogLoaded:
		return "loaded"
	case CatalogFailed:
		return "failed"
	default:
		return ""
	}
}

// State is the complete client state. Read it through [Controller.State]; copies are detached from the controller.
type State struct {
	Params      models.GenerationParameters
	Selected    []models.ChordLabel
	Options     []models.SelectionOption
	Catalog     CatalogStatus
	CatalogErr  error
	Progression models.ChordProgression
	DownloadRef *models.DownloadReference
	Generating  bool
	Notice      string
	Err         error
	Generations int
}

// clone returns a deep copy so callers cannot mutate controller-owned slices.
func (s State) clone() State {
	c := s
	c.Selected = slices.Clone(s.Selected)
	c.Options = slices.Clone(s.Options)
	c.Progression = slices.Clone(s.Progression)
	if s.DownloadRef != nil {
		ref := *s.DownloadRef
		c.DownloadRef = &ref
	}
	return c
}

// HasDownload reports whether a download reference is available.
func (s State) HasDownload() bool {
	return s.DownloadRef != nil
}

// IsSelected reports whether label is part of the seed.
func (s State) IsSelected(label models.ChordLabel) bool {
	return slices.Contains(s.Selected, label)
}
