package repositories

import (
	"fmt"

	"github.com/desertthunder/chordgen/internal/models"
)

// HistoryRecorder stores successful generations and the paths they were saved to.
//
// A disabled recorder accepts every call and stores nothing, so callers never branch on the history setting.
type HistoryRecorder struct {
	repo    *GenerationRepository
	enabled bool
}

// NewHistoryRecorder creates a HistoryRecorder; a nil repo behaves as disabled.
func NewHistoryRecorder(repo *GenerationRepository, enabled bool) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, enabled: enabled && repo != nil}
}

// Enabled reports whether generations are persisted.
func (h *HistoryRecorder) Enabled() bool {
	return h != nil && h.enabled
}

// Record persists a generation and returns it. A disabled recorder returns (nil, nil).
func (h *HistoryRecorder) Record(req models.GenerationRequest, result models.GenerationResult) (*models.Generation, error) {
	if !h.Enabled() {
		return nil, nil
	}

	g := models.NewGeneration(0, req.Params, req.Seed, result)
	if err := h.repo.Create(g); err != nil {
		return nil, fmt.Errorf("failed to record generation: %w", err)
	}
	return g, nil
}

// MarkSaved stores where the artifact of g was written. Nil generations are ignored.
func (h *HistoryRecorder) MarkSaved(g *models.Generation, path string) error {
	if !h.Enabled() || g == nil || path == "" {
		return nil
	}

	g.SetSavedPath(path)
	if err := h.repo.Update(g); err != nil {
		return fmt.Errorf("failed to record saved path: %w", err)
	}
	return nil
}
