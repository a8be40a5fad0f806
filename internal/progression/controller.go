package progression

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/services"
	"github.com/desertthunder/chordgen/internal/shared"
)

// Controller owns a [State] and the backend it talks to.
type Controller struct {
	state   State
	backend services.Backend
	logger  *log.Logger
}

// NewController creates a controller with the given initial parameters.
func NewController(backend services.Backend, params models.GenerationParameters, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Controller{
		state:   State{Params: params, Catalog: CatalogPending},
		backend: backend,
		logger:  logger,
	}
}

// State returns a detached copy of the current state.
func (c *Controller) State() State {
	return c.state.clone()
}

// Slots renders the current progression at the current length.
func (c *Controller) Slots() []Slot {
	return Render(c.state.Params.Length, c.state.Progression)
}

// SetParameters replaces all generation parameters after validating their ranges.
func (c *Controller) SetParameters(p models.GenerationParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.state.Params = p
	return nil
}

// UpdateParameters applies fn to the current parameters, keeping the old value when the result is invalid.
func (c *Controller) UpdateParameters(fn func(models.GenerationParameters) models.GenerationParameters) error {
	return c.SetParameters(fn(c.state.Params))
}

// SetSelection replaces the seed. Order is preserved; the length check is deferred to generation time.
func (c *Controller) SetSelection(labels []models.ChordLabel) {
	c.state.Selected = slices.Clone(labels)
}

// ToggleChord appends label to the seed, or removes it when already selected.
func (c *Controller) ToggleChord(label models.ChordLabel) {
	if i := slices.Index(c.state.Selected, label); i >= 0 {
		c.state.Selected = slices.Delete(c.state.Selected, i, i+1)
		return
	}
	c.state.Selected = append(c.state.Selected, label)
}

// ClearSelection empties the seed.
func (c *Controller) ClearSelection() {
	c.state.Selected = nil
}

// DismissNotice clears the blocking notice.
func (c *Controller) DismissNotice() {
	c.state.Notice = ""
}

// BeginCatalogLoad marks the catalog load as started.
//
// The catalog loads once per session; a new attempt is only allowed after a failure.
func (c *Controller) BeginCatalogLoad() error {
	switch c.state.Catalog {
	case CatalogLoading, CatalogLoaded:
		return fmt.Errorf("%w: status %s", shared.ErrCatalogLoaded, c.state.Catalog)
	}
	c.state.Catalog = CatalogLoading
	c.state.CatalogErr = nil
	return nil
}

// ApplyCatalog records the outcome of a catalog load. On error the options stay empty.
func (c *Controller) ApplyCatalog(labels []models.ChordLabel, err error) {
	if err != nil {
		c.state.Catalog = CatalogFailed
		c.state.CatalogErr = err
		c.state.Options = nil
		c.logger.Warn("chord catalog load failed", "error", err)
		return
	}

	c.state.Options = ToOptions(labels)
	c.state.Catalog = CatalogLoaded
	c.state.CatalogErr = nil
	c.logger.Info("chord catalog loaded", "count", len(labels))
}

// LoadCatalog fetches the catalog synchronously.
func (c *Controller) LoadCatalog(ctx context.Context) error {
	if err := c.BeginCatalogLoad(); err != nil {
		return err
	}
	labels, err := c.FetchCatalog(ctx)
	c.ApplyCatalog(labels, err)
	return err
}

// FetchCatalog calls the backend without touching state, so it can run off the event loop.
func (c *Controller) FetchCatalog(ctx context.Context) ([]models.ChordLabel, error) {
	return c.backend.Chords(ctx)
}

// BeginGeneration validates the current state and marks a generation as in flight.
//
// It returns a [*ValidationError] (setting the notice) when the seed is longer than the requested length, or
// [shared.ErrGenerationInFlight] when a request is already outstanding. Neither case touches the progression.
func (c *Controller) BeginGeneration() (models.GenerationRequest, error) {
	if c.state.Generating {
		return models.GenerationRequest{}, shared.ErrGenerationInFlight
	}

	if len(c.state.Selected) > c.state.Params.Length {
		err := &ValidationError{Selected: len(c.state.Selected), Length: c.state.Params.Length}
		c.state.Notice = SeedTooLongNotice
		c.logger.Warn("generation rejected", "selected", err.Selected, "length", err.Length)
		return models.GenerationRequest{}, err
	}

	c.state.Generating = true
	c.state.Err = nil
	c.state.Notice = ""

	return models.GenerationRequest{
		Params: c.state.Params,
		Seed:   slices.Clone(c.state.Selected),
	}, nil
}

// ApplyGenerationResult replaces progression and download reference together and clears the in-flight flag.
func (c *Controller) ApplyGenerationResult(res models.GenerationResult) {
	ref := res.DownloadRef
	c.state.Progression = slices.Clone(res.Progression)
	c.state.DownloadRef = &ref
	c.state.Generating = false
	c.state.Err = nil
	c.state.Generations++
	c.logger.Info("progression generated", "chords", len(res.Progression), "midi_url", string(ref))
}

// FailGeneration records a failed request. The previous progression and reference are kept.
func (c *Controller) FailGeneration(err error) {
	c.state.Generating = false
	c.state.Err = err
	c.logger.Error("generation failed", "error", err)
}

// Generate runs a full generation synchronously.
func (c *Controller) Generate(ctx context.Context) (models.GenerationResult, error) {
	req, err := c.BeginGeneration()
	if err != nil {
		return models.GenerationResult{}, err
	}

	res, err := c.Request(ctx, req)
	if err != nil {
		c.FailGeneration(err)
		return models.GenerationResult{}, err
	}

	c.ApplyGenerationResult(*res)
	return *res, nil
}

// Request sends req to the backend without touching state, so it can run off the event loop.
// Pair it with [Controller.BeginGeneration] and [Controller.ApplyGenerationResult] or [Controller.FailGeneration].
func (c *Controller) Request(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	res, err := c.backend.Generate(ctx, req)
	if err == nil && res == nil {
		err = fmt.Errorf("%w: empty generation result", shared.ErrMalformedResponse)
	}
	return res, err
}

// IsValidation reports whether err is a client-side validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
