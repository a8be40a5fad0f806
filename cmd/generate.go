package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/desertthunder/chordgen/internal/formatter"
	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/shared"
	"github.com/urfave/cli/v3"
)

type generateOutput struct {
	ID          string                      `json:"id,omitempty"`
	Sequence    int                         `json:"sequence,omitempty"`
	Params      models.GenerationParameters `json:"parameters"`
	Seed        []models.ChordLabel         `json:"selected_chords"`
	Progression models.ChordProgression     `json:"chord_progression"`
	Slots       []string                    `json:"slots"`
	MIDIURL     models.DownloadReference    `json:"midi_url"`
	SavedTo     string                      `json:"saved_to,omitempty"`
}

// Chords prints the backend chord catalog in backend order.
func (r *Runner) Chords(ctx context.Context, cmd *cli.Command) error {
	controller, err := r.newController()
	if err != nil {
		return err
	}

	if err := controller.LoadCatalog(ctx); err != nil {
		return fmt.Errorf("failed to load chords: %w", err)
	}

	options := controller.State().Options
	if cmd.Bool("json") {
		return r.writeJSON(options, true)
	}

	for _, opt := range options {
		if err := r.writePlain("%s\n", opt.Label); err != nil {
			return err
		}
	}
	return nil
}

// Generate requests one progression, prints its slots and optionally downloads the MIDI file.
//
// Parameters not given as flags come from the [generation] config section. The seed length is checked before any
// request is sent.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	controller, err := r.newController()
	if err != nil {
		return err
	}

	if err := controller.UpdateParameters(func(p models.GenerationParameters) models.GenerationParameters {
		if cmd.IsSet("length") {
			p.Length = cmd.Int("length")
		}
		if cmd.IsSet("temperature") {
			p.Temperature = cmd.Float("temperature")
		}
		if cmd.IsSet("repetitiveness") {
			p.Repetitiveness = cmd.Float("repetitiveness")
		}
		if cmd.IsSet("window-size") {
			p.WindowSize = cmd.Int("window-size")
		}
		return p
	}); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	controller.SetSelection(models.Labels(cmd.StringSlice("seed")...))

	result, err := controller.Generate(ctx)
	if err != nil {
		return err
	}

	state := controller.State()
	out := generateOutput{
		Params:      state.Params,
		Seed:        state.Selected,
		Progression: result.Progression,
		MIDIURL:     result.DownloadRef,
	}
	for _, s := range controller.Slots() {
		out.Slots = append(out.Slots, s.Label)
	}

	recorder := r.recorder(ctx)
	gen, err := recorder.Record(models.GenerationRequest{Params: state.Params, Seed: state.Selected}, result)
	if err != nil {
		r.logger.Warn("generation not recorded", "error", err)
	}
	if gen != nil {
		if label := cmd.String("label"); label != "" {
			gen.SetLabel(label)
			if err := r.repo.Update(gen); err != nil {
				r.logger.Warn("label not recorded", "error", err)
			}
		}
		out.ID = gen.ID()
		out.Sequence = gen.Sequence()
	}

	if cmd.Bool("download") {
		mode := r.config.Download.Mode
		dispatcher, err := r.newDispatcher(mode, "", "")
		if err != nil {
			return err
		}
		dest, err := dispatcher.Download(ctx, state.DownloadRef)
		if err != nil {
			return err
		}
		out.SavedTo = dest
		if mode == shared.DownloadModeHTTP {
			if err := recorder.MarkSaved(gen, dest); err != nil {
				r.logger.Warn("saved path not recorded", "error", err)
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(out, true)
	}

	if err := r.writePlain("%s\n", formatter.Slots(controller.Slots())); err != nil {
		return err
	}
	if err := r.writePlain("MIDI: %s\n", out.MIDIURL); err != nil {
		return err
	}
	if out.Sequence > 0 {
		if err := r.writePlain("History: #%d\n", out.Sequence); err != nil {
			return err
		}
	}
	if out.SavedTo != "" {
		return r.writePlain("Saved to: %s\n", out.SavedTo)
	}
	return nil
}

// Download saves a MIDI artifact. The reference comes from --ref, a history entry (--id or --seq), or the latest
// history entry.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	ref := models.DownloadReference(cmd.String("ref"))

	var gen *models.Generation
	if ref == "" {
		g, err := r.lookupGeneration(ctx, cmd.String("id"), cmd.Int("seq"))
		if err != nil {
			return err
		}
		gen = g
		ref = g.DownloadRef()
	}

	mode := cmd.String("mode")
	if mode == "" {
		mode = r.config.Download.Mode
	}

	dispatcher, err := r.newDispatcher(mode, cmd.String("dir"), cmd.String("filename"))
	if err != nil {
		return err
	}

	dest, err := dispatcher.Download(ctx, &ref)
	if err != nil {
		return err
	}

	if mode == shared.DownloadModeBrowser {
		return r.writePlain("Opened %s\n", dest)
	}

	if gen != nil {
		if err := r.recorder(ctx).MarkSaved(gen, dest); err != nil {
			r.logger.Warn("saved path not recorded", "error", err)
		}
	}
	return r.writePlain("Saved to: %s\n", dest)
}

// lookupGeneration finds a history entry by id, then by sequence, then falls back to the latest.
func (r *Runner) lookupGeneration(ctx context.Context, id string, seq int) (*models.Generation, error) {
	repo, err := r.history(ctx)
	if err != nil {
		return nil, err
	}

	var g *models.Generation
	switch {
	case id != "":
		g, err = repo.Get(id)
	case seq > 0:
		g, err = repo.GetBySequence(seq)
	default:
		g, err = repo.GetLatest()
		if errors.Is(err, shared.ErrGenerationNotFound) {
			return nil, fmt.Errorf("%w: history is empty, pass --ref", shared.ErrNoDownload)
		}
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// lookupArg resolves a positional "ID or sequence number" argument.
func (r *Runner) lookupArg(ctx context.Context, arg string) (*models.Generation, error) {
	if arg == "" {
		return nil, fmt.Errorf("%w: generation ID or sequence number", shared.ErrMissingArgument)
	}
	if seq, err := strconv.Atoi(arg); err == nil {
		if seq <= 0 {
			return nil, fmt.Errorf("%w: sequence must be positive, got %d", shared.ErrInvalidArgument, seq)
		}
		return r.lookupGeneration(ctx, "", seq)
	}
	return r.lookupGeneration(ctx, arg, 0)
}
