package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/chordgen/internal/formatter"
	"github.com/desertthunder/chordgen/internal/midi"
	"github.com/desertthunder/chordgen/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recent generations, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.history(ctx)
	if err != nil {
		return err
	}

	gens, err := repo.List(map[string]any{"limit": cmd.Int("limit"), "label": cmd.String("label")})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data, err := formatter.ExportToJSON(gens)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	if len(gens) == 0 {
		return r.writePlain("No generations yet. Run 'chordgen generate' to create one.\n")
	}

	data, err := formatter.ExportToText(gens)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// HistoryShow prints one generation in detail.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	g, err := r.lookupArg(ctx, cmd.StringArg("generation"))
	if err != nil {
		return err
	}
	return r.writePlain("%s", formatter.Generation(g))
}

// HistoryExport writes generations in the requested format to --output or stdout.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.history(ctx)
	if err != nil {
		return err
	}

	gens, err := repo.List(map[string]any{"limit": cmd.Int("limit")})
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(gens, format, path); err != nil {
			return err
		}
		r.logger.Info("history exported", "count", len(gens), "format", format, "path", path)
		return r.writePlain("Exported %d generations to %s\n", len(gens), path)
	}

	data, err := formatter.Export(gens, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// HistoryDelete soft-deletes one generation.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	g, err := r.lookupArg(ctx, cmd.StringArg("generation"))
	if err != nil {
		return err
	}

	if err := r.repo.Delete(g.ID()); err != nil {
		return err
	}
	return r.writePlain("Deleted #%d (%s)\n", g.Sequence(), g.ID())
}

// Inspect summarises the chord onsets of a MIDI file.
func (r *Runner) Inspect(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: MIDI file path", shared.ErrMissingArgument)
	}

	summary, err := midi.InspectFile(path)
	if err != nil {
		return err
	}
	return r.writePlain("%s", formatter.Summary(summary))
}
