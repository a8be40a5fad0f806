package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chordgen/internal/shared"
	"github.com/desertthunder/chordgen/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive progression generator.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	controller, err := r.newController()
	if err != nil {
		return err
	}

	dispatcher, err := r.newDispatcher("", "", "")
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, controller, dispatcher, r.recorder(ctx))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
