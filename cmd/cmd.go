// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/chordgen/internal/formatter"
	"github.com/urfave/cli/v3"
)

// chordsCommand lists the backend chord catalog
func chordsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "chords",
		Usage: "List the chords the backend can generate from",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Chords,
	}
}

// generateCommand requests one progression
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a chord progression",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "length",
				Aliases: []string{"n"},
				Usage:   "Number of chords to generate (1-8, defaults to config)",
			},
			&cli.FloatFlag{
				Name:    "temperature",
				Aliases: []string{"t"},
				Usage:   "Sampling temperature (0.1-2.0, defaults to config)",
			},
			&cli.FloatFlag{
				Name:  "repetitiveness",
				Usage: "Repetition penalty (0-4, defaults to config)",
			},
			&cli.IntFlag{
				Name:  "window-size",
				Usage: "Repetition window (>= 0, defaults to config)",
			},
			&cli.StringSliceFlag{
				Name:    "seed",
				Aliases: []string{"s"},
				Usage:   "Seed chord, repeat for an ordered sequence (e.g. --seed C --seed G)",
			},
			&cli.StringFlag{
				Name:  "label",
				Usage: "Label stored with the history entry",
			},
			&cli.BoolFlag{
				Name:    "download",
				Aliases: []string{"d"},
				Usage:   "Download the MIDI file after generating",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Generate,
	}
}

// downloadCommand saves an artifact by reference or history entry
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:        "download",
		Usage:       "Download a generated MIDI file",
		Description: "Pass --ref, --id or --seq. With none of them the latest history entry is used.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Download reference (midi_url) returned by the backend",
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Generation ID from history",
			},
			&cli.IntFlag{
				Name:  "seq",
				Usage: "Generation sequence number from history",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory to save into (defaults to config)",
			},
			&cli.StringFlag{
				Name:  "filename",
				Usage: "Local filename (defaults to config)",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Download mode: http or browser (defaults to config)",
			},
		},
		Action: r.Download,
	}
}

// historyCommand browses persisted generations
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse generated progressions",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List recent generations",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of generations to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "label",
						Usage: "Only show generations with this label",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one generation",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name:      "generation",
						UsageText: "ID or sequence number",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "export",
				Usage: "Export generations to a file or stdout",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: text, markdown, csv or json",
						Value:   formatter.FormatText,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to stdout)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of generations to export (0 for all)",
					},
				},
				Action: r.HistoryExport,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete one generation",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name:      "generation",
						UsageText: "ID or sequence number",
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// inspectCommand summarises a saved MIDI file
func inspectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Summarise the chords in a MIDI file",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "file",
				UsageText: "Path to a .mid file",
			},
		},
		Action: r.Inspect,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Write config.toml and initialize the history database",
		Action: r.Setup,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive chord progression generator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI is running",
				Value: "./tmp/chordgen-tui.log",
			},
		},
		Action: r.TUI,
	}
}
