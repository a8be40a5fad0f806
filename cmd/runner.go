package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/progression"
	"github.com/desertthunder/chordgen/internal/repositories"
	"github.com/desertthunder/chordgen/internal/services"
	"github.com/desertthunder/chordgen/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	backend    services.Backend
	injected   bool
	httpClient *http.Client
	db         *sql.DB
	repo       *repositories.GenerationRepository
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Backend is built from Config; a nil DB is opened lazily from Config the first time history is needed.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Backend    services.Backend
	HTTPClient *http.Client
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		configPath: opts.ConfigPath,
		backend:    opts.Backend,
		injected:   opts.Backend != nil,
		httpClient: opts.HTTPClient,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.configure(opts.Config)
	return r
}

// Before resolves configuration from the root flags before any command runs.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	r.configPath = cmd.String("config")
	config, err := shared.Resolve(r.configPath)
	if err != nil {
		return ctx, err
	}

	if url := cmd.String("backend"); url != "" {
		config.Backend.URL = url
	}

	r.configure(config)
	r.logger.Debug("configuration resolved", "path", r.configPath, "backend", config.Backend.URL)
	return ctx, nil
}

// configure swaps in config and rebuilds the backend unless one was supplied by the caller.
func (r *Runner) configure(config *shared.Config) {
	r.config = config

	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: config.Backend.Timeout()}
	}

	if r.injected {
		return
	}

	api := services.NewAPIService(config.Backend.URL, r.httpClient, config.Backend.RequestsPerSecond)
	r.backend = services.NewBackendService(api, config.Backend.SeedFormat, shared.WithLogger(r.logger, "component", "backend"))
}

// SetLogger replaces the runner logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.configure(r.config)
}

// Close releases the history database if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.repo = nil
	return err
}

// defaultParameters reads the generation defaults from config.
func (r *Runner) defaultParameters() models.GenerationParameters {
	g := r.config.Generation
	return models.GenerationParameters{
		Length:         g.Length,
		Temperature:    g.Temperature,
		Repetitiveness: g.Repetitiveness,
		WindowSize:     g.WindowSize,
	}
}

// newController creates a controller seeded with the configured parameters.
func (r *Runner) newController() (*progression.Controller, error) {
	controller := progression.NewController(r.backend, models.DefaultParameters(), shared.WithLogger(r.logger, "component", "controller"))
	if err := controller.SetParameters(r.defaultParameters()); err != nil {
		return nil, fmt.Errorf("%w: [generation] %v", shared.ErrInvalidConfig, err)
	}
	return controller, nil
}

// newDispatcher builds a download dispatcher from the [download] section, with optional overrides.
func (r *Runner) newDispatcher(mode, dir, filename string) (*progression.Dispatcher, error) {
	if mode == "" {
		mode = r.config.Download.Mode
	}
	if dir == "" {
		dir = r.config.Download.Dir
	}
	if filename == "" {
		filename = r.config.Download.Filename
	}

	saver, err := progression.NewSaver(mode, r.backend, dir)
	if err != nil {
		return nil, err
	}
	return progression.NewDispatcher(saver, filename, shared.WithLogger(r.logger, "component", "download")), nil
}

// history opens the generation store on first use.
func (r *Runner) history(ctx context.Context) (*repositories.GenerationRepository, error) {
	if r.repo != nil {
		return r.repo, nil
	}

	if r.db == nil {
		db, err := shared.OpenDatabase(ctx, r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		r.db = db
	}

	r.repo = repositories.NewGenerationRepository(r.db)
	return r.repo, nil
}

// recorder returns a recorder honouring [history] enabled. History failures never block generation.
func (r *Runner) recorder(ctx context.Context) *repositories.HistoryRecorder {
	if !r.config.History.Enabled {
		return repositories.NewHistoryRecorder(nil, false)
	}

	repo, err := r.history(ctx)
	if err != nil {
		r.logger.Warn("history disabled", "error", err)
		return repositories.NewHistoryRecorder(nil, false)
	}
	return repositories.NewHistoryRecorder(repo, true)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		chordsCommand, generateCommand, downloadCommand, historyCommand, inspectCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
