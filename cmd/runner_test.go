package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/progression"
	"github.com/desertthunder/chordgen/internal/services"
	"github.com/desertthunder/chordgen/internal/shared"
	tu "github.com/desertthunder/chordgen/internal/testing"
	"github.com/urfave/cli/v3"
)

// testConfig returns a config whose database and download directory live in a temp dir.
func testConfig(t *testing.T, backendURL string) *shared.Config {
	t.Helper()
	dir := t.TempDir()

	config := shared.DefaultConfig()
	config.Backend.URL = backendURL
	config.Backend.RequestsPerSecond = 1000
	config.Database.Path = filepath.Join(dir, "history.db")
	config.Download.Dir = filepath.Join(dir, "downloads")
	config.History.Enabled = true
	return config
}

// run executes a single command definition with args, bypassing the root Before hook.
func run(t *testing.T, command *cli.Command, args ...string) error {
	t.Helper()
	command.Writer = &bytes.Buffer{}
	command.ErrWriter = &bytes.Buffer{}
	return command.Run(context.Background(), append([]string{command.Name}, args...))
}

func newTestRunner(t *testing.T, opts RunnerOpts) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	opts.Output = output
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(&bytes.Buffer{})
	}
	r := NewRunner(opts)
	t.Cleanup(func() { r.Close() })
	return r, output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			backend := &tu.MockBackend{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "custom.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Backend:    backend,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.backend != backend {
				t.Error("expected backend to be set")
			}
			if runner.configPath != "custom.toml" {
				t.Errorf("expected configPath custom.toml, got %q", runner.configPath)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Fatal("expected default config")
			}
			if runner.config.Generation.Length != 4 {
				t.Errorf("expected default length 4, got %d", runner.config.Generation.Length)
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.logger == nil {
				t.Error("expected default logger to be created")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses configured timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Backend.TimeoutSeconds = 7
			runner := NewRunner(RunnerOpts{Config: config})

			if runner.httpClient == nil {
				t.Fatal("expected http client to be created")
			}
			if runner.httpClient.Timeout != config.Backend.Timeout() {
				t.Errorf("expected timeout %v, got %v", config.Backend.Timeout(), runner.httpClient.Timeout)
			}
		})

		t.Run("with nil backend builds one from config", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if _, ok := runner.backend.(*services.BackendService); !ok {
				t.Errorf("expected *services.BackendService, got %T", runner.backend)
			}
		})

		t.Run("configure keeps an injected backend", func(t *testing.T) {
			backend := &tu.MockBackend{}
			runner := NewRunner(RunnerOpts{Backend: backend})
			runner.configure(shared.DefaultConfig())

			if runner.backend != backend {
				t.Error("expected injected backend to survive reconfiguration")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"chords", "generate", "download", "history", "inspect", "setup", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("newController", func(t *testing.T) {
		t.Run("uses generation defaults from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Generation.Length = 6
			config.Generation.Temperature = 0.5
			runner := NewRunner(RunnerOpts{Config: config, Backend: &tu.MockBackend{}})

			c, err := runner.newController()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p := c.State().Params; p.Length != 6 || p.Temperature != 0.5 {
				t.Errorf("expected config parameters, got %+v", p)
			}
		})

		t.Run("rejects out of range config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Generation.Length = 12
			runner := NewRunner(RunnerOpts{Config: config, Backend: &tu.MockBackend{}})

			if _, err := runner.newController(); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}

func TestChords(t *testing.T) {
	t.Run("prints labels in backend order", func(t *testing.T) {
		backend := &tu.MockBackend{ChordsResult: models.Labels("C", "G", "Am")}
		r, output := newTestRunner(t, RunnerOpts{Backend: backend})

		if err := run(t, chordsCommand(r)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.String() != "C\nG\nAm\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("prints options as JSON", func(t *testing.T) {
		backend := &tu.MockBackend{ChordsResult: models.Labels("C")}
		r, output := newTestRunner(t, RunnerOpts{Backend: backend})

		if err := run(t, chordsCommand(r), "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), `"label": "C"`) || !strings.Contains(output.String(), `"value": "C"`) {
			t.Errorf("expected label/value pair, got %s", output.String())
		}
	})

	t.Run("wraps backend failures", func(t *testing.T) {
		backend := &tu.MockBackend{ChordsErr: shared.ErrServiceUnavailable}
		r, _ := newTestRunner(t, RunnerOpts{Backend: backend})

		if err := run(t, chordsCommand(r)); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestGenerate(t *testing.T) {
	t.Run("generates, downloads and records history", func(t *testing.T) {
		fb := tu.NewFakeBackend(t, []string{"C", "G", "Am"}, []string{"C", "G", "Am", "F"}, "/files/abc.mid")
		fb.ServeFile("/files/abc.mid", []byte("MThd-progression"))
		config := testConfig(t, fb.URL)
		r, output := newTestRunner(t, RunnerOpts{Config: config})

		err := run(t, generateCommand(r), "--length", "4", "--seed", "C", "--seed", "G", "--download", "--label", "demo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := output.String()
		if !strings.Contains(out, "[ C ][ G ][ Am ][ F ]") {
			t.Errorf("expected rendered slots, got %q", out)
		}
		if !strings.Contains(out, "MIDI: /files/abc.mid") {
			t.Errorf("expected midi reference, got %q", out)
		}

		dest := filepath.Join(config.Download.Dir, progression.DefaultFilename)
		tu.AssertFileExists(t, dest)
		if got := tu.MustReadFile(t, dest); got != "MThd-progression" {
			t.Errorf("unexpected artifact contents %q", got)
		}

		payloads := fb.Payloads()
		if len(payloads) != 1 {
			t.Fatalf("expected one generate request, got %d", len(payloads))
		}
		seed, _ := payloads[0]["selected_chords"].([]any)
		if len(seed) != 2 || seed[0] != "C" || seed[1] != "G" {
			t.Errorf("expected ordered seed [C G], got %v", payloads[0]["selected_chords"])
		}

		latest, err := r.repo.GetLatest()
		if err != nil {
			t.Fatalf("expected recorded generation: %v", err)
		}
		if latest.Label() != "demo" {
			t.Errorf("expected label demo, got %q", latest.Label())
		}
		if latest.SavedPath() != dest {
			t.Errorf("expected saved path %q, got %q", dest, latest.SavedPath())
		}
	})

	t.Run("rejects a seed longer than the length without a request", func(t *testing.T) {
		backend := &tu.MockBackend{}
		r, _ := newTestRunner(t, RunnerOpts{Config: testConfig(t, "http://unused"), Backend: backend})

		err := run(t, generateCommand(r), "--length", "2", "--seed", "C", "--seed", "G", "--seed", "Am")
		if !progression.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !errors.Is(err, shared.ErrSeedTooLong) {
			t.Errorf("expected ErrSeedTooLong, got %v", err)
		}
		if backend.Calls() != 0 {
			t.Errorf("expected zero backend calls, got %d", backend.Calls())
		}
	})

	t.Run("rejects out of range flags", func(t *testing.T) {
		backend := &tu.MockBackend{}
		r, _ := newTestRunner(t, RunnerOpts{Backend: backend})

		err := run(t, generateCommand(r), "--length", "9")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
		if backend.Calls() != 0 {
			t.Errorf("expected zero backend calls, got %d", backend.Calls())
		}
	})

	t.Run("writes JSON without touching history when disabled", func(t *testing.T) {
		backend := &tu.MockBackend{GenerateResult: &models.GenerationResult{
			Progression: models.ChordProgression{"Dm", "G7"},
			DownloadRef: "/files/x.mid",
		}}
		config := testConfig(t, "http://unused")
		config.History.Enabled = false
		r, output := newTestRunner(t, RunnerOpts{Config: config, Backend: backend})

		if err := run(t, generateCommand(r), "--length", "3", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := output.String()
		if !strings.Contains(out, `"midi_url": "/files/x.mid"`) {
			t.Errorf("expected midi_url in JSON, got %s", out)
		}
		if !strings.Contains(out, `"slots"`) {
			t.Errorf("expected slots in JSON, got %s", out)
		}
		if r.db != nil {
			t.Error("expected history database to stay closed")
		}
	})

	t.Run("returns output write failures", func(t *testing.T) {
		backend := &tu.MockBackend{GenerateResult: &models.GenerationResult{
			Progression: models.ChordProgression{"C"},
			DownloadRef: "/files/x.mid",
		}}
		config := testConfig(t, "http://unused")
		config.History.Enabled = false
		r := NewRunner(RunnerOpts{
			Config:  config,
			Backend: backend,
			Logger:  shared.NewLogger(&bytes.Buffer{}),
			Output:  &tu.FWriter{},
		})

		err := run(t, generateCommand(r))
		if err == nil || !strings.Contains(err.Error(), "failed to write output") {
			t.Errorf("expected write error, got %v", err)
		}
	})

	t.Run("surfaces backend failures", func(t *testing.T) {
		backend := &tu.MockBackend{GenerateErr: shared.ErrAPIRequest}
		r, _ := newTestRunner(t, RunnerOpts{Config: testConfig(t, "http://unused"), Backend: backend})

		if err := run(t, generateCommand(r)); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestDownload(t *testing.T) {
	t.Run("saves an explicit reference", func(t *testing.T) {
		backend := &tu.MockBackend{Artifact: []byte("midi")}
		config := testConfig(t, "http://unused")
		r, output := newTestRunner(t, RunnerOpts{Config: config, Backend: backend})

		if err := run(t, downloadCommand(r), "--ref", "/files/a.mid", "--filename", "a.mid"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		dest := filepath.Join(config.Download.Dir, "a.mid")
		tu.AssertFileExists(t, dest)
		if !strings.Contains(output.String(), dest) {
			t.Errorf("expected destination in output, got %q", output.String())
		}
		if len(backend.FetchedRefs) != 1 || backend.FetchedRefs[0] != "/files/a.mid" {
			t.Errorf("expected one fetch of /files/a.mid, got %v", backend.FetchedRefs)
		}
	})

	t.Run("falls back to the latest history entry", func(t *testing.T) {
		backend := &tu.MockBackend{Artifact: []byte("midi")}
		config := testConfig(t, "http://unused")
		r, _ := newTestRunner(t, RunnerOpts{Config: config, Backend: backend})

		repo, err := r.history(context.Background())
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		g := models.NewGeneration(0, models.DefaultParameters(), nil, models.GenerationResult{
			Progression: models.ChordProgression{"C"},
			DownloadRef: "/files/latest.mid",
		})
		if err := repo.Create(g); err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := run(t, downloadCommand(r)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(backend.FetchedRefs) != 1 || backend.FetchedRefs[0] != "/files/latest.mid" {
			t.Errorf("expected latest reference to be fetched, got %v", backend.FetchedRefs)
		}

		saved, err := repo.Get(g.ID())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if saved.SavedPath() == "" {
			t.Error("expected saved path to be recorded")
		}
	})

	t.Run("fails with empty history", func(t *testing.T) {
		backend := &tu.MockBackend{}
		r, _ := newTestRunner(t, RunnerOpts{Config: testConfig(t, "http://unused"), Backend: backend})

		if err := run(t, downloadCommand(r)); !errors.Is(err, shared.ErrNoDownload) {
			t.Errorf("expected ErrNoDownload, got %v", err)
		}
		if backend.Calls() != 0 {
			t.Errorf("expected no backend calls, got %d", backend.Calls())
		}
	})

	t.Run("rejects unknown modes", func(t *testing.T) {
		r, _ := newTestRunner(t, RunnerOpts{Config: testConfig(t, "http://unused"), Backend: &tu.MockBackend{}})

		if err := run(t, downloadCommand(r), "--ref", "/x.mid", "--mode", "ftp"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestHistory(t *testing.T) {
	setup := func(t *testing.T) (*Runner, *bytes.Buffer) {
		t.Helper()
		backend := &tu.MockBackend{GenerateResult: &models.GenerationResult{
			Progression: models.ChordProgression{"C", "G", "Am", "F"},
			DownloadRef: "/files/abc.mid",
		}}
		r, output := newTestRunner(t, RunnerOpts{Config: testConfig(t, "http://unused"), Backend: backend})

		if err := run(t, generateCommand(r), "--seed", "C"); err != nil {
			t.Fatalf("generate: %v", err)
		}
		if err := run(t, generateCommand(r), "--label", "second"); err != nil {
			t.Fatalf("generate: %v", err)
		}
		output.Reset()
		return r, output
	}

	t.Run("list", func(t *testing.T) {
		r, output := setup(t)

		if err := run(t, historyCommand(r), "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := output.String()
		if strings.Count(out, "C - G - Am - F") != 2 {
			t.Errorf("expected two entries, got %q", out)
		}
		if strings.Index(out, "2. ") > strings.Index(out, "1. ") {
			t.Errorf("expected newest first, got %q", out)
		}
		if !strings.Contains(out, "(second)") {
			t.Errorf("expected label in listing, got %q", out)
		}
	})

	t.Run("list filters by label", func(t *testing.T) {
		r, output := setup(t)

		if err := run(t, historyCommand(r), "list", "--label", "second"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(output.String(), "C - G - Am - F") != 1 {
			t.Errorf("expected one entry, got %q", output.String())
		}
	})

	t.Run("show by sequence", func(t *testing.T) {
		r, output := setup(t)

		if err := run(t, historyCommand(r), "show", "1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "#1") || !strings.Contains(out, "MIDI:        /files/abc.mid") {
			t.Errorf("unexpected detail output %q", out)
		}
	})

	t.Run("show requires an argument", func(t *testing.T) {
		r, _ := setup(t)

		if err := run(t, historyCommand(r), "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("show unknown id", func(t *testing.T) {
		r, _ := setup(t)

		if err := run(t, historyCommand(r), "show", "nope"); !errors.Is(err, shared.ErrGenerationNotFound) {
			t.Errorf("expected ErrGenerationNotFound, got %v", err)
		}
	})

	t.Run("export to file", func(t *testing.T) {
		r, _ := setup(t)
		path := filepath.Join(t.TempDir(), "history.csv")

		if err := run(t, historyCommand(r), "export", "--format", "csv", "--output", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data := tu.MustReadFile(t, path)
		if lines := strings.Count(strings.TrimSpace(data), "\n"); lines != 2 {
			t.Errorf("expected header plus two rows, got %d newlines in %q", lines, data)
		}
	})

	t.Run("export rejects unknown formats", func(t *testing.T) {
		r, _ := setup(t)

		if err := run(t, historyCommand(r), "export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		r, output := setup(t)

		if err := run(t, historyCommand(r), "delete", "2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Deleted #2") {
			t.Errorf("unexpected output %q", output.String())
		}

		n, err := r.repo.Count()
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 1 {
			t.Errorf("expected one remaining generation, got %d", n)
		}
	})
}

func TestInspect(t *testing.T) {
	t.Run("summarises chord onsets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prog.mid")
		data := tu.MIDIFixture(t, []uint8{60, 64, 67}, []uint8{55, 59, 62})
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}

		r, output := newTestRunner(t, RunnerOpts{})
		if err := run(t, inspectCommand(r), path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := output.String()
		if !strings.Contains(out, "Onsets:     2") {
			t.Errorf("expected two onsets, got %q", out)
		}
		if !strings.Contains(out, "C4 E4 G4") {
			t.Errorf("expected first chord names, got %q", out)
		}
	})

	t.Run("requires a path", func(t *testing.T) {
		r, _ := newTestRunner(t, RunnerOpts{})

		if err := run(t, inspectCommand(r)); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("rejects non MIDI files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.mid")
		if err := os.WriteFile(path, []byte("not midi"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		r, _ := newTestRunner(t, RunnerOpts{})
		if err := run(t, inspectCommand(r), path); !errors.Is(err, shared.ErrInvalidArtifact) {
			t.Errorf("expected ErrInvalidArtifact, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("creates config and database", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "setup.db")
		t.Setenv(shared.EnvDBPath, dbPath)

		r, output := newTestRunner(t, RunnerOpts{ConfigPath: filepath.Join(dir, "config.toml")})
		if err := run(t, setupCommand(r)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
		tu.AssertFileExists(t, dbPath)
		if !strings.Contains(output.String(), "Database ready") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("keeps an existing config", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		if err := os.WriteFile(configPath, []byte("# mine\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		config := testConfig(t, "http://unused")
		r, output := newTestRunner(t, RunnerOpts{Config: config, ConfigPath: configPath})
		if err := run(t, setupCommand(r)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := tu.MustReadFile(t, configPath); got != "# mine\n" {
			t.Errorf("expected config to be untouched, got %q", got)
		}
		if strings.Contains(output.String(), "Created") {
			t.Errorf("did not expect config creation, got %q", output.String())
		}
		tu.AssertFileExists(t, config.Database.Path)
	})
}
