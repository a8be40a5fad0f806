package progression

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/services"
	tu "github.com/desertthunder/chordgen/internal/testing"
)

// Exercises the controller, renderer and dispatcher against the in-process HTTP backend.
func TestSession(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*tu.FakeBackend, *services.BackendService) {
		fb := tu.NewFakeBackend(t, []string{"C", "G", "Am"}, []string{"C", "G", "Am", "F"}, "/files/abc.mid")
		fb.ServeFile("/files/abc.mid", []byte("MThd-progression"))
		return fb, services.NewBackendService(services.NewAPIService(fb.URL, nil, 1000), "", nil)
	}

	t.Run("Generate And Download", func(t *testing.T) {
		fb, backend := setup(t)
		c := NewController(backend, params(4), nil)

		if err := c.LoadCatalog(ctx); err != nil {
			t.Fatalf("catalog: %v", err)
		}
		if n := len(c.State().Options); n != 3 {
			t.Fatalf("expected 3 options, got %d", n)
		}

		c.ToggleChord("C")
		c.ToggleChord("G")
		if _, err := c.Generate(ctx); err != nil {
			t.Fatalf("generate: %v", err)
		}

		slots := c.Slots()
		want := []string{"C", "G", "Am", "F"}
		for i, s := range slots {
			if s.Label != want[i] {
				t.Errorf("slot %d: expected %s, got %s", i, want[i], s.Label)
			}
		}

		dir := t.TempDir()
		d := NewDispatcher(NewHTTPSaver(backend, dir), "", nil)
		dest, err := d.Download(ctx, c.State().DownloadRef)
		if err != nil {
			t.Fatalf("download: %v", err)
		}
		if dest != filepath.Join(dir, "chord_progression.mid") {
			t.Errorf("unexpected destination %s", dest)
		}
		if got := tu.MustReadFile(t, dest); got != "MThd-progression" {
			t.Errorf("unexpected artifact %q", got)
		}

		if fb.Counter.Count("/chords") != 1 || fb.Counter.Count("/generate") != 1 || fb.Counter.Count("/files/abc.mid") != 1 {
			t.Errorf("unexpected request counts: total %d", fb.Counter.Total())
		}
	})

	t.Run("Rejected Seed Sends Nothing", func(t *testing.T) {
		fb, backend := setup(t)
		c := NewController(backend, params(2), nil)
		c.SetSelection(models.Labels("C", "G", "Am"))

		if _, err := c.Generate(ctx); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if fb.Counter.Total() != 0 {
			t.Errorf("expected no requests, got %d", fb.Counter.Total())
		}
		for _, s := range c.Slots() {
			if s.Filled {
				t.Errorf("expected blank slots, got %+v", s)
			}
		}
		if c.State().HasDownload() {
			t.Error("expected no download reference")
		}
	})
}
