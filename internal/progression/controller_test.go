package progression

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/services"
	"github.com/desertthunder/chordgen/internal/shared"
	tu "github.com/desertthunder/chordgen/internal/testing"
)

var _ services.Backend = (*tu.MockBackend)(nil)

func params(length int) models.GenerationParameters {
	p := models.DefaultParameters()
	p.Length = length
	return p
}

func okBackend() *tu.MockBackend {
	return &tu.MockBackend{
		ChordsResult: models.Labels("C", "G", "Am"),
		GenerateResult: &models.GenerationResult{
			Progression: models.ChordProgression(models.Labels("C", "G", "Am", "F")),
			DownloadRef: "/files/abc.mid",
		},
	}
}

func TestController(t *testing.T) {
	ctx := context.Background()

	t.Run("Initial State", func(t *testing.T) {
		c := NewController(okBackend(), params(4), nil)
		s := c.State()

		if s.Catalog != CatalogPending || s.Generating || s.HasDownload() || len(s.Progression) != 0 {
			t.Errorf("unexpected initial state %+v", s)
		}
		if len(c.Slots()) != 4 {
			t.Errorf("expected 4 blank slots, got %d", len(c.Slots()))
		}
	})

	t.Run("Catalog", func(t *testing.T) {
		t.Run("Loads In Order", func(t *testing.T) {
			mb := okBackend()
			c := NewController(mb, params(4), nil)

			if err := c.LoadCatalog(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			s := c.State()
			if s.Catalog != CatalogLoaded {
				t.Errorf("expected loaded, got %s", s.Catalog)
			}
			if len(s.Options) != 3 || s.Options[0].Label != "C" || s.Options[2].Value != "Am" {
				t.Errorf("unexpected options %v", s.Options)
			}
		})

		t.Run("Loads Once", func(t *testing.T) {
			mb := okBackend()
			c := NewController(mb, params(4), nil)
			_ = c.LoadCatalog(ctx)

			if err := c.LoadCatalog(ctx); !errors.Is(err, shared.ErrCatalogLoaded) {
				t.Errorf("expected ErrCatalogLoaded, got %v", err)
			}
			if mb.ChordsCalls != 1 {
				t.Errorf("expected 1 catalog request, got %d", mb.ChordsCalls)
			}
		})

		t.Run("Failure Leaves Options Empty And Allows Retry", func(t *testing.T) {
			mb := okBackend()
			mb.ChordsErr = shared.ErrServiceUnavailable
			c := NewController(mb, params(4), nil)

			if err := c.LoadCatalog(ctx); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
			s := c.State()
			if s.Catalog != CatalogFailed || s.CatalogErr == nil || len(s.Options) != 0 {
				t.Errorf("unexpected state after failure %+v", s)
			}

			mb.ChordsErr = nil
			if err := c.LoadCatalog(ctx); err != nil {
				t.Fatalf("expected retry to succeed, got %v", err)
			}
			if c.State().Catalog != CatalogLoaded || mb.ChordsCalls != 2 {
				t.Errorf("expected loaded after 2 calls, got %s after %d", c.State().Catalog, mb.ChordsCalls)
			}
		})

		t.Run("Empty Catalog", func(t *testing.T) {
			mb := okBackend()
			mb.ChordsResult = nil
			c := NewController(mb, params(4), nil)

			if err := c.LoadCatalog(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if c.State().Catalog != CatalogLoaded || len(c.State().Options) != 0 {
				t.Errorf("expected loaded with no options, got %+v", c.State())
			}
		})
	})

	t.Run("Selection", func(t *testing.T) {
		c := NewController(okBackend(), params(4), nil)

		c.ToggleChord("G")
		c.ToggleChord("C")
		c.ToggleChord("Am")
		c.ToggleChord("C")

		got := models.Strings(c.State().Selected)
		if len(got) != 2 || got[0] != "G" || got[1] != "Am" {
			t.Errorf("expected [G Am], got %v", got)
		}
		if !c.State().IsSelected("Am") || c.State().IsSelected("C") {
			t.Error("unexpected selection membership")
		}

		c.SetSelection(models.Labels("F", "C"))
		if got := models.Strings(c.State().Selected); got[0] != "F" || got[1] != "C" {
			t.Errorf("expected order to be preserved, got %v", got)
		}

		c.ClearSelection()
		if len(c.State().Selected) != 0 {
			t.Error("expected empty selection")
		}
	})

	t.Run("Parameters", func(t *testing.T) {
		c := NewController(okBackend(), params(4), nil)

		if err := c.SetParameters(params(9)); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if c.State().Params.Length != 4 {
			t.Errorf("expected length to stay 4, got %d", c.State().Params.Length)
		}

		err := c.UpdateParameters(func(p models.GenerationParameters) models.GenerationParameters {
			p.Length = 2
			return p
		})
		if err != nil || c.State().Params.Length != 2 {
			t.Errorf("expected length 2, got %d (%v)", c.State().Params.Length, err)
		}
		if len(c.Slots()) != 2 {
			t.Errorf("expected slot count to follow length, got %d", len(c.Slots()))
		}
	})

	t.Run("Generate", func(t *testing.T) {
		t.Run("Success Replaces Progression And Reference", func(t *testing.T) {
			mb := okBackend()
			c := NewController(mb, params(4), nil)
			c.SetSelection(models.Labels("C", "G"))

			res, err := c.Generate(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(res.Progression) != 4 {
				t.Errorf("expected 4 chords, got %d", len(res.Progression))
			}

			s := c.State()
			if s.Generating {
				t.Error("expected in-flight flag to be cleared")
			}
			if !s.HasDownload() || *s.DownloadRef != "/files/abc.mid" {
				t.Errorf("expected download ref, got %v", s.DownloadRef)
			}
			if s.Generations != 1 {
				t.Errorf("expected 1 generation, got %d", s.Generations)
			}
			if got := models.Strings(mb.LastRequest.Seed); len(got) != 2 || got[0] != "C" {
				t.Errorf("expected seed [C G], got %v", got)
			}
			if mb.LastRequest.Params.Length != 4 {
				t.Errorf("expected length 4 in request, got %d", mb.LastRequest.Params.Length)
			}
		})

		t.Run("Seed Equal To Length Is Allowed", func(t *testing.T) {
			mb := okBackend()
			c := NewController(mb, params(2), nil)
			c.SetSelection(models.Labels("C", "G"))
			mb.GenerateResult.Progression = models.ChordProgression(models.Labels("C", "G"))

			if _, err := c.Generate(ctx); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Seed Too Long Makes No Request", func(t *testing.T) {
			mb := okBackend()
			c := NewController(mb, params(2), nil)
			c.SetSelection(models.Labels("C", "G", "Am"))
			before := c.State()

			_, err := c.Generate(ctx)
			if !errors.Is(err, shared.ErrSeedTooLong) || !IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
			if mb.Calls() != 0 {
				t.Errorf("expected no backend calls, got %d", mb.Calls())
			}

			s := c.State()
			if s.Notice != SeedTooLongNotice {
				t.Errorf("expected notice %q, got %q", SeedTooLongNotice, s.Notice)
			}
			if s.Generating || s.HasDownload() || len(s.Progression) != len(before.Progression) {
				t.Errorf("expected state to be unchanged, got %+v", s)
			}

			c.DismissNotice()
			if c.State().Notice != "" {
				t.Error("expected notice to be dismissed")
			}
		})

		t.Run("Refuses While In Flight", func(t *testing.T) {
			mb := okBackend()
			c := NewController(mb, params(4), nil)

			if _, err := c.BeginGeneration(); err != nil {
				t.Fatalf("expected first begin to succeed, got %v", err)
			}
			if _, err := c.BeginGeneration(); !errors.Is(err, shared.ErrGenerationInFlight) {
				t.Errorf("expected ErrGenerationInFlight, got %v", err)
			}
			if _, err := c.Generate(ctx); !errors.Is(err, shared.ErrGenerationInFlight) {
				t.Errorf("expected ErrGenerationInFlight, got %v", err)
			}
			if mb.GenerateCalls != 0 {
				t.Errorf("expected no generate calls, got %d", mb.GenerateCalls)
			}
		})

		t.Run("Failure Keeps Previous Result", func(t *testing.T) {
			mb := okBackend()
			c := NewController(mb, params(4), nil)
			if _, err := c.Generate(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			mb.GenerateErr = shared.ErrMalformedResponse
			if _, err := c.Generate(ctx); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}

			s := c.State()
			if s.Err == nil || s.Generating {
				t.Errorf("expected explicit error and cleared flag, got %+v", s)
			}
			if len(s.Progression) != 4 || *s.DownloadRef != "/files/abc.mid" {
				t.Errorf("expected previous result to be kept, got %v %v", s.Progression, s.DownloadRef)
			}
			if s.Generations != 1 {
				t.Errorf("expected 1 generation, got %d", s.Generations)
			}
		})

		t.Run("Nil Result Is Malformed", func(t *testing.T) {
			mb := okBackend()
			mb.GenerateResult = nil
			c := NewController(mb, params(4), nil)

			if _, err := c.Generate(ctx); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	})

	t.Run("State Is Detached", func(t *testing.T) {
		c := NewController(okBackend(), params(4), nil)
		c.SetSelection(models.Labels("C"))
		_, _ = c.Generate(ctx)

		s := c.State()
		s.Selected[0] = "X"
		s.Progression[0] = "X"
		*s.DownloadRef = "/elsewhere"

		again := c.State()
		if again.Selected[0] != "C" || again.Progression[0] != "C" || *again.DownloadRef != "/files/abc.mid" {
			t.Errorf("expected controller state to be unaffected, got %+v", again)
		}
	})
}
