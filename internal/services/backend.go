// Generation backend [Backend] implementation
//
// Talks to the two JSON endpoints exposed by the backend (GET /chords, POST /generate) and fetches the generated MIDI artifact.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/shared"
)

const (
	chordsPath   = "/chords"
	generatePath = "/generate"
)

var _ Backend = (*BackendService)(nil)

// BackendService implements [Backend] over HTTP.
type BackendService struct {
	api        *APIService
	seedFormat string
	logger     *log.Logger
}

// NewBackendService creates a BackendService. seedFormat selects how selected_chords is encoded
// ([shared.SeedFormatLabels] or [shared.SeedFormatOptions]); empty means labels.
func NewBackendService(api *APIService, seedFormat string, logger *log.Logger) *BackendService {
	if seedFormat == "" {
		seedFormat = shared.SeedFormatLabels
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &BackendService{api: api, seedFormat: seedFormat, logger: logger}
}

// Chords fetches GET /chords and returns the labels in the order the backend sent them.
func (s *BackendService) Chords(ctx context.Context) ([]models.ChordLabel, error) {
	resp, err := s.api.Get(ctx, chordsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: GET %s status %d, body: %s", shared.ErrAPIRequest, chordsPath, resp.StatusCode, string(resp.Body))
	}

	var body chordsResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrMalformedResponse, chordsPath, err)
	}
	if body.AllChords == nil {
		return nil, fmt.Errorf("%w: %s: missing all_chords", shared.ErrMalformedResponse, chordsPath)
	}

	s.logger.Debug("fetched chord catalog", "count", len(*body.AllChords))
	return models.Labels(*body.AllChords...), nil
}

// Generate posts the request to /generate and validates the shape of the response.
//
// A progression longer than the requested length is treated as malformed.
func (s *BackendService) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	payload := generatePayload{
		Length:         req.Params.Length,
		Temperature:    req.Params.Temperature,
		Repetitiveness: req.Params.Repetitiveness,
		WindowSize:     req.Params.WindowSize,
		SelectedChords: s.encodeSeed(req.Seed),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	resp, err := s.api.Post(ctx, generatePath, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: POST %s status %d, body: %s", shared.ErrAPIRequest, generatePath, resp.StatusCode, string(resp.Body))
	}

	var body generateResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrMalformedResponse, generatePath, err)
	}
	switch {
	case body.ChordProgression == nil:
		return nil, fmt.Errorf("%w: %s: missing chord_progression", shared.ErrMalformedResponse, generatePath)
	case strings.TrimSpace(body.MidiURL) == "":
		return nil, fmt.Errorf("%w: %s: missing midi_url", shared.ErrMalformedResponse, generatePath)
	case len(*body.ChordProgression) > req.Params.Length:
		return nil, fmt.Errorf("%w: %s: got %d chords for length %d", shared.ErrMalformedResponse, generatePath, len(*body.ChordProgression), req.Params.Length)
	}

	s.logger.Debug("generated progression", "length", req.Params.Length, "chords", len(*body.ChordProgression), "midi_url", body.MidiURL)

	return &models.GenerationResult{
		Progression: models.ChordProgression(models.Labels(*body.ChordProgression...)),
		DownloadRef: models.DownloadReference(body.MidiURL),
	}, nil
}

// Fetch opens the artifact behind ref.
func (s *BackendService) Fetch(ctx context.Context, ref models.DownloadReference) (io.ReadCloser, error) {
	fullURL, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return s.api.Stream(ctx, fullURL)
}

// Resolve returns ref unchanged when it is absolute, otherwise resolves it against the backend base URL.
func (s *BackendService) Resolve(ref models.DownloadReference) (string, error) {
	if strings.TrimSpace(string(ref)) == "" {
		return "", shared.ErrNoDownload
	}

	base, err := url.Parse(s.api.BaseURL() + "/")
	if err != nil {
		return "", fmt.Errorf("%w: backend url: %v", shared.ErrInvalidConfig, err)
	}
	target, err := url.Parse(string(ref))
	if err != nil {
		return "", fmt.Errorf("%w: download reference %q: %v", shared.ErrInvalidInput, ref, err)
	}

	return base.ResolveReference(target).String(), nil
}

func (s *BackendService) encodeSeed(seed []models.ChordLabel) any {
	if s.seedFormat == shared.SeedFormatOptions {
		opts := make([]models.SelectionOption, len(seed))
		for i, l := range seed {
			opts[i] = models.SelectionOption{Label: l, Value: l}
		}
		return opts
	}
	return models.Strings(seed)
}
