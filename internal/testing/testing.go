// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/chordgen/internal/models"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MockBackend is a test double for the generation backend that counts calls.
type MockBackend struct {
	mu sync.Mutex

	ChordsResult   []models.ChordLabel
	ChordsErr      error
	GenerateResult *models.GenerationResult
	GenerateErr    error
	Artifact       []byte
	FetchErr       error
	BaseURL        string

	ChordsCalls   int
	GenerateCalls int
	FetchCalls    int
	LastRequest   models.GenerationRequest
	FetchedRefs   []models.DownloadReference
}

func (m *MockBackend) Chords(ctx context.Context) ([]models.ChordLabel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChordsCalls++
	return m.ChordsResult, m.ChordsErr
}

func (m *MockBackend) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls++
	m.LastRequest = req
	return m.GenerateResult, m.GenerateErr
}

func (m *MockBackend) Fetch(ctx context.Context, ref models.DownloadReference) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls++
	m.FetchedRefs = append(m.FetchedRefs, ref)
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return io.NopCloser(bytes.NewReader(m.Artifact)), nil
}

func (m *MockBackend) Resolve(ref models.DownloadReference) (string, error) {
	return m.BaseURL + string(ref), nil
}

// Calls returns the total number of backend calls made.
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ChordsCalls + m.GenerateCalls + m.FetchCalls
}

// SaveCall is one recorded call to [RecordingSaver.Save].
type SaveCall struct {
	Ref      models.DownloadReference
	Filename string
}

// RecordingSaver records every save without touching the filesystem.
type RecordingSaver struct {
	Calls []SaveCall
	Err   error
}

func (s *RecordingSaver) Save(ctx context.Context, ref models.DownloadReference, filename string) (string, error) {
	s.Calls = append(s.Calls, SaveCall{Ref: ref, Filename: filename})
	if s.Err != nil {
		return "", s.Err
	}
	return filename, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// MIDIFixture encodes a single-track SMF with one whole-note chord per entry, 96 ticks per quarter.
func MIDIFixture(t *testing.T, chords ...[]uint8) []byte {
	t.Helper()

	const wholeNote = 4 * 96

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)

	var tr smf.Track
	for _, keys := range chords {
		for _, k := range keys {
			tr.Add(0, midi.NoteOn(0, k, 100))
		}
		for i, k := range keys {
			var delta uint32
			if i == 0 {
				delta = wholeNote
			}
			tr.Add(delta, midi.NoteOff(0, k))
		}
	}
	tr.Close(0)
	s.Add(tr)

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("failed to encode MIDI fixture: %v", err)
	}
	return buf.Bytes()
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
