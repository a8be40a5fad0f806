package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chordgen/internal/server"
)

// FakeBackend is an in-process generation backend serving /chords, /generate and /files/.
type FakeBackend struct {
	*httptest.Server

	Counter *server.RequestCounter

	mu          sync.Mutex
	chords      []string
	progression []string
	ref         string
	files       map[string][]byte
	status      map[string]int
	payloads    []map[string]any
}

// NewFakeBackend starts a backend that answers with the given catalog and progression.
// The server is closed when the test ends.
func NewFakeBackend(t *testing.T, chords, progression []string, ref string) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{
		Counter:     server.NewRequestCounter(),
		chords:      chords,
		progression: progression,
		ref:         ref,
		files:       make(map[string][]byte),
		status:      make(map[string]int),
	}

	r := server.NewBasicRouter()
	r.Use(server.RequestLogger(log.New(io.Discard)), server.CountRequests(fb.Counter))
	r.HandleFunc(http.MethodGet, "/chords", fb.handleChords)
	r.HandleFunc(http.MethodPost, "/generate", fb.handleGenerate)
	r.HandleFunc(http.MethodGet, "/files/", fb.handleFile)

	fb.Server = httptest.NewServer(r)
	t.Cleanup(fb.Close)
	return fb
}

// ServeFile registers an artifact body at path.
func (fb *FakeBackend) ServeFile(path string, body []byte) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.files[path] = body
}

// FailWith makes path answer with status until reset with 0.
func (fb *FakeBackend) FailWith(path string, status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.status[path] = status
}

// Payloads returns the decoded bodies of every /generate request.
func (fb *FakeBackend) Payloads() []map[string]any {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]map[string]any(nil), fb.payloads...)
}

func (fb *FakeBackend) failure(w http.ResponseWriter, path string) bool {
	fb.mu.Lock()
	code := fb.status[path]
	fb.mu.Unlock()
	if code == 0 {
		return false
	}
	http.Error(w, http.StatusText(code), code)
	return true
}

func (fb *FakeBackend) handleChords(w http.ResponseWriter, r *http.Request) {
	if fb.failure(w, "/chords") {
		return
	}
	writeJSON(w, map[string]any{"all_chords": fb.chords})
}

func (fb *FakeBackend) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if fb.failure(w, "/generate") {
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fb.mu.Lock()
	fb.payloads = append(fb.payloads, payload)
	fb.mu.Unlock()

	writeJSON(w, map[string]any{"chord_progression": fb.progression, "midi_url": fb.ref})
}

func (fb *FakeBackend) handleFile(w http.ResponseWriter, r *http.Request) {
	if fb.failure(w, "/files/") {
		return
	}

	fb.mu.Lock()
	body, ok := fb.files[r.URL.Path]
	fb.mu.Unlock()
	if !ok || !strings.HasPrefix(r.URL.Path, "/files/") {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
