package progression

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/services"
	"github.com/desertthunder/chordgen/internal/shared"
)

// DefaultFilename is the local name every artifact is saved under.
const DefaultFilename = "chord_progression.mid"

// Saver performs the actual file save for a download reference.
//
// The returned string describes where the artifact went (a path or URL).
type Saver interface {
	Save(ctx context.Context, ref models.DownloadReference, filename string) (string, error)
}

// Dispatcher triggers downloads. Repeated calls with the same reference save again; nothing is deduplicated.
type Dispatcher struct {
	saver    Saver
	filename string
	logger   *log.Logger
}

// NewDispatcher creates a Dispatcher; an empty filename uses [DefaultFilename].
func NewDispatcher(saver Saver, filename string, logger *log.Logger) *Dispatcher {
	if filename == "" {
		filename = DefaultFilename
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Dispatcher{saver: saver, filename: filename, logger: logger}
}

// Download saves the artifact behind ref. A nil ref is a no-op returning ("", nil).
func (d *Dispatcher) Download(ctx context.Context, ref *models.DownloadReference) (string, error) {
	if ref == nil {
		return "", nil
	}

	d.logger.Info("download", "ref", string(*ref), "filename", d.filename)

	dest, err := d.saver.Save(ctx, *ref, d.filename)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", *ref, err)
	}
	return dest, nil
}

// HTTPSaver streams the artifact from the backend into a local directory.
type HTTPSaver struct {
	backend services.Backend
	dir     string
}

// NewHTTPSaver creates an HTTPSaver writing into dir ("" means the working directory).
func NewHTTPSaver(backend services.Backend, dir string) *HTTPSaver {
	if dir == "" {
		dir = "."
	}
	return &HTTPSaver{backend: backend, dir: dir}
}

// Save writes the artifact to dir/filename through a temporary file so a failed transfer never leaves a partial file.
func (s *HTTPSaver) Save(ctx context.Context, ref models.DownloadReference, filename string) (string, error) {
	body, err := s.backend.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".chordgen-*.mid")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}

	dest := filepath.Join(s.dir, filename)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move artifact into place: %w", err)
	}

	return dest, nil
}

// BrowserSaver hands the resolved URL to the system browser, which performs the save.
type BrowserSaver struct {
	backend services.Backend
	open    func(string) error
}

// NewBrowserSaver creates a BrowserSaver using [shared.OpenBrowser].
func NewBrowserSaver(backend services.Backend) *BrowserSaver {
	return &BrowserSaver{backend: backend, open: shared.OpenBrowser}
}

// Save opens the artifact URL. The filename is left to the browser.
func (s *BrowserSaver) Save(_ context.Context, ref models.DownloadReference, _ string) (string, error) {
	fullURL, err := s.backend.Resolve(ref)
	if err != nil {
		return "", err
	}
	if err := s.open(fullURL); err != nil {
		return "", err
	}
	return fullURL, nil
}

// NewSaver picks the saver for a download mode from config.
func NewSaver(mode string, backend services.Backend, dir string) (Saver, error) {
	switch mode {
	case "", shared.DownloadModeHTTP:
		return NewHTTPSaver(backend, dir), nil
	case shared.DownloadModeBrowser:
		return NewBrowserSaver(backend), nil
	default:
		return nil, fmt.Errorf("%w: unknown download mode %q", shared.ErrInvalidConfig, mode)
	}
}
