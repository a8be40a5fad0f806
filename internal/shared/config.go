package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the config file.
const (
	EnvBackendURL  = "CHORDGEN_BACKEND_URL"
	EnvDBPath      = "CHORDGEN_DB_PATH"
	EnvDownloadDir = "CHORDGEN_DOWNLOAD_DIR"
)

// Seed formats for the selected_chords field of a generation request.
const (
	SeedFormatLabels  = "labels"
	SeedFormatOptions = "options"
)

// Download modes.
const (
	DownloadModeHTTP    = "http"
	DownloadModeBrowser = "browser"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend    BackendConfig    `toml:"backend"`
	Generation GenerationConfig `toml:"generation"`
	Download   DownloadConfig   `toml:"download"`
	Database   DatabaseConfig   `toml:"database"`
	History    HistoryConfig    `toml:"history"`
}

// BackendConfig contains settings for the generation backend.
type BackendConfig struct {
	URL               string  `toml:"url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	SeedFormat        string  `toml:"seed_format"`
}

// Timeout returns the request timeout as a [time.Duration].
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// GenerationConfig holds the initial generation parameters.
type GenerationConfig struct {
	Length         int     `toml:"length"`
	Temperature    float64 `toml:"temperature"`
	Repetitiveness float64 `toml:"repetitiveness"`
	WindowSize     int     `toml:"window_size"`
}

// DownloadConfig controls where and how generated MIDI files are saved.
type DownloadConfig struct {
	Dir      string `toml:"dir"`
	Filename string `toml:"filename"`
	Mode     string `toml:"mode"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// HistoryConfig toggles persistence of generated progressions.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Backend.SeedFormat {
	case SeedFormatLabels, SeedFormatOptions:
	default:
		return fmt.Errorf("%w: backend.seed_format must be %q or %q, got %q", ErrInvalidConfig, SeedFormatLabels, SeedFormatOptions, c.Backend.SeedFormat)
	}

	switch c.Download.Mode {
	case DownloadModeHTTP, DownloadModeBrowser:
	default:
		return fmt.Errorf("%w: download.mode must be %q or %q, got %q", ErrInvalidConfig, DownloadModeHTTP, DownloadModeBrowser, c.Download.Mode)
	}

	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("%w: backend.url is required", ErrInvalidConfig)
	}

	return nil
}

// ApplyEnv loads a .env file from the working directory if one exists, then overrides config values from the environment.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.Backend.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		c.Database.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDownloadDir)); v != "" {
		c.Download.Dir = v
	}
}

// Resolve loads the config at path when it exists, falling back to defaults, then applies environment overrides.
func Resolve(path string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	config.ApplyEnv()
	return config, nil
}
