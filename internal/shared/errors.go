package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrMalformedResponse  = fmt.Errorf("malformed response")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Generation errors
	ErrSeedTooLong        = fmt.Errorf("seed sequence longer than requested length")
	ErrGenerationInFlight = fmt.Errorf("generation already in progress")
	ErrCatalogLoaded      = fmt.Errorf("chord catalog already loaded")
	ErrNoDownload         = fmt.Errorf("no download available")
	ErrInvalidArtifact    = fmt.Errorf("invalid MIDI artifact")

	// Persistence errors
	ErrGenerationNotFound = fmt.Errorf("generation not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
