package progression

import (
	"fmt"

	"github.com/desertthunder/chordgen/internal/shared"
)

// SeedTooLongNotice is shown when the seed has more chords than the requested length.
const SeedTooLongNotice = "The given chord sequence is longer than the requested chord progression!"

// ValidationError reports a seed longer than the requested progression.
type ValidationError struct {
	Selected int
	Length   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%d selected, length %d)", SeedTooLongNotice, e.Selected, e.Length)
}

// Unwrap lets errors.Is match [shared.ErrSeedTooLong].
func (e *ValidationError) Unwrap() error {
	return shared.ErrSeedTooLong
}
