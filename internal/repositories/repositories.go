package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/chordgen/internal/shared"
)

// sequenced lists the tables that own a <table>_sequence counter.
var sequenced = map[string]bool{"generations": true}

// NextSequence increments and returns the counter of table in one statement.
//
// Sequence numbers are what users type on the command line (e.g. `history show 7`), so they are never reused,
// even after a soft delete.
func NextSequence(db *sql.DB, table string) (int, error) {
	if !sequenced[table] {
		return 0, fmt.Errorf("%w: no sequence for table %q", shared.ErrInvalidArgument, table)
	}

	var sequence int
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("sequence for %s is not initialized", table)
		}
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	return sequence, nil
}
