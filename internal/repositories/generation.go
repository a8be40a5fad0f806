package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/shared"
)

var _ models.Store[*models.Generation] = (*GenerationRepository)(nil)

const generationColumns = `id, sequence, length, temperature, repetitiveness, window_size, seed, progression,
	download_ref, saved_path, label, created_at, updated_at, deleted_at`

// GenerationRepository implements [models.Store] for the generation history.
//
// Seed and progression are stored as JSON arrays of labels.
type GenerationRepository struct {
	db *sql.DB
}

// NewGenerationRepository creates a new GenerationRepository with the given database connection
func NewGenerationRepository(db *sql.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Create inserts a new generation with generated ID and sequence
func (r *GenerationRepository) Create(g *models.Generation) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	seed, err := json.Marshal(models.Strings(g.Seed()))
	if err != nil {
		return fmt.Errorf("failed to encode seed: %w", err)
	}
	progression, err := json.Marshal(models.Strings(g.Progression()))
	if err != nil {
		return fmt.Errorf("failed to encode progression: %w", err)
	}

	sequence, err := NextSequence(r.db, "generations")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO generations (id, sequence, length, temperature, repetitiveness, window_size, seed, progression,
			download_ref, saved_path, label, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	p := g.Params()
	_, err = r.db.Exec(query,
		id,
		sequence,
		p.Length,
		p.Temperature,
		p.Repetitiveness,
		p.WindowSize,
		string(seed),
		string(progression),
		string(g.DownloadRef()),
		g.SavedPath(),
		g.Label(),
		g.CreatedAt(),
		g.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation: %w", err)
	}

	g.SetID(id)
	g.SetSequence(sequence)
	return nil
}

// Get retrieves a generation by ID, excluding soft-deleted rows
func (r *GenerationRepository) Get(id string) (*models.Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations WHERE id = ? AND deleted_at IS NULL`
	return scanGeneration(r.db.QueryRow(query, id))
}

// GetBySequence retrieves a generation by its sequence number
func (r *GenerationRepository) GetBySequence(sequence int) (*models.Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations WHERE sequence = ? AND deleted_at IS NULL`
	return scanGeneration(r.db.QueryRow(query, sequence))
}

// GetLatest retrieves the most recent generation
func (r *GenerationRepository) GetLatest() (*models.Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1`
	return scanGeneration(r.db.QueryRow(query))
}

// Update persists the mutable fields of a generation: label and saved path
func (r *GenerationRepository) Update(g *models.Generation) error {
	now := time.Now()

	query := `
		UPDATE generations
		SET label = ?, saved_path = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, g.Label(), g.SavedPath(), now, g.ID())
	if err != nil {
		return fmt.Errorf("failed to update generation: %w", err)
	}

	if err := expectOneRow(result, g.ID()); err != nil {
		return err
	}

	g.SetUpdatedAt(now)
	return nil
}

// Delete soft-deletes a generation by ID
func (r *GenerationRepository) Delete(id string) error {
	query := `
		UPDATE generations
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete generation: %w", err)
	}

	return expectOneRow(result, id)
}

// List retrieves generations newest first, excluding soft-deleted rows.
//
// Supported criteria: "limit" (int), "label" (string, exact match) and "since" ([time.Time]).
func (r *GenerationRepository) List(criteria map[string]any) ([]*models.Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations WHERE deleted_at IS NULL`
	args := []any{}

	if label, ok := criteria["label"].(string); ok && label != "" {
		query += " AND label = ?"
		args = append(args, label)
	}

	if since, ok := criteria["since"].(time.Time); ok && !since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, since)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query generations: %w", err)
	}
	defer rows.Close()

	var generations []*models.Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		generations = append(generations, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return generations, nil
}

// Count returns the number of live generations
func (r *GenerationRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM generations WHERE deleted_at IS NULL").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanGeneration scans a single row into a [models.Generation]
func scanGeneration(row rowScanner) (*models.Generation, error) {
	var (
		id          string
		sequence    int
		params      models.GenerationParameters
		seedJSON    string
		progJSON    string
		downloadRef string
		savedPath   string
		label       string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &params.Length, &params.Temperature, &params.Repetitiveness, &params.WindowSize,
		&seedJSON, &progJSON, &downloadRef, &savedPath, &label, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrGenerationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan generation: %w", err)
	}

	var seed, progression []string
	if err := json.Unmarshal([]byte(seedJSON), &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(progJSON), &progression); err != nil {
		return nil, fmt.Errorf("failed to decode progression of %s: %w", id, err)
	}

	result := models.GenerationResult{
		Progression: models.ChordProgression(models.Labels(progression...)),
		DownloadRef: models.DownloadReference(downloadRef),
	}

	g := models.NewGeneration(sequence, params, models.Labels(seed...), result)
	g.SetID(id)
	g.SetSavedPath(savedPath)
	g.SetLabel(label)
	g.SetCreatedAt(createdAt)
	g.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		g.SetDeletedAt(&deletedAt.Time)
	}

	return g, nil
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrGenerationNotFound, id)
	}
	return nil
}
