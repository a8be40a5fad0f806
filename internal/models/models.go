// package models defines the data model for the chordgen client
package models

import "time"

// Record is a persisted entity with a stable id and a human-friendly sequence number.
type Record interface {
	ID() string
	Sequence() int
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Store is the data access contract for a [Record] type. Delete is soft: deleted
// records disappear from Get, List and Count.
type Store[T Record] interface {
	Create(record T) error
	Get(id string) (T, error)
	GetBySequence(sequence int) (T, error)
	Update(record T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
	Count() (int, error)
}
