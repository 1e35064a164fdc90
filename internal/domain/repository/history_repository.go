package repository

import (
	"time"

	"github.com/vertextoedge/vidfetch/internal/domain"
)

// HistoryRepository defines the interface for download history persistence
type HistoryRepository interface {
	// Record inserts a finished transfer.
	// Returns domain.ErrAlreadyExists if a record with the same ID exists
	Record(record *domain.HistoryRecord) error

	// Get retrieves a record by transfer ID.
	// Returns domain.ErrNotFound if no record exists
	Get(id string) (*domain.HistoryRecord, error)

	// List returns the most recent records first, at most limit rows
	List(limit int) ([]*domain.HistoryRecord, error)

	// PruneOlderThan removes records finished before now-age
	PruneOlderThan(age time.Duration) (int, error)

	// Count returns the number of stored records
	Count() (int, error)

	// Close closes the underlying storage
	Close() error
}
