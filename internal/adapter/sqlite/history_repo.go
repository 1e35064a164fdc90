package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vertextoedge/vidfetch/internal/domain"
)

const historyColumns = `id, url, dest_dir, final_path, status, bytes_written, total_bytes, error, started_at, finished_at`

// Record inserts a finished transfer
func (s *Store) Record(record *domain.HistoryRecord) error {
	query := `INSERT INTO history (` + historyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		record.ID, record.URL, record.DestinationDir, record.FinalPath, string(record.Status),
		record.BytesWritten, record.TotalBytes, record.Error,
		toUnix(record.StartedAt), toUnix(record.FinishedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: history record %s", domain.ErrAlreadyExists, record.ID)
		}
		return fmt.Errorf("failed to insert history record: %w", err)
	}
	return nil
}

// Get retrieves a record by transfer ID
func (s *Store) Get(id string) (*domain.HistoryRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM history WHERE id = ?`

	record, err := scanHistory(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: history record %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history record: %w", err)
	}
	return record, nil
}

// List returns the most recent records first
func (s *Store) List(limit int) ([]*domain.HistoryRecord, error) {
	if limit <= 0 {
		return []*domain.HistoryRecord{}, nil
	}

	query := `SELECT ` + historyColumns + ` FROM history ORDER BY finished_at DESC, id LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.HistoryRecord, 0, limit)
	for rows.Next() {
		record, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// PruneOlderThan removes records finished more than age ago
func (s *Store) PruneOlderThan(age time.Duration) (int, error) {
	cutoff := s.clock.Now().Add(-age)

	result, err := s.db.Exec(`DELETE FROM history WHERE finished_at < ?`, toUnix(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Count returns the number of stored records
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*domain.HistoryRecord, error) {
	record := &domain.HistoryRecord{}
	var status string
	var startedAt, finishedAt int64

	err := row.Scan(
		&record.ID, &record.URL, &record.DestinationDir, &record.FinalPath, &status,
		&record.BytesWritten, &record.TotalBytes, &record.Error, &startedAt, &finishedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Status = domain.OutcomeStatus(status)
	record.StartedAt = fromUnix(startedAt)
	record.FinishedAt = fromUnix(finishedAt)
	return record, nil
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
