package domain

import "time"

// HistoryRecord is a finished transfer as shown in the download log
type HistoryRecord struct {
	ID             string
	URL            string
	DestinationDir string
	FinalPath      string
	Status         OutcomeStatus
	BytesWritten   int64
	TotalBytes     int64
	Error          string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Duration returns how long the transfer ran
func (r *HistoryRecord) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
