package history

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vertextoedge/vidfetch/internal/domain"
	"github.com/vertextoedge/vidfetch/internal/domain/event"
	"github.com/vertextoedge/vidfetch/internal/port"
)

// Recorder persists terminal transfer events
type Recorder struct {
	repo   port.HistoryRepository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo port.HistoryRepository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger}
}

// Handle records completed, canceled and failed transfers
func (r *Recorder) Handle(e event.DomainEvent) error {
	var record *domain.HistoryRecord

	switch ev := e.(type) {
	case event.TransferCompleted:
		record = newRecord(ev.TransferFinished, domain.OutcomeCompleted)
		record.FinalPath = ev.Path
	case event.TransferCanceled:
		record = newRecord(ev.TransferFinished, domain.OutcomeCanceled)
	case event.TransferFailed:
		record = newRecord(ev.TransferFinished, domain.OutcomeFailed)
		record.Error = ev.Reason
	default:
		return nil
	}

	if err := r.repo.Record(record); err != nil {
		return fmt.Errorf("failed to record transfer %s: %w", record.ID, err)
	}

	r.logger.Debug("recorded transfer",
		zap.String("transfer_id", record.ID),
		zap.String("status", string(record.Status)))
	return nil
}

// HandledEvents returns the events this handler handles
func (r *Recorder) HandledEvents() []string {
	return []string{
		event.NameTransferCompleted,
		event.NameTransferCanceled,
		event.NameTransferFailed,
	}
}

func newRecord(f event.TransferFinished, status domain.OutcomeStatus) *domain.HistoryRecord {
	return &domain.HistoryRecord{
		ID:             f.TransferID,
		URL:            f.URL,
		DestinationDir: f.DestinationDir,
		Status:         status,
		BytesWritten:   f.BytesWritten,
		TotalBytes:     f.TotalBytes,
		StartedAt:      f.StartedAt,
		FinishedAt:     f.Timestamp,
	}
}
