package event

import (
	"sync"

	"go.uber.org/zap"
)

// LoggingHandler logs all events
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case TransferStarted:
		h.logger.Info("starting download",
			zap.String("transfer_id", e.TransferID),
			zap.String("url", e.URL),
			zap.String("dest_dir", e.DestinationDir),
		)
	case TransferResolved:
		h.logger.Info("saving as",
			zap.String("transfer_id", e.TransferID),
			zap.String("path", e.Path),
			zap.Int64("total_bytes", e.TotalBytes),
		)
	case TransferCompleted:
		h.logger.Info("download completed",
			zap.String("transfer_id", e.TransferID),
			zap.String("path", e.Path),
			zap.Int64("bytes", e.BytesWritten),
			zap.Duration("duration", e.Duration()),
		)
	case TransferCanceled:
		h.logger.Info("download canceled",
			zap.String("transfer_id", e.TransferID),
			zap.Int64("bytes", e.BytesWritten),
		)
	case TransferFailed:
		h.logger.Warn("download failed",
			zap.String("transfer_id", e.TransferID),
			zap.String("url", e.URL),
			zap.String("reason", e.Reason),
		)
	default:
		h.logger.Debug("domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *LoggingHandler) HandledEvents() []string {
	return []string{NameAll}
}

// MetricsHandler collects counters from terminal events
type MetricsHandler struct {
	mu        sync.Mutex
	completed int64
	canceled  int64
	failed    int64
	bytes     int64
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// Handle updates metrics based on the event
func (h *MetricsHandler) Handle(event DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch e := event.(type) {
	case TransferCompleted:
		h.completed++
		h.bytes += e.BytesWritten
	case TransferCanceled:
		h.canceled++
	case TransferFailed:
		h.failed++
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *MetricsHandler) HandledEvents() []string {
	return []string{
		NameTransferCompleted,
		NameTransferCanceled,
		NameTransferFailed,
	}
}

// GetMetrics returns current metrics
func (h *MetricsHandler) GetMetrics() map[string]int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	return map[string]int64{
		"transfers_completed": h.completed,
		"transfers_canceled":  h.canceled,
		"transfers_failed":    h.failed,
		"bytes_downloaded":    h.bytes,
	}
}
