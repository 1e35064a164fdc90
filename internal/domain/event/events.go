package event

import (
	"time"
)

// Event names
const (
	NameTransferStarted   = "transfer.started"
	NameTransferResolved  = "transfer.resolved"
	NameTransferCompleted = "transfer.completed"
	NameTransferCanceled  = "transfer.canceled"
	NameTransferFailed    = "transfer.failed"

	// NameAll subscribes a handler to every event
	NameAll = "*"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	// EventName returns the name of the event
	EventName() string
	// OccurredAt returns when the event occurred
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	Timestamp  time.Time
	TransferID string
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// TransferStarted is raised when a validated request is about to hit the network
type TransferStarted struct {
	BaseEvent
	URL            string
	DestinationDir string
}

// EventName returns the event name
func (e TransferStarted) EventName() string {
	return NameTransferStarted
}

// NewTransferStarted creates a new TransferStarted event
func NewTransferStarted(at time.Time, transferID, url, destinationDir string) TransferStarted {
	return TransferStarted{
		BaseEvent:      BaseEvent{Timestamp: at, TransferID: transferID},
		URL:            url,
		DestinationDir: destinationDir,
	}
}

// TransferResolved is raised once the destination path is known
type TransferResolved struct {
	BaseEvent
	Path       string
	TotalBytes int64
}

// EventName returns the event name
func (e TransferResolved) EventName() string {
	return NameTransferResolved
}

// NewTransferResolved creates a new TransferResolved event
func NewTransferResolved(at time.Time, transferID, path string, totalBytes int64) TransferResolved {
	return TransferResolved{
		BaseEvent:  BaseEvent{Timestamp: at, TransferID: transferID},
		Path:       path,
		TotalBytes: totalBytes,
	}
}

// TransferFinished carries the fields shared by all terminal events
type TransferFinished struct {
	BaseEvent
	URL            string
	DestinationDir string
	TotalBytes     int64
	BytesWritten   int64
	StartedAt      time.Time
}

// Duration returns how long the transfer ran
func (e TransferFinished) Duration() time.Duration {
	if e.StartedAt.IsZero() {
		return 0
	}
	return e.Timestamp.Sub(e.StartedAt)
}

// TransferCompleted is raised when the body was fully written
type TransferCompleted struct {
	TransferFinished
	Path string
}

// EventName returns the event name
func (e TransferCompleted) EventName() string {
	return NameTransferCompleted
}

// TransferCanceled is raised when the caller canceled the transfer
type TransferCanceled struct {
	TransferFinished
}

// EventName returns the event name
func (e TransferCanceled) EventName() string {
	return NameTransferCanceled
}

// TransferFailed is raised when the transfer ended with an error
type TransferFailed struct {
	TransferFinished
	Reason string
}

// EventName returns the event name
func (e TransferFailed) EventName() string {
	return NameTransferFailed
}
