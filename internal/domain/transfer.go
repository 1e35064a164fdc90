package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vertextoedge/vidfetch/internal/domain/vo"
)

// UnknownTotal marks a transfer whose content length was not declared
const UnknownTotal int64 = -1

// TransferRequest represents one user-initiated download
type TransferRequest struct {
	ID             string
	URL            string
	DestinationDir string
	CreatedAt      time.Time
}

// NewTransferRequest creates a request with a fresh ID
func NewTransferRequest(rawURL, destinationDir string) TransferRequest {
	return TransferRequest{
		ID:             uuid.NewString(),
		URL:            strings.TrimSpace(rawURL),
		DestinationDir: destinationDir,
		CreatedAt:      time.Now(),
	}
}

// ParsedURL validates the request URL and returns it parsed.
// Only absolute http(s) URLs with a host are accepted.
func (r TransferRequest) ParsedURL() (*url.URL, error) {
	if r.URL == "" {
		return nil, NewInvalidRequestError("validate", fmt.Errorf("url is empty"))
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, NewInvalidRequestError("validate", fmt.Errorf("malformed url: %w", err))
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, NewInvalidRequestError("validate", fmt.Errorf("url is not absolute: %s", r.URL))
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, NewInvalidRequestError("validate", fmt.Errorf("unsupported url scheme: %s", u.Scheme))
	}
	return u, nil
}

// TransferProgress is a throttled snapshot of an active transfer
type TransferProgress struct {
	TransferID       string
	BytesTransferred int64
	// TotalBytes is UnknownTotal when the server declared no length
	TotalBytes int64
	// Percent is in [0, 100], or -1 when TotalBytes is unknown
	Percent int
	// BytesPerSecond is measured over the window since the previous emission
	BytesPerSecond float64
	Final          bool
}

// NewTransferProgress builds a progress snapshot, deriving the percentage from the totals
func NewTransferProgress(transferID string, transferred, total int64, bytesPerSecond float64) TransferProgress {
	return TransferProgress{
		TransferID:       transferID,
		BytesTransferred: transferred,
		TotalBytes:       total,
		Percent:          Percent(transferred, total),
		BytesPerSecond:   bytesPerSecond,
	}
}

// Percent returns floor(transferred*100/total) clamped to [0, 100], or -1 if total is unknown
func Percent(transferred, total int64) int {
	if total <= 0 {
		if total == 0 {
			return 100
		}
		return -1
	}
	p := transferred * 100 / total
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(p)
}

// HasTotal reports whether the content length is known
func (p TransferProgress) HasTotal() bool {
	return p.TotalBytes >= 0
}

// FormattedTransferred returns the transferred bytes in human-readable form
func (p TransferProgress) FormattedTransferred() string {
	return vo.NewByteSize(p.BytesTransferred).String()
}

// FormattedTotal returns the total size in human-readable form, or "Unknown"
func (p TransferProgress) FormattedTotal() string {
	return vo.NewByteSize(p.TotalBytes).String()
}

// FormattedRate returns the transfer rate in human-readable form
func (p TransferProgress) FormattedRate() string {
	return vo.NewRate(p.BytesPerSecond).String()
}

// String returns the status line shown to the user
func (p TransferProgress) String() string {
	if p.Final {
		return fmt.Sprintf("Finished (%s)", p.FormattedTransferred())
	}
	if p.HasTotal() {
		return fmt.Sprintf("Downloading... %d%% (%s/%s) %s",
			p.Percent, p.FormattedTransferred(), p.FormattedTotal(), p.FormattedRate())
	}
	return fmt.Sprintf("Downloading... %s %s", p.FormattedTransferred(), p.FormattedRate())
}

// OutcomeStatus tags a TransferOutcome
type OutcomeStatus string

const (
	OutcomeCompleted OutcomeStatus = "completed"
	OutcomeCanceled  OutcomeStatus = "canceled"
	OutcomeFailed    OutcomeStatus = "failed"
)

// TransferOutcome is the single terminal result of a transfer.
// FinalPath and BytesWritten are meaningful only when Status is OutcomeCompleted,
// Err only when Status is OutcomeFailed.
type TransferOutcome struct {
	TransferID   string
	Status       OutcomeStatus
	FinalPath    string
	BytesWritten int64
	Err          error
}

// Completed creates a successful outcome
func Completed(transferID, finalPath string, bytesWritten int64) TransferOutcome {
	return TransferOutcome{
		TransferID:   transferID,
		Status:       OutcomeCompleted,
		FinalPath:    finalPath,
		BytesWritten: bytesWritten,
	}
}

// Canceled creates a canceled outcome
func Canceled(transferID string) TransferOutcome {
	return TransferOutcome{TransferID: transferID, Status: OutcomeCanceled}
}

// Failed creates a failed outcome carrying the reason
func Failed(transferID string, err error) TransferOutcome {
	return TransferOutcome{TransferID: transferID, Status: OutcomeFailed, Err: err}
}

// IsCompleted returns true if the transfer finished successfully
func (o TransferOutcome) IsCompleted() bool { return o.Status == OutcomeCompleted }

// IsCanceled returns true if the transfer was canceled
func (o TransferOutcome) IsCanceled() bool { return o.Status == OutcomeCanceled }

// IsFailed returns true if the transfer failed
func (o TransferOutcome) IsFailed() bool { return o.Status == OutcomeFailed }

// Reason returns a human-readable description of a failure
func (o TransferOutcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// AsError converts the outcome to an error: nil on completion, ErrCanceled on cancellation
func (o TransferOutcome) AsError() error {
	switch o.Status {
	case OutcomeCompleted:
		return nil
	case OutcomeCanceled:
		return ErrCanceled
	default:
		if o.Err == nil {
			return errors.New("transfer failed")
		}
		return o.Err
	}
}

// String returns a one-line summary for logs and the terminal
func (o TransferOutcome) String() string {
	switch o.Status {
	case OutcomeCompleted:
		return fmt.Sprintf("Completed: %s (%s)", o.FinalPath, vo.NewByteSize(o.BytesWritten))
	case OutcomeCanceled:
		return "Canceled"
	case OutcomeFailed:
		return "Error: " + o.Reason()
	default:
		return string(o.Status)
	}
}
