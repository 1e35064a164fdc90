package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrTransferActive = errors.New("a transfer is already active")

	// Transfer error kinds
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNetworkFailure    = errors.New("network failure")
	ErrFilesystemFailure = errors.New("filesystem failure")
	ErrCanceled          = errors.New("transfer canceled")

	ErrInsufficientSpace      = errors.New("insufficient space")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// TransferError classifies a failure of the transfer engine.
// Kind is one of ErrInvalidRequest, ErrNetworkFailure or ErrFilesystemFailure.
type TransferError struct {
	Kind error
	Op   string
	Err  error
}

// Error returns the error message
func (e *TransferError) Error() string {
	msg := "transfer error"
	if e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = msg + " (" + e.Op + ")"
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *TransferError) Unwrap() error {
	return e.Err
}

// Is matches the error kind so errors.Is(err, ErrNetworkFailure) works
func (e *TransferError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// NewInvalidRequestError creates an error for a request rejected before any network activity
func NewInvalidRequestError(op string, err error) *TransferError {
	return &TransferError{Kind: ErrInvalidRequest, Op: op, Err: err}
}

// NewNetworkError creates an error for HTTP and connection failures
func NewNetworkError(op string, err error) *TransferError {
	return &TransferError{Kind: ErrNetworkFailure, Op: op, Err: err}
}

// NewFilesystemError creates an error for destination create/write failures
func NewFilesystemError(op string, err error) *TransferError {
	return &TransferError{Kind: ErrFilesystemFailure, Op: op, Err: err}
}

// IsInvalidRequest returns true if err is an invalid request failure
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// IsNetworkFailure returns true if err is a network failure
func IsNetworkFailure(err error) bool {
	return errors.Is(err, ErrNetworkFailure)
}

// IsFilesystemFailure returns true if err is a filesystem failure
func IsFilesystemFailure(err error) bool {
	return errors.Is(err, ErrFilesystemFailure)
}

// HTTPStatusError is returned when the server answers with a non-success status
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

// Error returns the error message
func (e *HTTPStatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("unexpected HTTP status %s", e.Status)
	}
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// StatusCode returns the HTTP status code carried by err, if any
func StatusCode(err error) (int, bool) {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}
