package port

import (
	"io"
)

// DiskUsage represents disk usage statistics
type DiskUsage struct {
	Total   uint64  // Total disk space in bytes
	Used    uint64  // Used disk space in bytes
	Free    uint64  // Free disk space in bytes
	UsedPct float64 // Used percentage (0-100)
}

// WritableFile is a destination file opened by the transfer engine
type WritableFile interface {
	io.Writer

	// Name returns the path the file was opened with
	Name() string

	// Sync flushes the file contents to stable storage
	Sync() error

	// Close releases the file handle
	Close() error
}

// FileSystem defines the interface for filesystem operations
type FileSystem interface {
	// IsDir reports whether path exists and is a directory
	IsDir(path string) (bool, error)

	// Exists reports whether anything exists at path
	Exists(path string) (bool, error)

	// Create opens path for exclusive write, creating or truncating it
	Create(path string) (WritableFile, error)

	// Remove deletes a file; a missing file is not an error
	Remove(path string) error

	// GetFileSize returns the size of a file
	GetFileSize(path string) (int64, error)
}
