package filesystem

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/vertextoedge/vidfetch/internal/port"
)

// Manager handles local filesystem operations on top of an afero.Fs
type Manager struct {
	fs       afero.Fs
	filePerm os.FileMode
}

// Ensure Manager implements port.FileSystem
var _ port.FileSystem = (*Manager)(nil)

// NewManager creates a new filesystem manager backed by fs
func NewManager(fs afero.Fs) *Manager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Manager{
		fs:       fs,
		filePerm: 0644,
	}
}

// NewOSManager creates a filesystem manager for the real filesystem
func NewOSManager() *Manager {
	return NewManager(afero.NewOsFs())
}

// Fs returns the underlying afero filesystem
func (m *Manager) Fs() afero.Fs {
	return m.fs
}

// IsDir reports whether path exists and is a directory
func (m *Manager) IsDir(path string) (bool, error) {
	ok, err := afero.IsDir(m.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat directory: %w", err)
	}
	return ok, nil
}

// Exists reports whether anything exists at path
func (m *Manager) Exists(path string) (bool, error) {
	ok, err := afero.Exists(m.fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}
	return ok, nil
}

// Create opens path for exclusive write, creating or truncating it
func (m *Manager) Create(path string) (port.WritableFile, error) {
	f, err := m.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, m.filePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return f, nil
}

// Remove deletes a file; a missing file is not an error
func (m *Manager) Remove(path string) error {
	if err := m.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFileSize returns the size of a file
func (m *Manager) GetFileSize(path string) (int64, error) {
	info, err := m.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
