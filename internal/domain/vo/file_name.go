package vo

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// FileName represents a bare destination file name.
// It never contains directory components.
type FileName struct {
	value string
}

var (
	ErrEmptyFileName   = errors.New("file name cannot be empty")
	ErrInvalidFileName = errors.New("invalid file name")
)

// NewFileName creates a FileName from an untrusted name such as a header value.
// Surrounding quotes and whitespace are removed and only the last path element is kept.
func NewFileName(raw string) (FileName, error) {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, `"`)
	name = strings.TrimSpace(name)
	if name == "" {
		return FileName{}, ErrEmptyFileName
	}

	// Both separators are stripped regardless of platform; servers send either.
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "/" || name == "." || name == ".." {
		return FileName{}, fmt.Errorf("%w: %q", ErrInvalidFileName, raw)
	}
	if strings.ContainsRune(name, 0) {
		return FileName{}, fmt.Errorf("%w: %q", ErrInvalidFileName, raw)
	}
	return FileName{value: name}, nil
}

// MustFileName creates a new FileName, panicking if invalid.
// Use only when the name is known to be valid.
func MustFileName(raw string) FileName {
	fn, err := NewFileName(raw)
	if err != nil {
		panic(err)
	}
	return fn
}

// String returns the file name.
func (fn FileName) String() string {
	return fn.value
}

// Extension returns the file extension (including the dot).
func (fn FileName) Extension() string {
	return filepath.Ext(fn.value)
}

// Stem returns the name without its extension.
func (fn FileName) Stem() string {
	return strings.TrimSuffix(fn.value, fn.Extension())
}

// WithCounter returns "stem (n)ext", the name used to disambiguate collisions.
func (fn FileName) WithCounter(n int) FileName {
	return FileName{value: fmt.Sprintf("%s (%d)%s", fn.Stem(), n, fn.Extension())}
}

// In joins the name onto dir.
func (fn FileName) In(dir string) string {
	return filepath.Join(dir, fn.value)
}
