//go:build !linux && !darwin && !windows

package filesystem

import (
	"errors"

	"github.com/vertextoedge/vidfetch/internal/port"
)

// ErrDiskUsageUnsupported is returned on platforms without a disk usage probe
var ErrDiskUsageUnsupported = errors.New("disk usage not supported on this platform")

// GetDiskUsage is not implemented on this platform
func (c *DiskChecker) GetDiskUsage(dir string) (*port.DiskUsage, error) {
	return nil, ErrDiskUsageUnsupported
}
