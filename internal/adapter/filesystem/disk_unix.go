//go:build linux || darwin

package filesystem

import (
	"fmt"
	"syscall"

	"github.com/vertextoedge/vidfetch/internal/port"
)

// GetDiskUsage returns disk usage for the filesystem holding dir
func (c *DiskChecker) GetDiskUsage(dir string) (*port.DiskUsage, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return nil, fmt.Errorf("failed to get disk stats: %w", err)
	}

	total := uint64(stat.Blocks) * uint64(stat.Bsize)
	free := uint64(stat.Bavail) * uint64(stat.Bsize)
	return newDiskUsage(total, free), nil
}
