package filesystem

import "github.com/vertextoedge/vidfetch/internal/port"

// DiskChecker reports disk usage of real directories.
// Platform-specific implementation in disk_unix.go, disk_windows.go and disk_other.go
type DiskChecker struct{}

// Ensure DiskChecker implements port.SpaceChecker
var _ port.SpaceChecker = (*DiskChecker)(nil)

// NewDiskChecker creates a new DiskChecker
func NewDiskChecker() *DiskChecker {
	return &DiskChecker{}
}

func newDiskUsage(total, free uint64) *port.DiskUsage {
	used := total - free
	usage := &port.DiskUsage{
		Total: total,
		Used:  used,
		Free:  free,
	}
	if total > 0 {
		usage.UsedPct = float64(used) / float64(total) * 100
	}
	return usage
}
