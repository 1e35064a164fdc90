package port

// SpaceChecker reports free space for a directory.
// Implementations may be platform specific.
type SpaceChecker interface {
	// GetDiskUsage returns disk usage for the filesystem holding dir
	GetDiskUsage(dir string) (*DiskUsage, error)
}
