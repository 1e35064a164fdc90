package vo

import (
	"github.com/dustin/go-humanize"
)

// ByteSize represents a byte count with human-readable formatting.
// A negative value means the size is unknown.
type ByteSize struct {
	bytes int64
}

const (
	KB int64 = 1024
	MB int64 = 1024 * KB
	GB int64 = 1024 * MB
)

// NewByteSize creates a new ByteSize value object.
func NewByteSize(bytes int64) ByteSize {
	return ByteSize{bytes: bytes}
}

// Bytes returns the size in bytes.
func (s ByteSize) Bytes() int64 {
	return s.bytes
}

// IsKnown returns false for negative sizes.
func (s ByteSize) IsKnown() bool {
	return s.bytes >= 0
}

// String returns a human-readable string like "1.2 MiB", or "Unknown".
func (s ByteSize) String() string {
	if !s.IsKnown() {
		return "Unknown"
	}
	return humanize.IBytes(uint64(s.bytes))
}

// Rate represents a transfer rate in bytes per second.
type Rate struct {
	bytesPerSecond float64
}

// NewRate creates a new Rate value object. Negative rates are clamped to zero.
func NewRate(bytesPerSecond float64) Rate {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	return Rate{bytesPerSecond: bytesPerSecond}
}

// BytesPerSecond returns the raw rate.
func (r Rate) BytesPerSecond() float64 {
	return r.bytesPerSecond
}

// String returns a human-readable string like "3.4 MiB/s".
func (r Rate) String() string {
	return humanize.IBytes(uint64(r.bytesPerSecond)) + "/s"
}
