package vo

import "testing"

func TestByteSize_String(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{name: "unknown", bytes: -1, want: "Unknown"},
		{name: "zero", bytes: 0, want: "0 B"},
		{name: "bytes", bytes: 512, want: "512 B"},
		{name: "kibibytes", bytes: 1536, want: "1.5 KiB"},
		{name: "mebibytes", bytes: 5 * MB, want: "5.0 MiB"},
		{name: "gibibytes", bytes: 2 * GB, want: "2.0 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewByteSize(tt.bytes).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestByteSize_IsKnown(t *testing.T) {
	if NewByteSize(-1).IsKnown() {
		t.Error("negative size should be unknown")
	}
	if !NewByteSize(0).IsKnown() {
		t.Error("zero size should be known")
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		name string
		bps  float64
		want string
	}{
		{name: "negative clamps to zero", bps: -10, want: "0 B/s"},
		{name: "bytes", bps: 100, want: "100 B/s"},
		{name: "mebibytes", bps: float64(3 * MB), want: "3.0 MiB/s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRate(tt.bps).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
