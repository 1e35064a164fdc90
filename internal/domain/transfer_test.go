package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestTransferRequest_ParsedURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://host/path/video.mp4"},
		{name: "http with query", url: "http://host:8080/v?id=1"},
		{name: "surrounding whitespace", url: "  https://host/a.mp4 \n"},
		{name: "empty", url: "", wantErr: true},
		{name: "relative", url: "/path/video.mp4", wantErr: true},
		{name: "no host", url: "https:///video.mp4", wantErr: true},
		{name: "unsupported scheme", url: "ftp://host/video.mp4", wantErr: true},
		{name: "malformed", url: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewTransferRequest(tt.url, "/tmp")
			u, err := req.ParsedURL()
			if tt.wantErr {
				if !IsInvalidRequest(err) {
					t.Fatalf("ParsedURL() error = %v, want invalid request", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsedURL() unexpected error: %v", err)
			}
			if u.Host == "" {
				t.Error("ParsedURL() returned URL without host")
			}
		})
	}
}

func TestNewTransferRequest_AssignsUniqueIDs(t *testing.T) {
	a := NewTransferRequest("https://host/a", "/tmp")
	b := NewTransferRequest("https://host/a", "/tmp")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs should be unique and non-empty: %q %q", a.ID, b.ID)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name        string
		transferred int64
		total       int64
		want        int
	}{
		{name: "unknown total", transferred: 100, total: UnknownTotal, want: -1},
		{name: "start", transferred: 0, total: 1000, want: 0},
		{name: "floors", transferred: 999, total: 1000, want: 99},
		{name: "done", transferred: 1000, total: 1000, want: 100},
		{name: "clamped above", transferred: 1500, total: 1000, want: 100},
		{name: "empty body", transferred: 0, total: 0, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.transferred, tt.total); got != tt.want {
				t.Errorf("Percent(%d, %d) = %d, want %d", tt.transferred, tt.total, got, tt.want)
			}
		})
	}
}

func TestTransferProgress_String(t *testing.T) {
	known := NewTransferProgress("id", 512, 1024, 256)
	if got := known.String(); got != "Downloading... 50% (512 B/1.0 KiB) 256 B/s" {
		t.Errorf("known total String() = %q", got)
	}

	unknown := NewTransferProgress("id", 512, UnknownTotal, 0)
	if unknown.HasTotal() {
		t.Error("HasTotal() should be false for unknown total")
	}
	if unknown.Percent != -1 {
		t.Errorf("Percent = %d, want -1", unknown.Percent)
	}
	if got := unknown.FormattedTotal(); got != "Unknown" {
		t.Errorf("FormattedTotal() = %q, want Unknown", got)
	}
	if got := unknown.String(); got != "Downloading... 512 B 0 B/s" {
		t.Errorf("unknown total String() = %q", got)
	}

	final := known
	final.Final = true
	if got := final.String(); got != "Finished (512 B)" {
		t.Errorf("final String() = %q", got)
	}
}

func TestTransferOutcome(t *testing.T) {
	done := Completed("id", "/tmp/a.mp4", 2048)
	if !done.IsCompleted() || done.AsError() != nil {
		t.Errorf("completed outcome: %+v", done)
	}
	if got := done.String(); got != "Completed: /tmp/a.mp4 (2.0 KiB)" {
		t.Errorf("String() = %q", got)
	}

	canceled := Canceled("id")
	if !canceled.IsCanceled() || !errors.Is(canceled.AsError(), ErrCanceled) {
		t.Errorf("canceled outcome: %+v", canceled)
	}
	if canceled.Reason() != "" {
		t.Errorf("canceled Reason() = %q, want empty", canceled.Reason())
	}

	failed := Failed("id", NewNetworkError("request", &HTTPStatusError{StatusCode: 404, Status: "404 Not Found"}))
	if !failed.IsFailed() || !IsNetworkFailure(failed.AsError()) {
		t.Errorf("failed outcome: %+v", failed)
	}
	if !strings.Contains(failed.Reason(), "404") {
		t.Errorf("Reason() = %q, want it to reference 404", failed.Reason())
	}
	if !strings.HasPrefix(failed.String(), "Error: ") {
		t.Errorf("String() = %q", failed.String())
	}
}
