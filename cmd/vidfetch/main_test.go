package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vertextoedge/vidfetch/internal/domain"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantURL string
		wantErr bool
	}{
		{"url only", []string{"https://host/a.mp4"}, "https://host/a.mp4", false},
		{"flags and url", []string{"-dir", "/tmp", "-log-level", "debug", "https://host/a.mp4"}, "https://host/a.mp4", false},
		{"history needs no url", []string{"-history"}, "", false},
		{"missing url", []string{}, "", true},
		{"two urls", []string{"https://a/1", "https://a/2"}, "", true},
		{"unknown flag", []string{"-bogus", "https://a/1"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseArgs(tt.args, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && opts.url != tt.wantURL {
				t.Errorf("url = %q, want %q", opts.url, tt.wantURL)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		outcome domain.TransferOutcome
		want    int
	}{
		{domain.Completed("t", "/a", 1), exitOK},
		{domain.Canceled("t"), exitCanceled},
		{domain.Failed("t", errors.New("boom")), exitFailure},
		{domain.Failed("t", nil), exitFailure},
	}

	for _, tt := range tests {
		if got := exitCode(tt.outcome); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.outcome, got, tt.want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	var buf bytes.Buffer
	s := newStatusLine(&buf)

	s.OnProgress(domain.NewTransferProgress("t", 512, 1024, 0))
	s.OnProgress(domain.NewTransferProgress("t", 1024, 1024, 0))
	s.OnOutcome(domain.Completed("t", "/downloads/a.mp4", 1024))

	out := buf.String()
	if !strings.Contains(out, "Downloading... 50%") {
		t.Errorf("output missing first update: %q", out)
	}
	if !strings.HasSuffix(out, "\nCompleted: /downloads/a.mp4 (1.0 KiB)\n") {
		t.Errorf("output missing outcome line: %q", out)
	}
	if s.bar != nil {
		t.Error("bar should be released after the outcome")
	}
}

func TestStatusLine_UnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	s := newStatusLine(&buf)

	s.OnProgress(domain.NewTransferProgress("t", 2048, domain.UnknownTotal, 0))
	if s.bar == nil || s.bar.GetMax64() != -1 {
		t.Fatal("unknown total should render a spinner")
	}
	s.OnOutcome(domain.Canceled("t"))

	out := buf.String()
	if !strings.Contains(out, "Downloading... 2.0 KiB") {
		t.Errorf("output missing spinner update: %q", out)
	}
	if !strings.HasSuffix(out, "\nCanceled\n") {
		t.Errorf("output missing outcome line: %q", out)
	}
}

func TestStatusLine_OutcomeWithoutProgress(t *testing.T) {
	var buf bytes.Buffer
	s := newStatusLine(&buf)
	s.OnOutcome(domain.Failed("t", errors.New("boom")))

	if got := buf.String(); got != "Error: boom\n" {
		t.Errorf("output = %q, want %q", got, "Error: boom\n")
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil, 0)
	if !strings.Contains(buf.String(), "No downloads yet") {
		t.Errorf("empty history output = %q", buf.String())
	}

	buf.Reset()
	now := time.Now()
	printHistory(&buf, []*domain.HistoryRecord{
		{ID: "1", Status: domain.OutcomeCompleted, FinalPath: "/downloads/a.mp4", BytesWritten: 2048, StartedAt: now.Add(-3 * time.Second), FinishedAt: now},
		{ID: "2", Status: domain.OutcomeFailed, Error: "unexpected HTTP status 404 Not Found", FinishedAt: now},
	}, 5)
	out := buf.String()
	for _, want := range []string{"STATUS", "completed", "/downloads/a.mp4", "2.0 KiB", "3s", "404 Not Found", "Showing 2 of 5 downloads"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_DownloadAndHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.mp4" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("video bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	t.Setenv("VIDFETCH_HISTORY_PATH", filepath.Join(t.TempDir(), "history.db"))
	t.Setenv("VIDFETCH_LOGGING_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-dir", dir, server.URL + "/clip.mp4"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	got, err := os.ReadFile(filepath.Join(dir, "clip.mp4"))
	if err != nil || string(got) != "video bytes" {
		t.Errorf("downloaded file = %q, %v", got, err)
	}

	if code := run([]string{"-dir", dir, server.URL + "/missing.mp4"}, &stdout, &stderr); code != exitFailure {
		t.Errorf("run() for 404 = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr.String(), "404") {
		t.Errorf("stderr does not mention 404: %s", stderr.String())
	}

	stdout.Reset()
	if code := run([]string{"-history"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("run(-history) = %d", code)
	}
	if !strings.Contains(stdout.String(), "clip.mp4") || !strings.Contains(stdout.String(), "failed") {
		t.Errorf("history output = %s", stdout.String())
	}
}

func TestRun_InvalidDirectory(t *testing.T) {
	t.Setenv("VIDFETCH_HISTORY_ENABLED", "false")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-dir", filepath.Join(t.TempDir(), "missing"), "https://host/a.mp4"}, &stdout, &stderr)
	if code != exitFailure {
		t.Errorf("run() = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr.String(), "invalid request") {
		t.Errorf("stderr = %s", stderr.String())
	}
}
