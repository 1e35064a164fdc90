package main

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/vertextoedge/vidfetch/internal/domain"
	"github.com/vertextoedge/vidfetch/internal/domain/vo"
)

// statusLine renders transfer progress as a terminal bar: a byte bar when the
// length is known, a spinner otherwise. The bar description carries the status text.
type statusLine struct {
	mu  sync.Mutex
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newStatusLine(w io.Writer) *statusLine {
	return &statusLine{w: w}
}

// OnProgress implements transfer.ProgressSink
func (s *statusLine) OnProgress(p domain.TransferProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar == nil {
		s.bar = newTransferBar(s.w, p.TotalBytes)
	}
	s.bar.Describe(p.String())
	_ = s.bar.Set64(p.BytesTransferred)
}

// OnOutcome implements transfer.ProgressSink
func (s *statusLine) OnOutcome(o domain.TransferOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		fmt.Fprintln(s.w)
		s.bar = nil
	}
	fmt.Fprintln(s.w, o.String())
}

func newTransferBar(w io.Writer, total int64) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(25),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	}
	if total <= 0 {
		return progressbar.NewOptions64(-1, append(opts, progressbar.OptionSpinnerType(14))...)
	}
	return progressbar.NewOptions64(total, opts...)
}

// printHistory lists records as a table; total is the number of stored records
func printHistory(w io.Writer, records []*domain.HistoryRecord, total int) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No downloads yet")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tSTATUS\tSIZE\tDURATION\tDETAIL")
	for _, r := range records {
		detail := r.FinalPath
		switch r.Status {
		case domain.OutcomeFailed:
			detail = r.Error
		case domain.OutcomeCanceled:
			detail = r.URL
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			vo.NewByteSize(r.BytesWritten),
			r.Duration().Round(time.Second),
			detail)
	}
	tw.Flush()

	if total > len(records) {
		fmt.Fprintf(w, "\nShowing %d of %d downloads\n", len(records), total)
	}
}
