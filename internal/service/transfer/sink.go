package transfer

import "github.com/vertextoedge/vidfetch/internal/domain"

// ProgressSink receives updates for a single transfer.
// Both methods run on the engine goroutine; consumers hand values to their
// own event loop if they need to.
type ProgressSink interface {
	// OnProgress receives throttled progress while the transfer runs
	OnProgress(progress domain.TransferProgress)
	// OnOutcome receives the terminal outcome exactly once, after the last progress value
	OnOutcome(outcome domain.TransferOutcome)
}

// SinkFuncs adapts plain functions to ProgressSink. Nil fields are ignored.
type SinkFuncs struct {
	Progress func(domain.TransferProgress)
	Outcome  func(domain.TransferOutcome)
}

// OnProgress implements ProgressSink
func (s SinkFuncs) OnProgress(progress domain.TransferProgress) {
	if s.Progress != nil {
		s.Progress(progress)
	}
}

// OnOutcome implements ProgressSink
func (s SinkFuncs) OnOutcome(outcome domain.TransferOutcome) {
	if s.Outcome != nil {
		s.Outcome(outcome)
	}
}

// NopSink discards all updates
type NopSink struct{}

// OnProgress implements ProgressSink
func (NopSink) OnProgress(domain.TransferProgress) {}

// OnOutcome implements ProgressSink
func (NopSink) OnOutcome(domain.TransferOutcome) {}
