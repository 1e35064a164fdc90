package transfer

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vertextoedge/vidfetch/internal/domain"
	"github.com/vertextoedge/vidfetch/internal/util/ratelimiter"
)

// progressReporter turns byte counts into throttled TransferProgress values.
// The first chunk always reports; later chunks report once the interval has passed.
type progressReporter struct {
	transferID string
	total      int64
	sink       ProgressSink
	clock      clockwork.Clock
	limiter    *ratelimiter.Limiter

	startedAt time.Time
	lastAt    time.Time
	lastBytes int64
	emitted   int
}

func newProgressReporter(transferID string, total int64, sink ProgressSink, clock clockwork.Clock, interval time.Duration) *progressReporter {
	now := clock.Now()
	return &progressReporter{
		transferID: transferID,
		total:      total,
		sink:       sink,
		clock:      clock,
		limiter:    ratelimiter.NewWithClock(interval, clock),
		startedAt:  now,
		lastAt:     now,
	}
}

// chunk records that transferred bytes are now on disk
func (r *progressReporter) chunk(transferred int64) {
	if allowed, _ := r.limiter.Allow(); !allowed {
		return
	}

	now := r.clock.Now()
	rate := bytesPerSecond(transferred-r.lastBytes, now.Sub(r.lastAt))
	r.lastAt = now
	r.lastBytes = transferred

	r.emit(domain.NewTransferProgress(r.transferID, transferred, r.total, rate))
}

// final emits the closing value; its rate is the average over the whole transfer
func (r *progressReporter) final(transferred int64) {
	now := r.clock.Now()
	p := domain.NewTransferProgress(r.transferID, transferred, r.total, bytesPerSecond(transferred, now.Sub(r.startedAt)))
	p.Final = true
	if p.HasTotal() {
		p.Percent = 100
	}
	r.emit(p)
}

func (r *progressReporter) emit(p domain.TransferProgress) {
	r.emitted++
	r.sink.OnProgress(p)
}

func bytesPerSecond(bytes int64, elapsed time.Duration) float64 {
	if elapsed <= 0 || bytes <= 0 {
		return 0
	}
	return float64(bytes) / elapsed.Seconds()
}
