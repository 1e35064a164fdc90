// Package transfer streams a single HTTP resource to a local file.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/vertextoedge/vidfetch/internal/domain"
	"github.com/vertextoedge/vidfetch/internal/domain/event"
	"github.com/vertextoedge/vidfetch/internal/domain/vo"
	"github.com/vertextoedge/vidfetch/internal/port"
	"github.com/vertextoedge/vidfetch/internal/resolver"
)

const (
	// DefaultChunkSize is the read and write unit of the copy loop
	DefaultChunkSize = 81920
	// DefaultProgressInterval is the minimum gap between progress emissions
	DefaultProgressInterval = 200 * time.Millisecond
)

// Config holds engine tuning
type Config struct {
	ChunkSize        int
	ProgressInterval time.Duration
	FallbackName     string
}

// Engine downloads one URL into one directory per call.
// It keeps no per-transfer state between calls, so a single Engine may serve
// concurrent callers.
type Engine struct {
	client     port.HTTPDoer
	fs         port.FileSystem
	resolver   *resolver.Resolver
	space      port.SpaceChecker
	dispatcher event.EventDispatcher
	clock      clockwork.Clock
	logger     *zap.Logger

	chunkSize        int
	progressInterval time.Duration
}

// Option customizes an Engine
type Option func(*Engine)

// WithSpaceChecker enables the free-space check before the destination is created
func WithSpaceChecker(space port.SpaceChecker) Option {
	return func(e *Engine) {
		e.space = space
	}
}

// WithDispatcher publishes transfer events to dispatcher
func WithDispatcher(dispatcher event.EventDispatcher) Option {
	return func(e *Engine) {
		if dispatcher != nil {
			e.dispatcher = dispatcher
		}
	}
}

// WithClock replaces the wall clock used for throttling and timing
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewEngine creates a new Engine
func NewEngine(client port.HTTPDoer, fs port.FileSystem, cfg Config, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultProgressInterval
	}

	e := &Engine{
		client:           client,
		fs:               fs,
		resolver:         resolver.New(fs, cfg.FallbackName, logger),
		dispatcher:       &event.NullDispatcher{},
		clock:            clockwork.NewRealClock(),
		logger:           logger,
		chunkSize:        cfg.ChunkSize,
		progressInterval: cfg.ProgressInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// transfer is the state of one Download call
type transfer struct {
	req       domain.TransferRequest
	dir       string
	state     *domain.StateMachine
	startedAt time.Time

	total   int64
	path    string
	file    port.WritableFile
	created bool
	written int64
}

// Download fetches req.URL into req.DestinationDir and returns the terminal outcome.
// ctx is the cancellation scope; it is checked before every read and write.
// Every failure is reported through the outcome, which is also delivered to sink.
func (e *Engine) Download(ctx context.Context, req domain.TransferRequest, sink ProgressSink) domain.TransferOutcome {
	if sink == nil {
		sink = NopSink{}
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	t := &transfer{
		req:       req,
		state:     domain.NewStateMachine(),
		startedAt: e.clock.Now(),
		total:     domain.UnknownTotal,
	}

	outcome := e.safeRun(ctx, t, sink)
	e.release(t, outcome)
	e.finish(t, outcome)
	sink.OnOutcome(outcome)
	return outcome
}

func (e *Engine) safeRun(ctx context.Context, t *transfer, sink ProgressSink) (outcome domain.TransferOutcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Transfer panicked",
				zap.String("transfer_id", t.req.ID),
				zap.Any("panic", r))
			outcome = domain.Failed(t.req.ID, fmt.Errorf("internal error: %v", r))
		}
	}()
	return e.run(ctx, t, sink)
}

func (e *Engine) run(ctx context.Context, t *transfer, sink ProgressSink) domain.TransferOutcome {
	id := t.req.ID

	u, err := t.req.ParsedURL()
	if err != nil {
		return domain.Failed(id, err)
	}
	if err := e.validateDir(t); err != nil {
		return domain.Failed(id, err)
	}
	if ctx.Err() != nil {
		return domain.Canceled(id)
	}

	e.transition(t, domain.StateRequesting)
	e.logger.Debug("Starting transfer",
		zap.String("transfer_id", id),
		zap.String("url", u.Redacted()),
		zap.String("dir", t.dir))
	e.dispatcher.Dispatch(event.NewTransferStarted(t.startedAt, id, t.req.URL, t.dir))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Failed(id, domain.NewInvalidRequestError("request", err))
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Canceled(id)
		}
		return domain.Failed(id, domain.NewNetworkError("request", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Failed(id, domain.NewNetworkError("request",
			&domain.HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status}))
	}

	e.transition(t, domain.StateResolving)
	if resp.ContentLength >= 0 {
		t.total = resp.ContentLength
	}

	path, err := e.resolver.Resolve(resp.Header, t.req.URL, t.dir)
	if err != nil {
		return domain.Failed(id, domain.NewFilesystemError("resolve", err))
	}
	t.path = path

	if err := e.checkSpace(t); err != nil {
		return domain.Failed(id, err)
	}
	if ctx.Err() != nil {
		return domain.Canceled(id)
	}

	file, err := e.fs.Create(path)
	if err != nil {
		return domain.Failed(id, domain.NewFilesystemError("create", err))
	}
	t.file = file
	t.created = true

	e.logger.Debug("Destination resolved",
		zap.String("transfer_id", id),
		zap.String("path", path),
		zap.Int64("content_length", t.total))
	e.dispatcher.Dispatch(event.NewTransferResolved(e.clock.Now(), id, path, t.total))

	e.transition(t, domain.StateStreaming)
	return e.stream(ctx, t, resp.Body, sink)
}

// stream copies body into the destination file chunk by chunk
func (e *Engine) stream(ctx context.Context, t *transfer, body io.Reader, sink ProgressSink) domain.TransferOutcome {
	id := t.req.ID
	reporter := newProgressReporter(id, t.total, sink, e.clock, e.progressInterval)
	buf := make([]byte, e.chunkSize)

	for {
		if ctx.Err() != nil {
			return domain.Canceled(id)
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			if ctx.Err() != nil {
				return domain.Canceled(id)
			}
			if _, err := t.file.Write(buf[:n]); err != nil {
				return domain.Failed(id, domain.NewFilesystemError("write", err))
			}
			t.written += int64(n)
			reporter.chunk(t.written)
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return domain.Canceled(id)
			}
			return domain.Failed(id, domain.NewNetworkError("read", readErr))
		}
	}

	if err := t.file.Sync(); err != nil {
		return domain.Failed(id, domain.NewFilesystemError("sync", err))
	}
	file := t.file
	t.file = nil
	if err := file.Close(); err != nil {
		return domain.Failed(id, domain.NewFilesystemError("close", err))
	}

	reporter.final(t.written)
	e.logger.Debug("Stream finished",
		zap.String("transfer_id", id),
		zap.Int("progress_updates", reporter.emitted))

	return domain.Completed(id, t.path, t.written)
}

func (e *Engine) validateDir(t *transfer) error {
	if t.req.DestinationDir == "" {
		return domain.NewInvalidRequestError("validate", errors.New("destination directory is empty"))
	}
	dir, err := filepath.Abs(t.req.DestinationDir)
	if err != nil {
		return domain.NewInvalidRequestError("validate", fmt.Errorf("invalid destination directory: %w", err))
	}

	isDir, err := e.fs.IsDir(dir)
	if err != nil {
		return domain.NewInvalidRequestError("validate", err)
	}
	if !isDir {
		return domain.NewInvalidRequestError("validate", fmt.Errorf("destination directory does not exist: %s", dir))
	}
	t.dir = dir
	return nil
}

// checkSpace fails early when the declared length cannot fit.
// A failing probe only logs; the write itself will surface a full disk.
func (e *Engine) checkSpace(t *transfer) error {
	if e.space == nil || t.total <= 0 {
		return nil
	}

	usage, err := e.space.GetDiskUsage(t.dir)
	if err != nil {
		e.logger.Warn("Failed to check free space",
			zap.String("transfer_id", t.req.ID),
			zap.String("dir", t.dir),
			zap.Error(err))
		return nil
	}

	if usage.Free < uint64(t.total) {
		return domain.NewFilesystemError("space check", fmt.Errorf("%w: need %s, %s free",
			domain.ErrInsufficientSpace,
			vo.NewByteSize(t.total),
			vo.NewByteSize(int64(usage.Free))))
	}
	return nil
}

// release closes the destination and removes partial output of unsuccessful transfers
func (e *Engine) release(t *transfer, outcome domain.TransferOutcome) {
	if t.file != nil {
		if err := t.file.Close(); err != nil {
			e.logger.Debug("Failed to close destination",
				zap.String("transfer_id", t.req.ID),
				zap.Error(err))
		}
		t.file = nil
	}

	if outcome.IsCompleted() || !t.created {
		return
	}
	if err := e.fs.Remove(t.path); err != nil {
		e.logger.Warn("Failed to remove partial file",
			zap.String("transfer_id", t.req.ID),
			zap.String("path", t.path),
			zap.Error(err))
	}
}

// finish moves to the terminal state, logs and publishes the outcome
func (e *Engine) finish(t *transfer, outcome domain.TransferOutcome) {
	e.transition(t, domain.StateFor(outcome.Status))

	now := e.clock.Now()
	finished := event.TransferFinished{
		BaseEvent:      event.BaseEvent{Timestamp: now, TransferID: t.req.ID},
		URL:            t.req.URL,
		DestinationDir: t.req.DestinationDir,
		TotalBytes:     t.total,
		BytesWritten:   t.written,
		StartedAt:      t.startedAt,
	}
	if t.dir != "" {
		finished.DestinationDir = t.dir
	}

	switch outcome.Status {
	case domain.OutcomeCompleted:
		e.logger.Debug("Transfer completed",
			zap.String("transfer_id", t.req.ID),
			zap.String("path", outcome.FinalPath),
			zap.Int64("bytes", outcome.BytesWritten),
			zap.Duration("duration", finished.Duration()))
		e.dispatcher.Dispatch(event.TransferCompleted{TransferFinished: finished, Path: outcome.FinalPath})
	case domain.OutcomeCanceled:
		e.logger.Debug("Transfer canceled",
			zap.String("transfer_id", t.req.ID),
			zap.Int64("bytes", t.written))
		e.dispatcher.Dispatch(event.TransferCanceled{TransferFinished: finished})
	default:
		e.logger.Debug("Transfer failed",
			zap.String("transfer_id", t.req.ID),
			zap.String("url", t.req.URL),
			zap.Error(outcome.Err))
		e.dispatcher.Dispatch(event.TransferFailed{TransferFinished: finished, Reason: outcome.Reason()})
	}
}

func (e *Engine) transition(t *transfer, next domain.TransferState) {
	from := t.state.Current()
	if err := t.state.Transition(next); err != nil {
		e.logger.Warn("Ignoring state transition",
			zap.String("transfer_id", t.req.ID),
			zap.Error(err))
		return
	}
	e.logger.Debug("Transfer state changed",
		zap.String("transfer_id", t.req.ID),
		zap.Stringer("from", from),
		zap.Stringer("to", next))
}
