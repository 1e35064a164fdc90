// Package session allows at most one transfer at a time and owns its cancellation.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vertextoedge/vidfetch/internal/domain"
	"github.com/vertextoedge/vidfetch/internal/service/transfer"
)

// Downloader runs a single transfer; *transfer.Engine implements it
type Downloader interface {
	Download(ctx context.Context, req domain.TransferRequest, sink transfer.ProgressSink) domain.TransferOutcome
}

// Controller runs transfers one at a time
type Controller struct {
	downloader Downloader
	logger     *zap.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	activeID string
	done     chan struct{}
}

// New creates a new Controller
func New(downloader Downloader, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		downloader: downloader,
		logger:     logger,
	}
}

// Start launches req in the background. The returned channel yields the
// outcome once and is then closed. While a transfer runs, Start returns
// domain.ErrTransferActive.
func (c *Controller) Start(ctx context.Context, req domain.TransferRequest, sink transfer.ProgressSink) (<-chan domain.TransferOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return nil, domain.ErrTransferActive
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.activeID = req.ID
	c.done = done

	out := make(chan domain.TransferOutcome, 1)
	go func() {
		defer close(done)
		defer close(out)

		outcome := c.downloader.Download(runCtx, req, sink)
		cancel()

		// Clear before delivering so the receiver may start the next transfer
		c.clear()
		out <- outcome
	}()

	c.logger.Debug("transfer session started", zap.String("transfer_id", req.ID))
	return out, nil
}

// Cancel signals the active transfer. It reports whether there was one.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return false
	}
	c.logger.Debug("canceling transfer", zap.String("transfer_id", c.activeID))
	c.cancel()
	return true
}

// Active reports whether a transfer is running
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// ActiveID returns the ID of the running transfer, or ""
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Wait blocks until the running transfer, if any, has delivered its outcome
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (c *Controller) clear() {
	c.mu.Lock()
	c.cancel = nil
	c.activeID = ""
	c.mu.Unlock()
}
