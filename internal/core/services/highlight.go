// internal/core/services/highlight.go
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ammerola/stockpile/internal/core/ports"
)

// DefaultHighlightTimeout is how long an item stays marked after a change.
const DefaultHighlightTimeout = 1500 * time.Millisecond

// HighlightTracker remembers the most recently adjusted item until a timeout
// elapses. A new highlight replaces the previous one and restarts the timer.
// The tracker stops when its context is cancelled or Close is called.
type HighlightTracker struct {
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	id     string
	active bool
	gen    uint64
	timer  *time.Timer
	closed bool
	detach func() bool
}

var _ ports.Highlighter = (*HighlightTracker)(nil)

// NewHighlightTracker creates a tracker bound to ctx.
func NewHighlightTracker(ctx context.Context, timeout time.Duration, logger *slog.Logger) *HighlightTracker {
	if timeout <= 0 {
		timeout = DefaultHighlightTimeout
	}
	h := &HighlightTracker{
		timeout: timeout,
		logger:  logger.With(slog.String("component", "highlight_tracker")),
	}
	h.detach = context.AfterFunc(ctx, h.Close)
	return h
}

// Highlight marks id, replacing any pending highlight.
func (h *HighlightTracker) Highlight(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	h.gen++
	gen := h.gen
	h.id, h.active = id, true
	h.timer = time.AfterFunc(h.timeout, func() { h.expire(gen) })
}

// expire clears the highlight only if no newer request superseded it.
func (h *HighlightTracker) expire(gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.gen != gen {
		return
	}
	h.id, h.active, h.timer = "", false, nil
}

// Current returns the highlighted id, if any.
func (h *HighlightTracker) Current() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.id, h.active
}

// Close cancels the pending timeout and clears the highlight. Further
// requests are ignored.
func (h *HighlightTracker) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.gen++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.id, h.active = "", false
	if h.detach != nil {
		h.detach()
	}
	h.logger.Debug("highlight tracker closed")
}
