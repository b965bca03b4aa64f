package snapshot

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a pending save is written.
const DefaultDebounce = 500 * time.Millisecond

// Autosaver coalesces change notifications into one save after a quiet
// period. Close flushes whatever is still pending.
type Autosaver struct {
	mu      sync.Mutex
	saveMu  sync.Mutex
	delay   time.Duration
	save    func(ctx context.Context) error
	logger  *slog.Logger
	timer   *time.Timer
	pending bool
	closed  bool
}

// NewAutosaver calls save at most once per quiet period. save should read the
// latest state when invoked.
func NewAutosaver(delay time.Duration, save func(ctx context.Context) error, logger *slog.Logger) *Autosaver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Autosaver{delay: delay, save: save, logger: logger}
}

// Notify marks state dirty and restarts the quiet period. It never blocks on
// I/O, so it is safe to call from the engine's change hook.
func (a *Autosaver) Notify() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = true
	if a.timer == nil {
		a.timer = time.AfterFunc(a.delay, func() { _ = a.Flush() })
		return
	}
	a.timer.Reset(a.delay)
}

// Pending reports whether a save is waiting.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Flush writes immediately if anything is pending.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return nil
	}
	a.pending = false
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	if err := a.save(context.Background()); err != nil {
		a.logger.Warn("autosave failed", "error", err)
		return err
	}
	return nil
}

// Close stops accepting notifications and flushes.
func (a *Autosaver) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return a.Flush()
}
