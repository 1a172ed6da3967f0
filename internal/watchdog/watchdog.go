// Package watchdog periodically closes bidding windows whose deadline has
// passed, so shortlisting happens even when nobody calls the close endpoint.
package watchdog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventfoundry-api/internal/service"
)

// Config holds watchdog configuration.
type Config struct {
	Interval     time.Duration // Sweep interval (default: 1m)
	SweepTimeout time.Duration // Per-sweep timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:     time.Minute,
		SweepTimeout: 30 * time.Second,
	}
}

// Watchdog runs the expired-window sweep on a ticker.
type Watchdog struct {
	cfg     Config
	bidding service.Bidding
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Watchdog.
func New(cfg Config, bidding service.Bidding, logger *slog.Logger) *Watchdog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watchdog{
		cfg:     cfg,
		bidding: bidding,
		logger:  logger,
	}
}

// Start begins the sweep loop.
func (w *Watchdog) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.run()

	w.logger.Info("bidding window watchdog started", "interval", w.cfg.Interval)

	return nil
}

// Stop gracefully shuts down the watchdog.
func (w *Watchdog) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("bidding window watchdog stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main sweep loop.
func (w *Watchdog) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	// Sweep immediately on start.
	w.sweep()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Watchdog) sweep() {
	start := time.Now()

	ctx, cancel := context.WithTimeout(w.ctx, w.cfg.SweepTimeout)
	defer cancel()

	result, err := w.bidding.CheckExpiredBiddingWindows(ctx)
	if err != nil {
		w.logger.Error("expired window sweep failed", "err", err)
		return
	}

	if result.TotalFound == 0 {
		w.logger.Debug("no expired bidding windows")
		return
	}

	w.logger.Info("sweep cycle complete",
		"found", result.TotalFound,
		"closed", result.ClosedCount,
		"duration", time.Since(start),
	)
}
