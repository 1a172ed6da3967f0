package watchdog

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"eventfoundry-api/internal/entity"
)

type fakeBidding struct {
	sweeps atomic.Int64
}

func (f *fakeBidding) CloseBiddingWindow(ctx context.Context, eventId string) (*entity.CloseWindowResult, error) {
	return &entity.CloseWindowResult{EventId: eventId, Success: true}, nil
}

func (f *fakeBidding) CheckExpiredBiddingWindows(ctx context.Context) (*entity.SweepResult, error) {
	f.sweeps.Add(1)

	return &entity.SweepResult{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatchdogSweepsOnStartAndInterval(t *testing.T) {
	bidding := &fakeBidding{}
	w := New(Config{Interval: 10 * time.Millisecond, SweepTimeout: time.Second}, bidding, testLogger())

	err := w.Start(context.Background())
	assert.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for bidding.sweeps.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 sweeps, got %d", bidding.sweeps.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	check.NoError(t, w.Stop(ctx))
}

func TestWatchdogStopsSweeping(t *testing.T) {
	bidding := &fakeBidding{}
	w := New(Config{Interval: 5 * time.Millisecond, SweepTimeout: time.Second}, bidding, testLogger())

	err := w.Start(context.Background())
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, w.Stop(ctx))

	after := bidding.sweeps.Load()
	time.Sleep(30 * time.Millisecond)
	check.Equal(t, after, bidding.sweeps.Load())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	check.Equal(t, time.Minute, cfg.Interval)
	check.Equal(t, 30*time.Second, cfg.SweepTimeout)
}
