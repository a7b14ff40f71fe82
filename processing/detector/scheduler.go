package processing

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// FrameScheduler paces the detection loop to the display refresh. Wait
// blocks until the next refresh.
type FrameScheduler interface {
	Wait(ctx context.Context) error
}

const DefaultRefreshRate uint = 60

// TickerScheduler approximates the display refresh with a ticker. Missed
// ticks are dropped, never queued.
type TickerScheduler struct {
	ticker *clock.Ticker
}

func NewTickerScheduler(clk clock.Clock, hz uint) *TickerScheduler {
	if hz == 0 {
		hz = DefaultRefreshRate
	}
	return &TickerScheduler{ticker: clk.Ticker(time.Second / time.Duration(hz))}
}

func (s *TickerScheduler) Wait(ctx context.Context) error {
	select {
	case <-s.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *TickerScheduler) Stop() {
	s.ticker.Stop()
}
