package ui

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
)

// animationScheduler ticks once per rendered frame of the fyne driver.
type animationScheduler struct {
	anim  *fyne.Animation
	ticks chan struct{}
}

func newAnimationScheduler() *animationScheduler {
	s := &animationScheduler{ticks: make(chan struct{}, 1)}

	s.anim = fyne.NewAnimation(time.Second, func(float32) {
		select {
		case s.ticks <- struct{}{}:
		default:
		}
	})
	s.anim.Curve = fyne.AnimationLinear
	s.anim.RepeatCount = fyne.AnimationRepeatForever

	return s
}

func (s *animationScheduler) Start() { s.anim.Start() }
func (s *animationScheduler) Stop()  { s.anim.Stop() }

// Wait discards a tick left over from before the call, so each wait spans at
// least one refresh.
func (s *animationScheduler) Wait(ctx context.Context) error {
	select {
	case <-s.ticks:
	default:
	}

	select {
	case <-s.ticks:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
