package ui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimationSchedulerWaitsForFreshTick(t *testing.T) {
	s := newAnimationScheduler()

	// stale tick from before the wait
	s.anim.Tick(0.5)

	done := make(chan error, 1)
	go func() { done <- s.Wait(context.Background()) }()

	require.Eventually(t, func() bool {
		s.anim.Tick(0.5)
		select {
		case err := <-done:
			return assert.NoError(t, err)
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestAnimationSchedulerWaitCancelled(t *testing.T) {
	s := newAnimationScheduler()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Wait(ctx), context.Canceled)
}
