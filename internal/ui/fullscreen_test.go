package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeWindow struct {
	full    bool
	refuse  bool
	changes int
}

func (w *fakeWindow) FullScreen() bool { return w.full }

func (w *fakeWindow) SetFullScreen(full bool) {
	if w.refuse {
		return
	}
	w.changes++
	w.full = full
}

func TestToggleFullscreenTwiceRestores(t *testing.T) {
	for _, start := range []bool{false, true} {
		w := &fakeWindow{full: start}

		assert.Equal(t, !start, ToggleFullscreen(w))
		assert.Equal(t, start, ToggleFullscreen(w))
		assert.Equal(t, start, w.full)
		assert.Equal(t, 2, w.changes)
	}
}

func TestToggleFullscreenRefused(t *testing.T) {
	w := &fakeWindow{refuse: true}

	assert.False(t, ToggleFullscreen(w))
	assert.False(t, ToggleFullscreen(w))
}
