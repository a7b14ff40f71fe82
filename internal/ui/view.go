package ui

import (
	"fmt"

	processing "livedetect/processing/detector"
)

const (
	appTitle       = "Real-Time Object Detection"
	loadingText    = "Loading model..."
	enterFullLabel = "Enter Fullscreen"
	exitFullLabel  = "Exit Fullscreen"
)

// ViewState is what the display shell renders.
type ViewState struct {
	Loop       processing.Snapshot
	Fullscreen bool
}

// InfoLines is the info bar content: a loading indicator until the model is
// ready, then live statistics.
func (v ViewState) InfoLines() []string {
	if !v.Loop.ModelLoaded {
		return []string{loadingText}
	}

	return []string{
		formatFPS(v.Loop.FPS),
		formatObjects(v.Loop.ObjectCount),
		formatStatus(v.Loop.Detecting),
	}
}

func (v ViewState) FullscreenLabel() string {
	if v.Fullscreen {
		return exitFullLabel
	}
	return enterFullLabel
}

func formatFPS(v int) string {
	return fmt.Sprintf("FPS: %d", v)
}

func formatObjects(v int) string {
	return fmt.Sprintf("Objects: %d", v)
}

func formatStatus(detecting bool) string {
	if detecting {
		return "Status: Detecting"
	}
	return "Status: Standby"
}
