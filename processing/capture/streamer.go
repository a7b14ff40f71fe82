package capture

import (
	"image"
)

// VideoStreamer produces decoded frames at the source's native resolution.
// FrameChan is closed when the stream ends; at most one error is sent on
// ErrorChan before that.
type VideoStreamer interface {
	Start() error
	Stop()
	FrameChan() <-chan image.Image
	ErrorChan() <-chan error
}
