package capture

import (
	"context"
	"image"
	"sync"

	"github.com/sirupsen/logrus"
)

// Video is the playable surface a stream is attached to. It holds the latest
// frame and its intrinsic size. Callbacks must be set before Play.
type Video struct {
	mu     sync.RWMutex
	frame  image.Image
	width  int
	height int

	metadataOnce sync.Once

	// OnLoadedMetadata fires once, when the first frame fixes the size.
	OnLoadedMetadata func(width, height int)
	// OnFrame fires for every frame on the playing goroutine.
	OnFrame func(frame image.Image)

	log logrus.FieldLogger
}

func NewVideo(log logrus.FieldLogger) *Video {
	return &Video{log: log}
}

// Play consumes s until ctx ends or the stream closes.
func (v *Video) Play(ctx context.Context, s VideoStreamer) {
	frames := s.FrameChan()
	errs := s.ErrorChan()

	for {
		select {
		case <-ctx.Done():
			return

		case frame, ok := <-frames:
			if !ok {
				v.log.Info("video stream ended")
				return
			}
			if frame == nil {
				continue
			}
			v.present(frame)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			v.log.WithError(err).Error("video stream error")
		}
	}
}

func (v *Video) present(frame image.Image) {
	b := frame.Bounds()

	v.mu.Lock()
	v.frame = frame
	v.width, v.height = b.Dx(), b.Dy()
	v.mu.Unlock()

	if b.Dx() > 0 && b.Dy() > 0 {
		v.metadataOnce.Do(func() {
			v.log.WithField("width", b.Dx()).WithField("height", b.Dy()).Info("video metadata loaded")
			if v.OnLoadedMetadata != nil {
				v.OnLoadedMetadata(b.Dx(), b.Dy())
			}
		})
	}

	if v.OnFrame != nil {
		v.OnFrame(frame)
	}
}

// CurrentFrame returns the latest frame, or false before the first one.
func (v *Video) CurrentFrame() (image.Image, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.frame, v.frame != nil
}

// Size is the intrinsic size of the latest frame.
func (v *Video) Size() (int, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}
