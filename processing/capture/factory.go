package capture

import (
	"github.com/pkg/errors"

	"livedetect/internal/config"
)

func NewStreamer(cfg *config.Config) (VideoStreamer, error) {
	switch cfg.GetSource() {
	case config.SourceWebcam:
		w, h := cfg.GetIdealSize()
		return NewFFmpegWebcam(cfg.Webcam.DeviceID, w, h), nil
	case config.SourceLocal:
		return NewLocalStreamer(cfg.Local.Path, cfg.Local.FPS), nil
	default:
		return nil, errors.Errorf("unknown source: %s", cfg.GetSource())
	}
}
