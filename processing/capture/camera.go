package capture

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Acquire starts s and attaches it to v. A start failure is logged and
// returned; v then never reports metadata.
func Acquire(ctx context.Context, s VideoStreamer, v *Video, log logrus.FieldLogger) error {
	if err := s.Start(); err != nil {
		log.WithError(err).Error("error accessing webcam")
		return err
	}

	go v.Play(ctx, s)

	return nil
}
