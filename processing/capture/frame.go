package capture

import (
	"image"
	"io"
)

// readFrame fills buffer with one raw RGBA frame and returns a copy of it as
// an image. io.EOF is returned only when no byte of the frame was read.
func readFrame(r io.Reader, buffer []byte, width, height int) (*image.RGBA, error) {
	if _, err := io.ReadFull(r, buffer); err != nil {
		return nil, err
	}

	pixels := make([]byte, len(buffer))
	copy(pixels, buffer)

	return &image.RGBA{
		Pix:    pixels,
		Stride: width * bytesPerPixel,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}
