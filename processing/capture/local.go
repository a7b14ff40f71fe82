package capture

import (
	"fmt"
	"image"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	bytesPerPixel int  = 4
	standardFps   uint = 30
)

// LocalFileStreamer plays a video file at its native size, paced to fps.
type LocalFileStreamer struct {
	stopOnce sync.Once
	killOnce sync.Once

	path      string
	targetFPS uint

	width  int
	height int

	cmd       *exec.Cmd
	frameChan chan image.Image
	errChan   chan error
	stopChan  chan struct{}
}

func NewLocalStreamer(path string, targetFPS uint) *LocalFileStreamer {
	if targetFPS == 0 {
		targetFPS = standardFps
	}

	return &LocalFileStreamer{
		path:      path,
		targetFPS: targetFPS,
		frameChan: make(chan image.Image, 2),
		errChan:   make(chan error, 1),
		stopChan:  make(chan struct{}),
	}
}

func (ls *LocalFileStreamer) Start() error {
	w, h, err := probeDimensions(ls.path)
	if err != nil {
		return errors.Wrapf(err, "probe %s", ls.path)
	}
	ls.width, ls.height = w, h

	ls.cmd = exec.Command("ffmpeg", ls.args()...)

	stdout, err := ls.cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "ffmpeg stdout")
	}

	if err := ls.cmd.Start(); err != nil {
		return errors.Wrap(err, "ffmpeg start")
	}

	go ls.readFrames(stdout)

	return nil
}

func (ls *LocalFileStreamer) args() []string {
	return []string{
		"-i", ls.path,
		"-vf", fmt.Sprintf("fps=%d", ls.targetFPS),
		"-f", "image2pipe",
		"-pix_fmt", "rgba",
		"-vcodec", "rawvideo",
		"-",
	}
}

func (ls *LocalFileStreamer) readFrames(stdout io.ReadCloser) {
	defer close(ls.frameChan)
	defer close(ls.errChan)
	defer stdout.Close()
	defer ls.stopCmdOut()

	buffer := make([]byte, ls.width*ls.height*bytesPerPixel)

	ticker := time.NewTicker(time.Second / time.Duration(ls.targetFPS))
	defer ticker.Stop()

	for {
		select {
		case <-ls.stopChan:
			return

		case <-ticker.C:
			img, err := readFrame(stdout, buffer, ls.width, ls.height)
			if err == io.EOF {
				return
			}
			if err != nil {
				select {
				case <-ls.stopChan:
				default:
					ls.errChan <- errors.Wrap(err, "file read")
				}
				return
			}

			select {
			case ls.frameChan <- img:
			case <-ls.stopChan:
				return
			}
		}
	}
}

func (ls *LocalFileStreamer) stopCmdOut() {
	ls.killOnce.Do(func() {
		if ls.cmd != nil && ls.cmd.Process != nil {
			ls.cmd.Process.Kill()
			ls.cmd.Wait()
		}
	})
}

func (ls *LocalFileStreamer) Stop() {
	ls.stopOnce.Do(func() {
		close(ls.stopChan)
		ls.stopCmdOut()
	})
}

func (ls *LocalFileStreamer) FrameChan() <-chan image.Image {
	return ls.frameChan
}

func (ls *LocalFileStreamer) ErrorChan() <-chan error {
	return ls.errChan
}
