package capture

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os/exec"
	"regexp"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// FFmpegWebcamStreamer reads raw RGBA frames from a camera. The ideal size is
// a request; the camera may negotiate a different one, which Start probes.
type FFmpegWebcamStreamer struct {
	stopOnce sync.Once
	killOnce sync.Once

	deviceName  string
	idealWidth  int
	idealHeight int

	width  int
	height int

	cmd       *exec.Cmd
	frameChan chan image.Image
	errChan   chan error

	stopChan chan struct{}
}

func NewFFmpegWebcam(deviceName string, idealWidth, idealHeight int) *FFmpegWebcamStreamer {
	return &FFmpegWebcamStreamer{
		deviceName:  deviceName,
		idealWidth:  idealWidth,
		idealHeight: idealHeight,

		frameChan: make(chan image.Image),
		errChan:   make(chan error, 1),
		stopChan:  make(chan struct{}),
	}
}

// inputArgs returns the ffmpeg input options for the device on goos.
func (ws *FFmpegWebcamStreamer) inputArgs(goos string) []string {
	size := fmt.Sprintf("%dx%d", ws.idealWidth, ws.idealHeight)

	if goos == "windows" {
		return []string{
			"-f", "dshow",
			"-video_size", size,
			"-i", fmt.Sprintf("video=%s", ws.deviceName),
		}
	}

	return []string{
		"-f", "v4l2",
		"-video_size", size,
		"-i", ws.deviceName,
	}
}

func (ws *FFmpegWebcamStreamer) Start() error {
	input := ws.inputArgs(runtime.GOOS)

	w, h, err := probeDimensions(input...)
	if err != nil {
		return errors.Wrapf(err, "probe camera %s", ws.deviceName)
	}
	ws.width, ws.height = w, h

	args := append(input,
		"-f", "image2pipe",
		"-pix_fmt", "rgba",
		"-vcodec", "rawvideo",
		"-",
	)

	ws.cmd = exec.Command("ffmpeg", args...)

	var stderr bytes.Buffer
	ws.cmd.Stderr = &stderr

	stdout, err := ws.cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "ffmpeg stdout")
	}

	if err := ws.cmd.Start(); err != nil {
		return errors.Wrapf(err, "ffmpeg start: %s", stderr.String())
	}

	go ws.readLoop(stdout)

	return nil
}

func (ws *FFmpegWebcamStreamer) readLoop(stdout io.ReadCloser) {
	defer close(ws.frameChan)
	defer close(ws.errChan)
	defer stdout.Close()
	defer ws.stopCmdOut()

	stride := ws.width * bytesPerPixel
	buffer := make([]byte, stride*ws.height)

	for {
		select {
		case <-ws.stopChan:
			return

		default:
			img, err := readFrame(stdout, buffer, ws.width, ws.height)
			if err != nil {
				select {
				case <-ws.stopChan:
				default:
					ws.errChan <- errors.Wrap(err, "camera read")
				}
				return
			}

			select {
			case ws.frameChan <- img:
			case <-ws.stopChan:
				return
			}
		}
	}
}

func (ws *FFmpegWebcamStreamer) stopCmdOut() {
	ws.killOnce.Do(func() {
		if ws.cmd != nil && ws.cmd.Process != nil {
			ws.cmd.Process.Kill()
			ws.cmd.Wait()
		}
	})
}

func (ws *FFmpegWebcamStreamer) Stop() {
	ws.stopOnce.Do(func() {
		close(ws.stopChan)
		ws.stopCmdOut()
	})
}

func (ws *FFmpegWebcamStreamer) FrameChan() <-chan image.Image { return ws.frameChan }
func (ws *FFmpegWebcamStreamer) ErrorChan() <-chan error       { return ws.errChan }

var dshowDevice = regexp.MustCompile(`"([^"]+)"\s+\(video\)`)

func ListCameras() ([]string, error) {
	if runtime.GOOS != "windows" {
		return []string{"/dev/video0", "/dev/video1"}, nil
	}

	cmd := exec.Command("ffmpeg", "-list_devices", "true", "-f", "dshow", "-i", "dummy")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// ffmpeg always exits non-zero for the dummy input
	_ = cmd.Run()

	return parseDshowDevices(stderr.String()), nil
}

func parseDshowDevices(output string) []string {
	var cameras []string
	seen := make(map[string]bool)

	for _, m := range dshowDevice.FindAllStringSubmatch(output, -1) {
		name := m[1]
		if name != "dummy" && !seen[name] {
			cameras = append(cameras, name)
			seen[name] = true
		}
	}

	return cameras
}
