package capture

import (
	"os/exec"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type probeData struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

// probeDimensions asks ffprobe for the first video stream's size. input holds
// the format options followed by the input itself.
func probeDimensions(input ...string) (int, int, error) {
	args := []string{"-v", "error"}
	args = append(args, input...)
	args = append(args,
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
	)

	output, err := exec.Command("ffprobe", args...).Output()
	if err != nil {
		return 0, 0, errors.Wrap(err, "ffprobe")
	}

	return parseProbe(output)
}

func parseProbe(output []byte) (int, int, error) {
	var data probeData
	if err := jsoniter.Unmarshal(output, &data); err != nil {
		return 0, 0, errors.Wrap(err, "decode ffprobe output")
	}

	if len(data.Streams) == 0 {
		return 0, 0, errors.New("no video streams found")
	}

	w, h := data.Streams[0].Width, data.Streams[0].Height
	if w <= 0 || h <= 0 {
		return 0, 0, errors.Errorf("invalid video size %dx%d", w, h)
	}

	return w, h, nil
}
