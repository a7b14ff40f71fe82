package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livedetect/internal/config"
)

func TestNewWithOutputLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(config.LogConfig{Level: "warn"}, &buf)

	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	Component(log, "loop").Info("hidden")
	assert.Empty(t, buf.String())

	Component(log, "loop").WithField("frame", 3).Warn("detection failed")
	out := buf.String()
	assert.Contains(t, out, "detection failed")
	assert.Contains(t, out, "loop")
	assert.Contains(t, out, "frame:3")
}

func TestNewWithOutputBadLevelDefaultsToInfo(t *testing.T) {
	log := NewWithOutput(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewWritesLogFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "livedetect.log")
	log := NewWithOutput(config.LogConfig{Level: "info", File: file}, &bytes.Buffer{})

	log.Info("camera started")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "camera started")
}
