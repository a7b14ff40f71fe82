package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()

	require.NoError(t, cfg.Validate())

	w, h := cfg.GetIdealSize()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
	assert.Equal(t, SourceWebcam, cfg.GetSource())
	assert.Equal(t, DefaultDetectorHost, cfg.Detector.Host)
}

func TestLoadConfigFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.json"))

	require.NoError(t, err)
	assert.Equal(t, DefaultRefreshRate, cfg.GetRefreshRate())
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"active_source": "Local",
		"refresh_rate": 30,
		"local": {"path": "/tmp/clip.mp4", "fps": 25},
		"detector": {"host": "10.0.0.5:9000"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, SourceLocal, cfg.GetSource())
	assert.Equal(t, uint(30), cfg.GetRefreshRate())
	assert.Equal(t, "/tmp/clip.mp4", cfg.Local.Path)
	assert.Equal(t, "10.0.0.5:9000", cfg.Detector.Host)
	// untouched keys keep their defaults
	assert.Equal(t, uint(2000), cfg.Detector.RetryDelayMs)
	w, _ := cfg.GetIdealSize()
	assert.Equal(t, DefaultIdealWidth, w)
}

func TestLoadConfigFileInvalidFallsBack(t *testing.T) {
	tests := map[string]string{
		"bad json":        `{"refresh_rate": `,
		"zero refresh":    `{"refresh_rate": 0}`,
		"unknown source":  `{"active_source": "YouTube"}`,
		"local no path":   `{"active_source": "Local"}`,
		"bad host":        `{"detector": {"host": "no-port"}}`,
		"bad log level":   `{"log": {"level": "loud"}}`,
		"negative height": `{"webcam": {"ideal_height": -1}}`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(data), 0644))

			cfg, err := LoadConfigFile(path)
			require.Error(t, err)
			require.NotNil(t, cfg)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewDefaultConfig()
	cfg.SetSource(SourceLocal)
	cfg.Local.Path = "demo.mp4"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, loaded.GetSource())
	assert.Equal(t, "demo.mp4", loaded.Local.Path)
}
