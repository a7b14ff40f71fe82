package config

import (
	"encoding/json"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type SourceType string

const (
	SourceLocal  SourceType = "Local"
	SourceWebcam SourceType = "Web-Camera"

	DefaultConfigPath   string = "config.json"
	DefaultDetectorHost string = "localhost:8080"

	DefaultIdealWidth  int  = 1920
	DefaultIdealHeight int  = 1080
	DefaultRefreshRate uint = 60
)

type LocalConfig struct {
	Path string `json:"path"`
	FPS  uint   `json:"fps" validate:"lte=240"`
}

type WebcamConfig struct {
	DeviceID    string `json:"device_id" validate:"required"`
	IdealWidth  int    `json:"ideal_width" validate:"gt=0"`
	IdealHeight int    `json:"ideal_height" validate:"gt=0"`
}

type DetectorConfig struct {
	Host               string `json:"host" validate:"required,hostname_port"`
	MaxAttempts        uint   `json:"max_attempts"`
	RetryDelayMs       uint   `json:"retry_delay_ms" validate:"gt=0"`
	HandshakeTimeoutMs uint   `json:"handshake_timeout_ms" validate:"gt=0"`
	WriteTimeoutMs     uint   `json:"write_timeout_ms" validate:"gt=0"`
}

func (d DetectorConfig) RetryDelay() time.Duration {
	return time.Duration(d.RetryDelayMs) * time.Millisecond
}

func (d DetectorConfig) HandshakeTimeout() time.Duration {
	return time.Duration(d.HandshakeTimeoutMs) * time.Millisecond
}

func (d DetectorConfig) WriteTimeout() time.Duration {
	return time.Duration(d.WriteTimeoutMs) * time.Millisecond
}

type LogConfig struct {
	Level string `json:"level" validate:"oneof=trace debug info warn warning error"`
	File  string `json:"file"`
}

type Config struct {
	mu sync.RWMutex

	ActiveSource SourceType `json:"active_source" validate:"oneof=Local Web-Camera"`
	RefreshRate  uint       `json:"refresh_rate" validate:"gt=0,lte=240"`

	Local    LocalConfig    `json:"local"`
	Webcam   WebcamConfig   `json:"webcam"`
	Detector DetectorConfig `json:"detector"`
	Log      LogConfig      `json:"log"`
}

var validate = validator.New()

// Validate checks field ranges; a local source additionally needs a path.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	if c.ActiveSource == SourceLocal && c.Local.Path == "" {
		return errors.New("invalid config: local source requires a path")
	}

	return nil
}

func (c *Config) GetSource() SourceType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ActiveSource
}

func (c *Config) SetSource(s SourceType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ActiveSource = s
}

func (c *Config) GetRefreshRate() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RefreshRate
}

func (c *Config) GetIdealSize() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Webcam.IdealWidth, c.Webcam.IdealHeight
}

func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}

	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	if err := enc.Encode(c); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}

	return nil
}

func (c *Config) SaveByDefault() error {
	return c.Save(DefaultConfigPath)
}

// LoadConfigFile returns defaults when path does not exist. On a decode or
// validation error the defaults are returned together with the error.
func LoadConfigFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "open %s", path)
	}

	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return NewDefaultConfig(), errors.Wrapf(err, "decode %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return NewDefaultConfig(), err
	}

	return cfg, nil
}

func NewDefaultConfig() *Config {
	return &Config{
		ActiveSource: SourceWebcam,
		RefreshRate:  DefaultRefreshRate,
		Local:        LocalConfig{Path: "", FPS: 30},
		Webcam: WebcamConfig{
			DeviceID:    defaultDevice(),
			IdealWidth:  DefaultIdealWidth,
			IdealHeight: DefaultIdealHeight,
		},
		Detector: DetectorConfig{
			Host:               DefaultDetectorHost,
			RetryDelayMs:       2000,
			HandshakeTimeoutMs: 10000,
			WriteTimeoutMs:     5000,
		},
		Log: LogConfig{Level: "info"},
	}
}

func defaultDevice() string {
	if runtime.GOOS == "windows" {
		return "Integrated Camera"
	}
	return "/dev/video0"
}
