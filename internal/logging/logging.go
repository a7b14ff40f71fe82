package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"livedetect/internal/config"
)

// New builds the application logger. Output always goes to stderr and, when
// cfg.File is set, to a rotating file as well.
func New(cfg config.LogConfig) *logrus.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

func NewWithOutput(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&formatter.Formatter{
		NoColors:        true,
		TimestampFormat: "02 Jan 06 - 15:04:05.000",
		HideKeys:        false,
		CallerFirst:     true,
		FieldsOrder:     []string{"component"},
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	writers := []io.Writer{out}

	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    20,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetReportCaller(true)

	return logger
}

// Component returns a logger entry tagged with the component name.
func Component(log logrus.FieldLogger, name string) logrus.FieldLogger {
	return log.WithField("component", name)
}
