package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/apiprobe-dev/apiprobe/pkg/fs"
)

// RotationConfig holds configuration for log rotation
type RotationConfig struct {
	Filename   string // Log file path
	MaxSize    int    // Maximum size in megabytes
	MaxBackups int    // Maximum number of old log files to retain
	MaxAge     int    // Maximum number of days to retain old log files
	Compress   bool   // Compress old log files
}

// DefaultRotationConfig returns default log rotation settings
func DefaultRotationConfig(logFile string) *RotationConfig {
	return &RotationConfig{
		Filename:   logFile,
		MaxSize:    10, // 10 MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}
}

// NewRotatingWriter creates a rotating log writer with the given configuration
func NewRotatingWriter(cfg *RotationConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// Setup configures the global logger. Diagnostics go to stderr so report
// output on stdout stays clean; a non-empty logFile adds a rotating file
// sink alongside.
func Setup(verbose bool, logFile string) error {
	if verbose {
		logrus.SetLevel(logrus.TraceLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	if logFile == "" {
		logrus.SetOutput(os.Stderr)
		return nil
	}

	logFile, err := fs.ExpandConfigDir(logFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return err
	}

	logWriter := NewRotatingWriter(DefaultRotationConfig(logFile))
	logrus.SetOutput(io.MultiWriter(os.Stderr, logWriter))
	logrus.Debugf("logging to file: %s (with rotation)", logFile)
	return nil
}
