package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LogFileName is the default log file, created next to the executable
const LogFileName = "syncer.log"

const logTimestampFormat = "2006-01-02T15:04:05"

// NewLogger creates a new configured logger writing to out
func NewLogger(out io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: logTimestampFormat,
		DisableColors:   true,
	})

	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

// NewFileLogger creates a logger that appends to path and echoes to stderr.
// The returned closer releases the log file.
func NewFileLogger(path string, verbose bool) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewLogger(io.MultiWriter(file, os.Stderr), verbose), file, nil
}

// DefaultLogFile returns the log file path alongside the running executable
func DefaultLogFile() string {
	exe, err := os.Executable()
	if err != nil {
		return LogFileName
	}
	return filepath.Join(filepath.Dir(exe), LogFileName)
}
