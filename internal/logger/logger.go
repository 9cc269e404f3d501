// Package logger builds the structured logger used by long-running
// commands, writing to stderr and a size-rotated file.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to stderr, plus a rotated file when path is
// not empty.
func New(path string, debug bool) (*log.Logger, error) {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	var writer io.Writer = os.Stderr
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		writer = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "hoursync",
	}), nil
}
