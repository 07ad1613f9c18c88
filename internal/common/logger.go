// Package common holds the logger shared by the server and the CLI.
package common

import (
	"os"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"

	"github.com/sujalbistaa/pickboard/internal/config"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// discardWriter implements writers.IWriter and discards all output, so a
// silent logger never falls through to globally registered writers.
type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// NewLogger builds an arbor logger from the [logging] config section.
// Supported outputs are "console" (stderr) and "file".
func NewLogger(cfg config.LoggingConfig) arbor.ILogger {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch out {
		case "console":
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     os.Stderr,
				TimeFormat: timeFormat,
			})
		case "file":
			path := cfg.FilePath
			if path == "" {
				path = "logs/pickboard.log"
			}
			maxSize := int64(cfg.MaxSizeMB) * 1024 * 1024
			if maxSize <= 0 {
				maxSize = 10 * 1024 * 1024
			}
			maxBackups := cfg.MaxBackups
			if maxBackups <= 0 {
				maxBackups = 5
			}
			l = l.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   path,
				MaxSize:    maxSize,
				MaxBackups: maxBackups,
				TimeFormat: timeFormat,
			})
		}
	}
	return l.WithLevelFromString(level)
}

// NewSilentLogger returns a logger that discards everything. Used in tests.
func NewSilentLogger() arbor.ILogger {
	return arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})
}
