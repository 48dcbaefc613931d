// Package log builds the zerolog loggers used by the sigil command.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how to log.
type Config struct {
	Level      string // trace, debug, info, warn, or error
	Format     string // console or json
	File       string // if set, logs are also written to this file and rotated
	MaxSize    int    // megabytes per log file before rotation
	MaxBackups int    // rotated files to keep
}

// Logger is a zerolog.Logger which owns its output file, if any.
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

// New returns a Logger which writes to w and, if configured, a rotated log file.
func New(w io.Writer, c Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out, err := formatWriter(w, c.Format)
	if err != nil {
		return nil, err
	}

	logger := &Logger{}

	if c.File != "" {
		lj := &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
		}

		// The file always gets JSON.
		out = zerolog.MultiLevelWriter(out, lj)
		logger.closer = lj
	}

	logger.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()

	return logger, nil
}

// Nop returns a Logger which discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}

	return nil
}

func formatWriter(w io.Writer, format string) (io.Writer, error) {
	switch format {
	case "", "console":
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: w != os.Stderr}, nil
	case "json":
		return w, nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
