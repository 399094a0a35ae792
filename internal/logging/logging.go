// Package logging configures the file logger. The viewer owns the
// terminal, so nothing may log to stdout or stderr while it runs.
package logging

import (
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the log destination and verbosity.
type Config struct {
	File  string
	Level string
}

// New returns a logger writing to a size-rotated file. With no file
// configured the logger discards everything.
func New(cfg Config) zerolog.Logger {
	if cfg.File == "" {
		return zerolog.Nop()
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
