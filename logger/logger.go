package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger defines the interface for logging throughout the application
type Logger interface {
	Info(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Debug(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
}

// Options selects and tunes a backend. Zero value gives the text logger at debug.
type Options struct {
	Format     string `yaml:"format"` // text, json or zap
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // zap only: rotated JSON file sink
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// SlogAdapter adapts the standard library slog to our Logger interface
type SlogAdapter struct {
	logger *slog.Logger
}

// FromOptions builds the backend named by opts.Format
func FromOptions(opts Options) (Logger, error) {
	switch strings.ToLower(opts.Format) {
	case "zap":
		return NewZap(opts)
	case "json":
		return newJSON(os.Stdout, slogLevel(opts.Level, slog.LevelInfo)), nil
	default:
		return newText(os.Stdout, slogLevel(opts.Level, slog.LevelDebug)), nil
	}
}

func newText(w io.Writer, level slog.Level) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogAdapter{logger: slog.New(handler)}
}

func newJSON(w io.Writer, level slog.Level) Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogAdapter{logger: slog.New(handler)}
}

func slogLevel(name string, fallback slog.Level) slog.Level {
	var l slog.Level
	if name == "" {
		return fallback
	}
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return fallback
	}
	return l
}

func (l *SlogAdapter) Info(msg string, keyvals ...interface{}) {
	l.logger.Info(msg, keyvals...)
}

func (l *SlogAdapter) Error(msg string, keyvals ...interface{}) {
	l.logger.Error(msg, keyvals...)
}

func (l *SlogAdapter) Debug(msg string, keyvals ...interface{}) {
	l.logger.Debug(msg, keyvals...)
}

func (l *SlogAdapter) Warn(msg string, keyvals ...interface{}) {
	l.logger.Warn(msg, keyvals...)
}

// Nop discards everything
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
