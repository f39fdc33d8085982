// Package logging provides the leveled console logger used across faststart.
// Messages are printf-formatted and emitted through hclog; errors go to
// stderr, everything else to stdout, and an optional uncolored file sink
// receives a copy of every line.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/backmassage/faststart/internal/config"
	"github.com/backmassage/faststart/internal/term"
)

const (
	loggerName = "faststart"
	timeFormat = "2006-01-02 15:04:05"
)

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu   sync.Mutex
	hl   hclog.Logger
	file *os.File
}

// NewLogger resolves colors from cfg and optionally opens cfg.LogFile.
// Call Close() when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return newLogger(cfg, os.Stdout, os.Stderr)
}

// NewNop returns a Logger that discards everything. Intended for tests.
func NewNop() *Logger {
	return &Logger{hl: hclog.NewNullLogger()}
}

func newLogger(cfg *config.Config, stdout, stderr io.Writer) (*Logger, error) {
	color := hclog.ColorOff
	if term.Configure(cfg.ColorMode) {
		color = hclog.ForceColor
	}

	level := hclog.Info
	if cfg.Verbose {
		level = hclog.Debug
	}

	hl := hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:       loggerName,
		Level:      level,
		Output:     hclog.NewLeveledWriter(stdout, map[hclog.Level]io.Writer{hclog.Error: stderr}),
		TimeFormat: timeFormat,
		Color:      color,
	})

	l := &Logger{hl: hl}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		hl.RegisterSink(hclog.NewSinkAdapter(&hclog.LoggerOptions{
			Name:       loggerName,
			Level:      level,
			Output:     f,
			TimeFormat: timeFormat,
			Color:      hclog.ColorOff,
		}))
		l.file = f
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.hl.Info(fmt.Sprintf(format, args...))
}

// Success logs at INFO level tagged result=ok.
func (l *Logger) Success(format string, args ...interface{}) {
	l.hl.Info(fmt.Sprintf(format, args...), "result", "ok")
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.hl.Warn(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (stderr).
func (l *Logger) Error(format string, args ...interface{}) {
	l.hl.Error(fmt.Sprintf(format, args...))
}

// Critical logs at ERROR level with CRITICAL wording. Reserved for states
// where data sits somewhere the user does not expect it.
func (l *Logger) Critical(format string, args ...interface{}) {
	l.hl.Error("CRITICAL: "+fmt.Sprintf(format, args...), "severity", "critical")
}

// Debug logs at DEBUG level; dropped unless verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.hl.Debug(fmt.Sprintf(format, args...))
}
