// Package term decides whether console output gets ANSI styling.
//
// Log lines are colored by hclog from the mode resolved here; the few raw
// strings written outside the logger (the banner) go through [Paint].
package term

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/backmassage/faststart/internal/config"
)

// Style is an ANSI SGR escape sequence.
type Style string

const (
	Bold Style = "\033[1m"
	Dim  Style = "\033[2m"

	reset = "\033[0m"
)

var enabled atomic.Bool

// Configure resolves mode against stdout and records the result for
// [Paint]. It returns whether styling is on.
func Configure(mode config.ColorMode) bool {
	on := Resolve(mode, os.Stdout)
	enabled.Store(on)
	return on
}

// Enabled reports the last value set by [Configure].
func Enabled() bool { return enabled.Load() }

// Paint wraps text in s when styling is on and returns it unchanged otherwise.
func Paint(s Style, text string) string {
	if !enabled.Load() || text == "" {
		return text
	}
	return string(s) + text + reset
}

// Resolve applies mode to out. In auto mode styling needs a terminal, an
// unset NO_COLOR (https://no-color.org) and a TERM other than "dumb".
func Resolve(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(out)
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
