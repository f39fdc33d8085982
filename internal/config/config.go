// Package config holds runtime configuration: defaults, the optional YAML
// config file, environment overrides, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// EnvFFmpegPath overrides the ffmpeg binary when set.
const EnvFFmpegPath = "FFMPEG_PATH"

// ErrNoTarget is returned by ParseFlags when the positional path is missing.
var ErrNoTarget = errors.New("no target path provided (need a file or directory)")

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid with a YAML file and the environment, and then
// mutated by [ParseFlags] before being passed (by pointer) to packages that
// need it.
type Config struct {
	// Target is the file or directory to optimize (positional arg).
	Target string `yaml:"-"`

	// Transcoding.
	FFmpegPath    string `yaml:"ffmpeg"`         // Default: "ffmpeg". Overridden by FFMPEG_PATH.
	Extension     string `yaml:"extension"`      // Default: "mp4" (no leading dot).
	IgnoreCase    bool   `yaml:"ignore_case"`    // Match Extension case-insensitively.
	StagingSuffix string `yaml:"staging_suffix"` // Default: "new" -> clip.new.mp4.

	// Display and logging.
	Verbose    bool      `yaml:"verbose"`
	ColorMode  ColorMode `yaml:"color"`    // Default: "auto".
	LogFile    string    `yaml:"log_file"` // Optional log file path.
	ReportFile string    `yaml:"report"`   // Optional JSON run report path.
	CheckOnly  bool      `yaml:"-"`        // Run --check diagnostics and exit.

	// ConfigFile is the YAML file the settings were loaded from, if any.
	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns the stock settings: mp4 only, case-sensitive
// matching, ".new" staging files.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:    "ffmpeg",
		Extension:     "mp4",
		IgnoreCase:    false,
		StagingSuffix: "new",
		ColorMode:     ColorAuto,
	}
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.ConfigFile = path
	return nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if p := strings.TrimSpace(os.Getenv(EnvFFmpegPath)); p != "" {
		c.FFmpegPath = p
	}
}

// Validate checks enum fields and normalizes the extension and suffix.
// When not in CheckOnly mode, it also requires a target path.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	c.Extension = strings.TrimPrefix(strings.TrimSpace(c.Extension), ".")
	if c.Extension == "" {
		return errors.New("extension must not be empty")
	}
	if strings.ContainsAny(c.Extension, `/\.`) {
		return fmt.Errorf("invalid extension %q", c.Extension)
	}

	c.StagingSuffix = strings.Trim(strings.TrimSpace(c.StagingSuffix), ".")
	if c.StagingSuffix == "" {
		return errors.New("staging suffix must not be empty")
	}
	if strings.ContainsAny(c.StagingSuffix, `/\`) {
		return fmt.Errorf("invalid staging suffix %q", c.StagingSuffix)
	}

	if strings.TrimSpace(c.FFmpegPath) == "" {
		return errors.New("ffmpeg path must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.Target == "" {
		return ErrNoTarget
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a path argument.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}
