package config

// This file implements CLI flag parsing and help text.
// Precedence: defaults < --config file < environment < flags. The flag set
// is parsed twice: once to find --config, then against the loaded config
// so unset flags keep file/env values.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// ErrVersion is returned by ParseFlags when --version was requested.
var ErrVersion = errors.New("version requested")

// displayFlags holds boolean flags that are applied after Parse.
type displayFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
}

// ParseFlags parses args (without the program name) into cfg.
// It returns flag.ErrHelp on -h/--help and ErrVersion on --version; the
// caller decides how to exit. A missing positional path yields ErrNoTarget.
func ParseFlags(cfg *Config, args []string, version string) error {
	if configPath := findConfigFlag(args); configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			return err
		}
	}
	cfg.ApplyEnv()

	fs := flag.NewFlagSet("faststart", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printUsage(os.Stderr, version) }

	var d displayFlags
	var ignored string
	defineFlags(fs, cfg, &d, &ignored)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if d.showVersion {
		return ErrVersion
	}
	if d.noColor {
		cfg.ColorMode = ColorNever
	} else if d.forceColor {
		cfg.ColorMode = ColorAlways
	}

	return parsePositionalArgs(fs, cfg)
}

// findConfigFlag runs a silent first pass to extract --config. Parse errors
// are ignored here; the second pass reports them with usage text.
func findConfigFlag(args []string) string {
	scratch := DefaultConfig()
	fs := flag.NewFlagSet("faststart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var d displayFlags
	var configPath string
	defineFlags(fs, &scratch, &d, &configPath)
	_ = fs.Parse(args)
	return configPath
}

// defineFlags registers every flag against cfg. configPath receives --config.
func defineFlags(fs *flag.FlagSet, cfg *Config, d *displayFlags, configPath *string) {
	fs.StringVar(configPath, "config", "", "YAML config file")
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&cfg.Extension, "ext", cfg.Extension, "Target file extension")
	fs.BoolVar(&cfg.IgnoreCase, "ignore-case", cfg.IgnoreCase, "Match the extension case-insensitively")
	fs.StringVar(&cfg.StagingSuffix, "suffix", cfg.StagingSuffix, "Staging file suffix")
	fs.StringVar(&cfg.ReportFile, "report", cfg.ReportFile, "Write a JSON run report to file")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
	fs.BoolVar(&d.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&d.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&d.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&d.showVersion, "V", false, "Same as --version")
}

// parsePositionalArgs sets Target from the single positional arg. In
// CheckOnly mode the path is optional (used for the free-space report).
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch {
	case len(args) == 0 && cfg.CheckOnly:
		return nil
	case len(args) == 0:
		return ErrNoTarget
	case len(args) > 1:
		return fmt.Errorf("need exactly one path, got %d", len(args))
	}
	cfg.Target = NormalizeDirArg(args[0])
	return nil
}

// printUsage writes the help text to w. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 26
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "faststart v" + version + " - move the MP4 index to the front for progressive playback"},
		{"", ""},
		{"  faststart [OPTIONS] <file|directory>", ""},
		{"", ""},
		{"Selection", ""},
		{"  --ext <ext>", "Target extension (default: mp4)"},
		{"  --ignore-case", "Match the extension case-insensitively"},
		{"", ""},
		{"Transcoding", ""},
		{"  --ffmpeg <path>", "ffmpeg binary (default: ffmpeg, env FFMPEG_PATH)"},
		{"  --suffix <s>", "Staging suffix (default: new -> clip.new.mp4)"},
		{"", ""},
		{"Output", ""},
		{"  --report <path>", "Write a JSON run report"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (ffmpeg stderr is shown live)"},
		{"", ""},
		{"Utility", ""},
		{"  --config <path>", "Load settings from a YAML file"},
		{"  -c, --check", "System diagnostics (ffmpeg, faststart support, free space)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Exit codes", ""},
		{"  0", "success (directory runs succeed even if single files failed)"},
		{"  1", "usage error"},
		{"  2", "target not found"},
		{"  3", "target is neither a file nor a directory"},
		{"  4", "single-file optimization failed"},
		{"  5", "unsupported file kind"},
		{"  6", "directory enumeration failed"},
		{"  130", "interrupted between files"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
