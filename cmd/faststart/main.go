// Command faststart rewrites MP4 files so the index (moov atom) sits at the
// front, letting players start before the whole file has downloaded.
//
// It takes one path. A file is remuxed in place; a directory is walked
// recursively and every matching file is remuxed in turn.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/faststart/internal/check"
	"github.com/backmassage/faststart/internal/config"
	"github.com/backmassage/faststart/internal/display"
	"github.com/backmassage/faststart/internal/ffmpeg"
	"github.com/backmassage/faststart/internal/logging"
	"github.com/backmassage/faststart/internal/optimize"
	"github.com/backmassage/faststart/internal/pipeline"
	"github.com/backmassage/faststart/internal/replace"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap: no logger yet, errors go straight to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, config.ErrVersion):
			fmt.Printf("faststart %s (%s)\n", version, commit)
			return 0
		case errors.Is(err, config.ErrNoTarget):
			fmt.Fprintf(os.Stderr, "Usage: faststart [OPTIONS] <file|directory>\n")
			return int(pipeline.ExitUsage)
		}
		fmt.Fprintf(os.Stderr, "faststart: %v\n", err)
		return int(pipeline.ExitUsage)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "faststart: %v\n", err)
		return int(pipeline.ExitUsage)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "faststart: %v\n", err)
		return int(pipeline.ExitUsage)
	}
	defer log.Close()

	display.PrintBanner(os.Stdout, version)
	if cfg.ConfigFile != "" {
		log.Debug("Loaded config %s", cfg.ConfigFile)
	}

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// A missing ffmpeg turns every file into a transcode failure with a
	// hint; the structural exit codes still apply.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Warn("%v", err)
	}

	// Cancel on SIGINT/SIGTERM. The in-flight ffmpeg is killed, its source
	// is left intact, and the run stops before the next file.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, aborting current file")
			cancel()
		case <-ctx.Done():
		}
	}()

	opt := optimize.New(
		ffmpeg.NewExecutor(ffmpeg.BuildOptions{Binary: cfg.FFmpegPath, Verbose: cfg.Verbose}),
		replace.New(),
		log,
		optimize.Options{StagingSuffix: cfg.StagingSuffix, SpaceProbe: check.FreeBytes},
	)

	status, summary := pipeline.Run(ctx, &cfg, log, opt)
	log.Debug("Run %s finished with exit code %d", summary.RunID, int(status))

	if cfg.ReportFile != "" {
		if err := pipeline.WriteReport(cfg.ReportFile, summary); err != nil {
			log.Error("Cannot write report: %v", err)
		} else {
			log.Info("Report written to %s", cfg.ReportFile)
		}
	}
	return int(status)
}
