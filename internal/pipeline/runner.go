package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/faststart/internal/config"
	"github.com/backmassage/faststart/internal/display"
	"github.com/backmassage/faststart/internal/ffmpeg"
	"github.com/backmassage/faststart/internal/logging"
	"github.com/backmassage/faststart/internal/naming"
	"github.com/backmassage/faststart/internal/optimize"
)

// ExitStatus is the process exit code for a run.
type ExitStatus int

const (
	ExitOK                ExitStatus = 0
	ExitUsage             ExitStatus = 1
	ExitTargetNotFound    ExitStatus = 2
	ExitNotFileOrDir      ExitStatus = 3
	ExitFileFailed        ExitStatus = 4
	ExitUnsupportedKind   ExitStatus = 5
	ExitEnumerationFailed ExitStatus = 6
	ExitInterrupted       ExitStatus = 130
)

// stderrTailLines caps how much ffmpeg output is echoed on failure.
const stderrTailLines = 20

// FileOptimizer optimizes one file in place.
type FileOptimizer interface {
	Optimize(ctx context.Context, path string) (optimize.Result, error)
}

// Run is the top-level entry point. It classifies cfg.Target, processes the
// file or every candidate under the directory sequentially, logs a summary
// and returns the exit status together with the finalized RunSummary.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, opt FileOptimizer) (ExitStatus, *RunSummary) {
	summary := NewRunSummary(cfg.Target)
	log.Debug("Run ID %s", summary.RunID)

	kind, statErr := ClassifyTarget(cfg.Target)
	summary.Mode = kind.String()

	var status ExitStatus
	switch kind {
	case TargetMissing:
		log.Error("%v: %s", ErrTargetNotFound, cfg.Target)
		log.Debug("stat: %v", statErr)
		summary.Error = ErrTargetNotFound.Error()
		status = ExitTargetNotFound
	case TargetOther:
		log.Error("%v: %s", ErrNotFileOrDir, cfg.Target)
		summary.Error = ErrNotFileOrDir.Error()
		status = ExitNotFileOrDir
	case TargetFile:
		status = runFile(ctx, cfg, log, opt, summary)
	case TargetDirectory:
		status = runDirectory(ctx, cfg, log, opt, summary)
	}

	summary.Finalize(status)
	if kind == TargetFile || kind == TargetDirectory {
		logSummary(log, summary)
	}
	return status, summary
}

// runFile handles single-file mode: an extension mismatch is refused
// without touching the file; otherwise the file is optimized once. A
// symlinked target is resolved first so the link survives and the file it
// points to is the one replaced.
func runFile(ctx context.Context, cfg *config.Config, log *logging.Logger, opt FileOptimizer, summary *RunSummary) ExitStatus {
	if !MatchesExtension(cfg.Target, cfg.Extension, cfg.IgnoreCase) {
		log.Error("%v: %s (expected .%s)", ErrUnsupportedKind, cfg.Target, cfg.Extension)
		summary.Error = ErrUnsupportedKind.Error()
		return ExitUnsupportedKind
	}

	path, err := filepath.EvalSymlinks(cfg.Target)
	if err != nil {
		log.Error("%v: %s: %v", ErrTargetNotFound, cfg.Target, err)
		summary.Error = ErrTargetNotFound.Error()
		return ExitTargetNotFound
	}

	summary.Total = 1
	if path != filepath.Clean(cfg.Target) {
		log.Info("Optimizing %s (link to %s)", cfg.Target, path)
	} else {
		log.Info("Optimizing %s", cfg.Target)
	}

	if !processFile(ctx, log, opt, path, summary) {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			return ExitInterrupted
		}
		return ExitFileFailed
	}
	return ExitOK
}

// runDirectory enumerates candidates first, then processes each one in
// order. Per-file failures are logged and the walk continues.
func runDirectory(ctx context.Context, cfg *config.Config, log *logging.Logger, opt FileOptimizer, summary *RunSummary) ExitStatus {
	d, err := Discover(cfg.Target, DiscoverOptions{
		Extension:     cfg.Extension,
		IgnoreCase:    cfg.IgnoreCase,
		StagingSuffix: cfg.StagingSuffix,
	})
	if err != nil {
		log.Error("%v %s: %v", ErrEnumerationFailed, cfg.Target, err)
		summary.Error = fmt.Sprintf("%v: %v", ErrEnumerationFailed, err)
		return ExitEnumerationFailed
	}

	summary.Total = len(d.Candidates)
	summary.Leftovers = d.Leftovers
	for _, p := range d.Leftovers {
		logLeftover(log, p, cfg.StagingSuffix)
	}
	log.Info("Found %d .%s files in %s", summary.Total, cfg.Extension, cfg.Target)

	for i, path := range d.Candidates {
		if ctx.Err() != nil {
			log.Warn("Interrupted before %s; %d of %d files not processed",
				filepath.Base(path), summary.Total-i, summary.Total)
			return ExitInterrupted
		}
		log.Info("%s Optimizing %s", display.FormatCounter(i+1, summary.Total), path)
		processFile(ctx, log, opt, path, summary)
	}

	if ctx.Err() != nil {
		log.Warn("Interrupted")
		return ExitInterrupted
	}
	return ExitOK
}

// processFile optimizes one path and records its outcome. It reports
// whether the file was optimized.
func processFile(ctx context.Context, log *logging.Logger, opt FileOptimizer, path string, summary *RunSummary) bool {
	res, err := opt.Optimize(ctx, path)
	if err == nil {
		summary.Add(FileOutcome{
			Path:       path,
			Status:     StatusOptimized,
			SizeBefore: res.SizeBefore,
			SizeAfter:  res.SizeAfter,
			ElapsedMS:  res.Elapsed.Milliseconds(),
		})
		log.Success("Optimized %s in %s (%s)", filepath.Base(path), display.FormatElapsed(res.Elapsed),
			display.FormatBytesWithSign(res.SizeAfter-res.SizeBefore))
		return true
	}

	out := FileOutcome{Path: path, Status: StatusFailed, ErrorMsg: err.Error()}
	var oe *optimize.Error
	if errors.As(err, &oe) {
		out.ErrorCode = oe.Kind.String()
		if oe.Severe() {
			out.Status = StatusCritical
			out.Staging = oe.Staging
		}
	}
	summary.Add(out)
	logFailure(log, err, oe)
	return false
}

// logLeftover warns about a candidate named like a staging file. When its
// original is gone it may be the only copy of data from an interrupted
// replacement; when the original exists, optimizing the original writes
// its staging output over this file.
func logLeftover(log *logging.Logger, path, suffix string) {
	orig, ok := naming.OriginalPath(path, suffix)
	if !ok {
		return
	}
	if _, err := os.Stat(orig); err != nil {
		log.Warn("%s looks like a staging file whose original is gone; it is optimized in place, rename it to %s if needed",
			path, filepath.Base(orig))
		return
	}
	log.Warn("%s is named like the staging file of %s and will be overwritten when that file is optimized",
		path, filepath.Base(orig))
}

func logFailure(log *logging.Logger, err error, oe *optimize.Error) {
	if oe == nil {
		log.Error("%v", err)
		return
	}
	switch oe.Kind {
	case optimize.KindRenameFailed:
		log.Critical("%v", err)
		log.Critical("Move %s to %s by hand to restore the file", oe.Staging, oe.Path)
	case optimize.KindTranscodeFailed:
		log.Error("%v", err)
		if ffmpeg.IsNotInstalled(oe.Err) {
			log.Error("  ffmpeg could not be started (set --ffmpeg or %s)", config.EnvFFmpegPath)
		} else if hint := ffmpeg.Classify(oe.Diagnostic); hint != "" {
			log.Error("  Hint: %s", hint)
		}
		logStderr(log, oe.Diagnostic)
	default:
		log.Error("%v", err)
	}
}

func logStderr(log *logging.Logger, stderr string) {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(stderr, "\n")
	start := 0
	if len(lines) > stderrTailLines {
		start = len(lines) - stderrTailLines
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}

func logSummary(log *logging.Logger, s *RunSummary) {
	c := s.Counts
	log.Info("Done: %d files, %d optimized, %d failed", s.Total, c.Optimized, c.Failed)
	if c.Optimized > 0 {
		log.Info("Size: %s -> %s (%s)", display.FormatBytes(s.BytesBefore()),
			display.FormatBytes(s.BytesAfter()), display.FormatBytesWithSign(s.SizeDelta()))
	}
	if c.Critical == 0 {
		return
	}
	log.Critical("%d file(s) were removed but not replaced; their data is only in:", c.Critical)
	for _, it := range s.Items {
		if it.Status == StatusCritical {
			log.Critical("  %s", it.Staging)
		}
	}
}
