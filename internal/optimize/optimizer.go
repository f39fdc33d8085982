// Package optimize implements the single-file operation: remux one source
// into its staging file and swap the result into place.
package optimize

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/faststart/internal/display"
	"github.com/backmassage/faststart/internal/ffmpeg"
	"github.com/backmassage/faststart/internal/logging"
	"github.com/backmassage/faststart/internal/naming"
	"github.com/backmassage/faststart/internal/replace"
)

// Replacer swaps a staging file in for its source.
type Replacer interface {
	Replace(source, staging string) replace.Outcome
}

// SpaceProbe returns the free bytes on the filesystem holding dir.
type SpaceProbe func(dir string) (uint64, error)

// Options tune an Optimizer.
type Options struct {
	StagingSuffix string     // Default: "new".
	SpaceProbe    SpaceProbe // Optional; enables the low-space warning.
}

// Result describes a successfully optimized file.
type Result struct {
	Path       string
	SizeBefore int64
	SizeAfter  int64
	Elapsed    time.Duration
}

// Optimizer composes a Transcoder and a Replacer into one operation.
type Optimizer struct {
	transcoder ffmpeg.Transcoder
	replacer   Replacer
	log        *logging.Logger
	suffix     string
	spaceProbe SpaceProbe
}

// New returns an Optimizer.
func New(t ffmpeg.Transcoder, r Replacer, log *logging.Logger, opts Options) *Optimizer {
	suffix := opts.StagingSuffix
	if suffix == "" {
		suffix = "new"
	}
	return &Optimizer{
		transcoder: t,
		replacer:   r,
		log:        log,
		suffix:     suffix,
		spaceProbe: opts.SpaceProbe,
	}
}

// StagingPath returns the staging path this Optimizer uses for source.
func (o *Optimizer) StagingPath(source string) string {
	return naming.StagingPath(source, o.suffix)
}

// Optimize remuxes path with the index moved to the front and replaces the
// original. On any error other than KindRenameFailed the original is left
// as it was.
func (o *Optimizer) Optimize(ctx context.Context, path string) (Result, error) {
	staging := o.StagingPath(path)

	// --- Validate ---
	fi, err := os.Stat(path)
	if err != nil {
		// Covers stale traversal entries as well as unreadable parents.
		return Result{}, &Error{Kind: KindNotFound, Path: path, Staging: staging, Err: err}
	}
	o.checkSpace(path, fi.Size())

	// --- Transcode ---
	o.log.Debug("Remuxing %s -> %s", path, filepath.Base(staging))
	start := time.Now()
	res := o.transcoder.Transcode(ctx, ffmpeg.Request{Source: path, Staging: staging})
	if !res.OK() {
		// A partial staging file is never linked into place; drop it.
		if rmErr := os.Remove(staging); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			o.log.Warn("Cannot remove partial staging file %s: %v", staging, rmErr)
		}
		return Result{}, &Error{
			Kind:       KindTranscodeFailed,
			Path:       path,
			Staging:    staging,
			Diagnostic: res.Stderr,
			Err:        res.Err,
		}
	}
	o.log.Debug("Remuxed %s", path)

	var sizeAfter int64
	if sfi, err := os.Stat(staging); err == nil {
		sizeAfter = sfi.Size()
	}

	// --- Replace ---
	out := o.replacer.Replace(path, staging)
	switch out.Status {
	case replace.Replaced:
		o.log.Debug("Replaced original with %s", filepath.Base(staging))
	case replace.RemovalFailed:
		return Result{}, &Error{Kind: KindOriginalRemovalFailed, Path: path, Staging: staging, Err: out.Err}
	case replace.RenameFailed:
		return Result{}, &Error{Kind: KindRenameFailed, Path: path, Staging: staging, Err: out.Err}
	}

	return Result{
		Path:       path,
		SizeBefore: fi.Size(),
		SizeAfter:  sizeAfter,
		Elapsed:    time.Since(start),
	}, nil
}

// checkSpace warns when the staging copy may not fit next to the original.
func (o *Optimizer) checkSpace(path string, size int64) {
	if o.spaceProbe == nil || size <= 0 {
		return
	}
	free, err := o.spaceProbe(filepath.Dir(path))
	if err != nil {
		o.log.Debug("Free-space probe failed for %s: %v", filepath.Dir(path), err)
		return
	}
	if free < uint64(size) {
		o.log.Warn("Low disk space: %s free, %s needed for the staging copy of %s",
			display.FormatBytes(int64(free)), display.FormatBytes(size), filepath.Base(path))
	}
}
