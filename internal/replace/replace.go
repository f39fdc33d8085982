// Package replace substitutes a freshly produced staging file for its
// original with a delete-then-rename protocol.
//
// The staging name differs from the final name (ffmpeg must not overwrite
// the input it is reading), so the swap takes two steps and has a window in
// which the original is gone and the replacement exists only under the
// staging name. [Outcome] reports exactly which step failed so callers can
// alarm on that window instead of treating it as an ordinary failure.
package replace

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Status identifies the result of a replacement.
type Status int

const (
	Replaced      Status = iota // Staging file now lives at the original path.
	RemovalFailed               // Original still present; staging file untouched.
	RenameFailed                // Original removed; data only at the staging path.
)

func (s Status) String() string {
	switch s {
	case Replaced:
		return "replaced"
	case RemovalFailed:
		return "removal_failed"
	case RenameFailed:
		return "rename_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of [FS.Replace]. Err is nil only for Replaced.
type Outcome struct {
	Status Status
	Err    error
}

// Severe reports whether the outcome left the original path empty.
func (o Outcome) Severe() bool { return o.Status == RenameFailed }

// FS performs replacements through swappable filesystem functions so tests
// can simulate failures at either step.
type FS struct {
	Remove func(name string) error
	Rename func(oldpath, newpath string) error
}

// New returns an FS bound to the os package.
func New() *FS {
	return &FS{Remove: os.Remove, Rename: os.Rename}
}

// Replace removes source, then renames staging to source.
func (f *FS) Replace(source, staging string) Outcome {
	if err := f.Remove(source); err != nil {
		return Outcome{Status: RemovalFailed, Err: err}
	}
	if err := f.Rename(staging, source); err != nil {
		return Outcome{Status: RenameFailed, Err: err}
	}

	// Directory fsync: best-effort (semantics differ across platforms/filesystems).
	_ = syncDirBestEffort(filepath.Dir(source))
	return Outcome{Status: Replaced}
}

func syncDirBestEffort(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
