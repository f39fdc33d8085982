package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// TargetKind is what the user-supplied path turned out to be.
type TargetKind int

const (
	TargetMissing TargetKind = iota
	TargetFile
	TargetDirectory
	TargetOther // Device, socket, fifo.
)

func (k TargetKind) String() string {
	switch k {
	case TargetMissing:
		return "missing"
	case TargetFile:
		return "file"
	case TargetDirectory:
		return "directory"
	default:
		return "other"
	}
}

// Structural errors. Each maps to its own exit status.
var (
	ErrTargetNotFound    = errors.New("target path does not exist")
	ErrNotFileOrDir      = errors.New("target is neither a regular file nor a directory")
	ErrUnsupportedKind   = errors.New("unsupported file kind")
	ErrEnumerationFailed = errors.New("cannot enumerate directory")
)

// ClassifyTarget stats path, following symlinks. Any stat failure counts as
// missing; the error is returned for logging.
func ClassifyTarget(path string) (TargetKind, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return TargetMissing, err
	}
	switch {
	case fi.Mode().IsRegular():
		return TargetFile, nil
	case fi.IsDir():
		return TargetDirectory, nil
	default:
		return TargetOther, nil
	}
}

// MatchesExtension reports whether path ends in "."+ext. The comparison is
// exact unless ignoreCase is set, so "CLIP.MP4" does not match "mp4" by
// default.
func MatchesExtension(path, ext string, ignoreCase bool) bool {
	got := strings.TrimPrefix(filepath.Ext(path), ".")
	if got == "" {
		return false
	}
	if ignoreCase {
		return strings.EqualFold(got, ext)
	}
	return got == ext
}
