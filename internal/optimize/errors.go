package optimize

import (
	"errors"
	"fmt"
)

// Kind classifies a per-file failure.
type Kind int

const (
	KindNotFound              Kind = iota + 1 // Source vanished before processing.
	KindTranscodeFailed                       // ffmpeg reported failure; source untouched.
	KindOriginalRemovalFailed                 // Original could not be removed; source untouched.
	KindRenameFailed                          // Original removed, staging file not renamed into place.
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindTranscodeFailed:
		return "transcode_failed"
	case KindOriginalRemovalFailed:
		return "original_removal_failed"
	case KindRenameFailed:
		return "rename_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinel errors matching each Kind, for errors.Is.
var (
	ErrNotFound              = errors.New("source file not found")
	ErrTranscodeFailed       = errors.New("ffmpeg failed")
	ErrOriginalRemovalFailed = errors.New("cannot remove original")
	ErrRenameFailed          = errors.New("cannot rename staging file into place")
)

// Error is a per-file optimization failure. It never concerns more than
// the one source it names.
type Error struct {
	Kind       Kind
	Path       string // Source path.
	Staging    string // Staging path derived from Path.
	Diagnostic string // ffmpeg stderr, verbatim (KindTranscodeFailed only).
	Err        error  // Underlying cause.
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%v: %s", ErrNotFound, e.Path)
	case KindTranscodeFailed:
		return fmt.Sprintf("%v for %s: %v", ErrTranscodeFailed, e.Path, e.Err)
	case KindOriginalRemovalFailed:
		return fmt.Sprintf("%v %s: %v", ErrOriginalRemovalFailed, e.Path, e.Err)
	case KindRenameFailed:
		return fmt.Sprintf("original %s was removed but %s could not be renamed into place: %v (optimized data is only at %s)",
			e.Path, e.Staging, e.Err, e.Staging)
	default:
		return fmt.Sprintf("optimize %s: %v", e.Path, e.Err)
	}
}

// Unwrap exposes both the Kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Severe reports whether the failure left the source path without data.
func (e *Error) Severe() bool { return e.Kind == KindRenameFailed }

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindNotFound:
		return ErrNotFound
	case KindTranscodeFailed:
		return ErrTranscodeFailed
	case KindOriginalRemovalFailed:
		return ErrOriginalRemovalFailed
	case KindRenameFailed:
		return ErrRenameFailed
	}
	return nil
}

// IsSevere reports whether err (or anything it wraps) is a RenameFailed error.
func IsSevere(err error) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Severe()
}
