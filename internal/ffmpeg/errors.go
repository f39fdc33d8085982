package ffmpeg

import (
	"errors"
	"io/fs"
	"os/exec"
	"regexp"
)

// Pre-compiled patterns for classifying ffmpeg stderr. Checked in order by
// [Classify]; the first match wins.
var hints = []struct {
	re   *regexp.Regexp
	hint string
}{
	{regexp.MustCompile(`moov atom not found`), "source is truncated or was never finalized (no moov atom)"},
	{regexp.MustCompile(`Invalid data found when processing input`), "source is not a readable media file"},
	{regexp.MustCompile(`(?i)No space left on device`), "disk full while writing the staging file"},
	{regexp.MustCompile(`(?i)Permission denied`), "permission denied reading the source or writing the staging file"},
	{regexp.MustCompile(`(?i)No such file or directory`), "source disappeared or directory is not writable"},
	{regexp.MustCompile(`(?i)Could not find tag for codec|codec not currently supported in container`), "a stream cannot be stored in this container without re-encoding"},
}

// Classify returns a short hint for a failed run's stderr, or "" when no
// known pattern matches.
func Classify(stderr string) string {
	for _, h := range hints {
		if h.re.MatchString(stderr) {
			return h.hint
		}
	}
	return ""
}

// IsNotInstalled reports whether err means the ffmpeg binary could not be
// started at all.
func IsNotInstalled(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
