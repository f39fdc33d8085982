// Package check provides system diagnostics (--check mode), the ffmpeg
// presence check run before a batch, and the free-space probe used by the
// optimizer.
package check

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/backmassage/faststart/internal/config"
	"github.com/backmassage/faststart/internal/display"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found (set --ffmpeg or FFMPEG_PATH)")
	ErrNoFaststartFlag = errors.New("ffmpeg mp4 muxer does not advertise the faststart movflag")
)

// Logger is the subset of logging.Logger that RunCheck writes to.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the --check flow: ffmpeg availability and version, mp4
// faststart support, and free space where the target lives. It returns
// false when ffmpeg cannot do the job.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkFfmpeg(cfg.FFmpegPath, log)
	if ok {
		ok = checkFaststart(cfg.FFmpegPath, log)
	}
	checkSpace(cfg.Target, log)
	return ok
}

// CheckDeps is the pre-run validation: ffmpeg must resolve to an executable.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return ErrFfmpegNotFound
	}
	return nil
}

// FreeBytes returns the free space on the filesystem holding dir.
func FreeBytes(dir string) (uint64, error) {
	u, err := disk.Usage(dir)
	if err != nil {
		return 0, err
	}
	return u.Free, nil
}

// checkFfmpeg verifies ffmpeg resolves and logs its version string.
func checkFfmpeg(bin string, log Logger) bool {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Error("ffmpeg not found: %s", bin)
		return false
	}
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found at %s but -version failed: %v", path, err)
		return false
	}
	log.Success("ffmpeg: %s (%s)", firstLine(string(out)), path)
	return true
}

// checkFaststart asks the mp4 muxer for its options and looks for faststart.
func checkFaststart(bin string, log Logger) bool {
	out, err := exec.Command(bin, "-hide_banner", "-h", "muxer=mp4").Output()
	if err != nil {
		log.Warn("Could not query the mp4 muxer: %v", err)
		return false
	}
	if !SupportsFaststart(string(out)) {
		log.Error("%v", ErrNoFaststartFlag)
		return false
	}
	log.Success("mp4 muxer supports -movflags +faststart")
	return true
}

// checkSpace reports free space for target (or the working directory).
func checkSpace(target string, log Logger) {
	dir := target
	if dir == "" {
		dir = "."
	}
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		dir = filepath.Dir(dir)
	}
	free, err := FreeBytes(dir)
	if err != nil {
		log.Warn("Cannot read free space for %s: %v", dir, err)
		return
	}
	log.Info("Free space at %s: %s (a staging copy needs as much as the largest file)", dir, display.FormatBytes(int64(free)))
}

// SupportsFaststart reports whether `ffmpeg -h muxer=mp4` output lists the
// faststart movflag.
func SupportsFaststart(muxerHelp string) bool {
	for _, line := range strings.Split(muxerHelp, "\n") {
		if strings.Contains(strings.TrimSpace(line), "faststart") {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}
