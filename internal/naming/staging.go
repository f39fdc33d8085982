package naming

import (
	"path/filepath"
	"strings"
)

// StagingPath derives the staging output path for source: same directory,
// same stem, with "."+suffix inserted before the extension.
//
//	/media/clip.mp4  (suffix "new")  ->  /media/clip.new.mp4
//	/media/README    (suffix "new")  ->  /media/README.new
//
// The extension is kept so ffmpeg picks the same muxer for the output.
func StagingPath(source, suffix string) string {
	dir := filepath.Dir(source)
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+"."+suffix+ext)
}

// IsStaging reports whether path has the shape StagingPath produces, i.e.
// its stem ends in "."+suffix. Such files are leftovers of an interrupted
// or failed replacement and are never treated as candidates.
func IsStaging(path, suffix string) bool {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	marker := "." + suffix
	return strings.HasSuffix(stem, marker) && len(stem) > len(marker)
}

// OriginalPath inverts StagingPath. ok is false when path is not a staging path.
func OriginalPath(path, suffix string) (original string, ok bool) {
	if !IsStaging(path, suffix) {
		return "", false
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(strings.TrimSuffix(base, ext), "."+suffix)
	return filepath.Join(dir, stem+ext), true
}
