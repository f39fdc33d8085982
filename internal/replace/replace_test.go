package replace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestReplace_Success(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	staging := filepath.Join(dir, "clip.new.mp4")
	writeFile(t, src, "original")
	writeFile(t, staging, "optimized")

	out := New().Replace(src, staging)
	require.Equal(t, Replaced, out.Status)
	assert.NoError(t, out.Err)
	assert.False(t, out.Severe())

	assert.Equal(t, "optimized", readFile(t, src))
	_, err := os.Stat(staging)
	assert.True(t, os.IsNotExist(err), "staging file must be gone")
}

func TestReplace_RemovalFailed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	staging := filepath.Join(dir, "clip.new.mp4")
	writeFile(t, src, "original")
	writeFile(t, staging, "optimized")

	cause := errors.New("read-only file system")
	renamed := false
	fs := &FS{
		Remove: func(string) error { return cause },
		Rename: func(string, string) error { renamed = true; return nil },
	}

	out := fs.Replace(src, staging)
	assert.Equal(t, RemovalFailed, out.Status)
	assert.ErrorIs(t, out.Err, cause)
	assert.False(t, out.Severe())
	assert.False(t, renamed, "rename must not run after a failed removal")
	assert.Equal(t, "original", readFile(t, src))
	assert.Equal(t, "optimized", readFile(t, staging))
}

func TestReplace_RenameFailed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	staging := filepath.Join(dir, "clip.new.mp4")
	writeFile(t, src, "original")
	writeFile(t, staging, "optimized")

	cause := os.ErrPermission
	fs := &FS{
		Remove: os.Remove,
		Rename: func(string, string) error { return cause },
	}

	out := fs.Replace(src, staging)
	assert.Equal(t, RenameFailed, out.Status)
	assert.ErrorIs(t, out.Err, cause)
	assert.True(t, out.Severe())

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err), "original is gone in the dangerous window")
	assert.Equal(t, "optimized", readFile(t, staging), "data survives under the staging name")
}

func TestReplace_MissingSource(t *testing.T) {
	dir := t.TempDir()
	staging := filepath.Join(dir, "clip.new.mp4")
	writeFile(t, staging, "optimized")

	out := New().Replace(filepath.Join(dir, "clip.mp4"), staging)
	assert.Equal(t, RemovalFailed, out.Status)
	assert.True(t, os.IsNotExist(out.Err))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "replaced", Replaced.String())
	assert.Equal(t, "removal_failed", RemovalFailed.String())
	assert.Equal(t, "rename_failed", RenameFailed.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
