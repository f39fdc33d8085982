package optimize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/faststart/internal/ffmpeg"
	"github.com/backmassage/faststart/internal/logging"
	"github.com/backmassage/faststart/internal/replace"
)

// fakeTranscoder writes output to the staging path, or fails with stderr.
type fakeTranscoder struct {
	output  string
	fail    bool
	partial bool // write output even when failing
	stderr  string
	calls   []ffmpeg.Request
}

func (f *fakeTranscoder) Transcode(_ context.Context, req ffmpeg.Request) ffmpeg.ExecResult {
	f.calls = append(f.calls, req)
	if !f.fail || f.partial {
		if err := os.WriteFile(req.Staging, []byte(f.output), 0o644); err != nil {
			return ffmpeg.ExecResult{Err: err}
		}
	}
	if f.fail {
		return ffmpeg.ExecResult{Stderr: f.stderr, Err: errors.New("exit status 1")}
	}
	return ffmpeg.ExecResult{}
}

func setup(t *testing.T, content string) (dir, src string) {
	t.Helper()
	dir = t.TempDir()
	src = filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte(content), 0o644))
	return dir, src
}

func assertNoStaging(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "clip.new.mp4", e.Name(), "staging artifact left behind")
	}
}

func TestOptimize_Success(t *testing.T) {
	dir, src := setup(t, "moov-at-end")
	tr := &fakeTranscoder{output: "moov-first!"}
	o := New(tr, replace.New(), logging.NewNop(), Options{})

	res, err := o.Optimize(context.Background(), src)
	require.NoError(t, err)

	b, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "moov-first!", string(b))
	assertNoStaging(t, dir)

	require.Len(t, tr.calls, 1)
	assert.Equal(t, src, tr.calls[0].Source)
	assert.Equal(t, filepath.Join(dir, "clip.new.mp4"), tr.calls[0].Staging)

	assert.Equal(t, src, res.Path)
	assert.EqualValues(t, len("moov-at-end"), res.SizeBefore)
	assert.EqualValues(t, len("moov-first!"), res.SizeAfter)
}

func TestOptimize_NotFound(t *testing.T) {
	tr := &fakeTranscoder{}
	o := New(tr, replace.New(), logging.NewNop(), Options{})

	_, err := o.Optimize(context.Background(), filepath.Join(t.TempDir(), "gone.mp4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, tr.calls, "ffmpeg must not run for a missing source")
}

func TestOptimize_TranscodeFailedLeavesOriginal(t *testing.T) {
	dir, src := setup(t, "original bytes")
	tr := &fakeTranscoder{fail: true, partial: true, output: "half", stderr: "moov atom not found\n"}
	o := New(tr, replace.New(), logging.NewNop(), Options{})

	_, err := o.Optimize(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTranscodeFailed)
	assert.False(t, IsSevere(err))

	var oe *Error
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, KindTranscodeFailed, oe.Kind)
	assert.Equal(t, "moov atom not found\n", oe.Diagnostic)

	b, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "original bytes", string(b), "original must be byte-for-byte unchanged")
	assertNoStaging(t, dir)
}

func TestOptimize_RemovalFailed(t *testing.T) {
	_, src := setup(t, "original")
	cause := errors.New("device busy")
	r := &replace.FS{
		Remove: func(string) error { return cause },
		Rename: os.Rename,
	}
	o := New(&fakeTranscoder{output: "new"}, r, logging.NewNop(), Options{})

	_, err := o.Optimize(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOriginalRemovalFailed)
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsSevere(err))

	b, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "original", string(b))
}

func TestOptimize_RenameFailedIsSevere(t *testing.T) {
	dir, src := setup(t, "original")
	r := &replace.FS{
		Remove: os.Remove,
		Rename: func(string, string) error { return os.ErrPermission },
	}
	o := New(&fakeTranscoder{output: "new"}, r, logging.NewNop(), Options{})

	_, err := o.Optimize(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRenameFailed)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.True(t, IsSevere(err))
	assert.Contains(t, err.Error(), "clip.new.mp4", "message must point at the surviving staging file")

	// Original gone, data preserved under the staging name.
	_, statErr := os.Stat(src)
	assert.True(t, os.IsNotExist(statErr))
	b, readErr := os.ReadFile(filepath.Join(dir, "clip.new.mp4"))
	require.NoError(t, readErr)
	assert.Equal(t, "new", string(b))
}

func TestOptimize_CustomSuffix(t *testing.T) {
	_, src := setup(t, "x")
	tr := &fakeTranscoder{output: "y"}
	o := New(tr, replace.New(), logging.NewNop(), Options{StagingSuffix: "faststart"})

	_, err := o.Optimize(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "clip.faststart.mp4", filepath.Base(tr.calls[0].Staging))
}

func TestOptimize_SpaceProbeDoesNotBlock(t *testing.T) {
	_, src := setup(t, "0123456789")
	probed := ""
	probe := func(dir string) (uint64, error) { probed = dir; return 1, nil }
	o := New(&fakeTranscoder{output: "ok"}, replace.New(), logging.NewNop(), Options{SpaceProbe: probe})

	_, err := o.Optimize(context.Background(), src)
	require.NoError(t, err, "low space is a warning, not a failure")
	assert.Equal(t, filepath.Dir(src), probed)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "transcode_failed", KindTranscodeFailed.String())
	assert.Equal(t, "original_removal_failed", KindOriginalRemovalFailed.String())
	assert.Equal(t, "rename_failed", KindRenameFailed.String())
}
