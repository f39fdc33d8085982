package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// Request is one transcode: read Source, write Staging. Staging is derived
// from Source by the caller and is the only file the process may touch.
type Request struct {
	Source  string
	Staging string
}

// ExecResult holds the outcome of a single ffmpeg invocation. Err is nil on
// success; otherwise Stderr carries the diagnostic text verbatim.
type ExecResult struct {
	Stderr string
	Err    error
}

// OK reports whether the external process signalled success.
func (r ExecResult) OK() bool { return r.Err == nil }

// Transcoder runs the external remux for one request. It blocks until the
// process exits.
type Transcoder interface {
	Transcode(ctx context.Context, req Request) ExecResult
}

// Executor is the ffmpeg-backed Transcoder.
type Executor struct {
	opts BuildOptions
	tee  io.Writer
}

// NewExecutor returns an Executor. When opts.Verbose is set, stderr is also
// tee'd to os.Stderr in real time.
func NewExecutor(opts BuildOptions) *Executor {
	e := &Executor{opts: opts}
	if opts.Verbose {
		e.tee = os.Stderr
	}
	return e
}

// Transcode builds and runs the ffmpeg command for req.
func (e *Executor) Transcode(ctx context.Context, req Request) ExecResult {
	args := Build(e.opts, req)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if e.tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, e.tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
