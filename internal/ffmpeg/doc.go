// Package ffmpeg builds and executes the stream-copy remux that moves the
// MP4 index to the front of the file.
//
// [Transcoder] is the seam the optimizer depends on; [Executor] is the real
// implementation backed by an ffmpeg process. Success is defined solely by
// the process exit status. On failure the captured stderr is returned
// verbatim and [Classify] turns well-known messages into a short hint.
package ffmpeg
