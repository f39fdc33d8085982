package ffmpeg

// BuildOptions are the process-wide knobs that shape every invocation.
type BuildOptions struct {
	Binary  string // ffmpeg executable; "ffmpeg" when empty.
	Verbose bool   // -loglevel info instead of error.
}

// Build constructs the complete ffmpeg argument slice (binary first) for
// one request:
//
//	ffmpeg -hide_banner -nostdin -loglevel error -i SRC
//	       -c copy -movflags +faststart -y STAGING
//
// -c copy re-multiplexes without re-encoding, +faststart relocates the moov
// atom to the front, and -y overwrites a stale staging file from a previous
// run.
func Build(opts BuildOptions, req Request) []string {
	bin := opts.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, bin, "-hide_banner", "-nostdin")
	if opts.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Input ---
	args = append(args, "-i", req.Source)

	// --- Stream copy with front-loaded index ---
	args = append(args, "-c", "copy", "-movflags", "+faststart")

	// --- Output ---
	args = append(args, "-y", req.Staging)

	return args
}
