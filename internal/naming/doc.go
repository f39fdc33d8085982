// Package naming derives staging file names from source paths and
// recognizes staging leftovers.
//
// A staging file lives next to its source with the same stem and extension
// and a distinguishing suffix in between (clip.mp4 -> clip.new.mp4). The
// derivation is deterministic, so a staging file never collides with an
// unrelated file and can be mapped back to its source.
package naming
