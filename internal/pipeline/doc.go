// Package pipeline drives a run: it classifies the target, enumerates
// candidates in directory mode, optimizes each one in order, and turns the
// outcome into an exit status and a RunSummary.
//
// Per-file failures never stop a directory run. Structural failures (a
// missing target, a target of the wrong kind, an unreadable tree) end the
// run before any file is touched.
package pipeline
