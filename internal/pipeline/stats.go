package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Per-file statuses recorded in a FileOutcome.
const (
	StatusOptimized = "optimized"
	StatusFailed    = "failed"
	StatusCritical  = "critical" // Original removed, staging file not renamed.
)

// FileOutcome is the result for one candidate.
type FileOutcome struct {
	Path       string `json:"path"`
	Status     string `json:"status"`
	ErrorCode  string `json:"error_code,omitempty"`
	ErrorMsg   string `json:"error_msg,omitempty"`
	Staging    string `json:"staging,omitempty"` // Set when data was left in the staging file.
	SizeBefore int64  `json:"size_before,omitempty"`
	SizeAfter  int64  `json:"size_after,omitempty"`
	ElapsedMS  int64  `json:"elapsed_ms,omitempty"`
}

// Counts are derived from a RunSummary's items.
type Counts struct {
	Optimized int `json:"optimized"`
	Failed    int `json:"failed"`
	Critical  int `json:"critical"`
}

// RunSummary records one run. Items are appended in processing order and
// never rewritten.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	Target     string        `json:"target"`
	Mode       string        `json:"mode"` // TargetKind of Target.
	Total      int           `json:"total"`
	Leftovers  []string      `json:"leftovers,omitempty"`
	Items      []FileOutcome `json:"items"`
	Counts     Counts        `json:"summary"`
	Exit       int           `json:"exit_code"`
	Error      string        `json:"error,omitempty"` // Structural failure, if any.
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// NewRunSummary starts a summary for target with a fresh run ID.
func NewRunSummary(target string) *RunSummary {
	return &RunSummary{
		RunID:     uuid.NewString(),
		Target:    target,
		Items:     []FileOutcome{},
		StartedAt: time.Now().UTC(),
	}
}

// Add appends an outcome.
func (s *RunSummary) Add(o FileOutcome) {
	s.Items = append(s.Items, o)
}

// Finalize stamps the finish time, the exit code and recomputes Counts.
func (s *RunSummary) Finalize(exit ExitStatus) {
	s.FinishedAt = time.Now().UTC()
	s.Exit = int(exit)
	s.Counts = Counts{}
	for _, it := range s.Items {
		switch it.Status {
		case StatusOptimized:
			s.Counts.Optimized++
		case StatusCritical:
			s.Counts.Critical++
			s.Counts.Failed++
		default:
			s.Counts.Failed++
		}
	}
}

// BytesBefore is the summed source size of optimized files.
func (s *RunSummary) BytesBefore() int64 {
	var n int64
	for _, it := range s.Items {
		if it.Status == StatusOptimized {
			n += it.SizeBefore
		}
	}
	return n
}

// BytesAfter is the summed output size of optimized files.
func (s *RunSummary) BytesAfter() int64 {
	var n int64
	for _, it := range s.Items {
		if it.Status == StatusOptimized {
			n += it.SizeAfter
		}
	}
	return n
}

// SizeDelta returns BytesAfter minus BytesBefore. Remuxing usually changes
// the size by a few kilobytes either way.
func (s *RunSummary) SizeDelta() int64 {
	return s.BytesAfter() - s.BytesBefore()
}
