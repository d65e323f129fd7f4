package processor

import "time"

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeSkipped
	outcomeProcessed
)

// runState holds the counters and timing of a single run.
type runState struct {
	runID      string
	contextDir string
	total      int

	processed int
	skipped   int
	failed    int
	elapsed   time.Duration
	failures  []Failure
}

func newRunState(runID string, total int, contextDir string) *runState {
	return &runState{runID: runID, total: total, contextDir: contextDir}
}

func (s *runState) record(o outcome, took time.Duration) {
	switch o {
	case outcomeProcessed:
		s.processed++
	case outcomeSkipped:
		s.skipped++
	default:
		s.failed++
	}
	s.elapsed += took
}

func (s *runState) fail(path string, err error) {
	s.failures = append(s.failures, Failure{Path: path, Err: err})
}

func (s *runState) handled() int {
	return s.processed + s.skipped + s.failed
}

// remaining estimates the time left as mean per-file duration times files left.
func (s *runState) remaining() time.Duration {
	handled := s.handled()
	if handled == 0 || handled >= s.total {
		return 0
	}
	avg := s.elapsed / time.Duration(handled)
	return avg * time.Duration(s.total-handled)
}

func (s *runState) summary() Summary {
	return Summary{
		RunID:      s.runID,
		Processed:  s.processed,
		Skipped:    s.skipped,
		Failed:     s.failed,
		Total:      s.total,
		ContextDir: s.contextDir,
		Failures:   s.failures,
	}
}
