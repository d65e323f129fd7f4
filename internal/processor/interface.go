package processor

import "context"

// Processor runs the dedup-aware transcription pipeline over a context directory.
type Processor interface {
	// Run processes the configured specific video or every supported video in
	// the videos directory.
	Run(ctx context.Context) (Summary, error)
	// RunFile processes a single video file.
	RunFile(ctx context.Context, videoPath string) (Summary, error)
}

// Summary reports the outcome of one run. When the run returns a nil error,
// Processed + Skipped + Failed equals Total. A run aborted by cancellation or
// an unusable context directory reports Total as discovered and the counts
// handled so far.
type Summary struct {
	RunID      string
	Processed  int
	Skipped    int
	Failed     int
	Total      int
	ContextDir string
	Failures   []Failure
}

// Failure records why one file was not transcribed.
type Failure struct {
	Path string
	Err  error
}
