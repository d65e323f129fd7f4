package processor

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/video-context/internal/notifier"
)

// Run orchestrates a batch over the configured input
func (p *implProcessor) Run(ctx context.Context) (Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runID := uuid.NewString()
	p.notifier.Status(ctx, "Starting video transcription process")

	files, err := p.listVideos(ctx)
	if err != nil {
		p.notifier.Status(ctx, "Error during video transcription: %v", err)
		return Summary{RunID: runID, ContextDir: p.cfg.Paths.Context}, err
	}

	return p.process(ctx, runID, files)
}

// RunFile orchestrates a batch of exactly one video
func (p *implProcessor) RunFile(ctx context.Context, videoPath string) (Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runID := uuid.NewString()

	files, err := p.checkVideoFile(videoPath)
	if err != nil {
		p.notifier.Status(ctx, "Error during video transcription: %v", err)
		return Summary{RunID: runID, ContextDir: p.cfg.Paths.Context}, err
	}

	return p.process(ctx, runID, files)
}

func (p *implProcessor) process(ctx context.Context, runID string, files []string) (Summary, error) {
	state := newRunState(runID, len(files), p.cfg.Paths.Context)

	store, err := p.openLedger(ctx, p.cfg.Paths.Context, p.logger)
	if err != nil {
		p.notifier.Status(ctx, "Error during video transcription: %v", err)
		return state.summary(), err
	}
	p.logger.Info(ctx, "Ledger %s holds %d transcript(s)", store.Dir(), len(store.Records()))

	if len(files) == 0 {
		p.notifier.Status(ctx, "No video files found to process")
	} else {
		p.logger.Info(ctx, "Run %s: %d video(s), engine model %s", runID, len(files), p.engine.ModelName(p.cfg.Whisper.ModelSize))
	}

	for i, videoPath := range files {
		if err := ctx.Err(); err != nil {
			p.notifier.Status(ctx, "Transcription cancelled after %d/%d videos", state.handled(), state.total)
			return state.summary(), err
		}

		p.notifier.Status(ctx, "Processing video %d/%d: %s", i+1, len(files), filepath.Base(videoPath))

		started := p.now()
		result, err := p.processVideo(ctx, runID, store, videoPath)
		if err != nil {
			p.logger.Error(ctx, "Error processing video %s: %v", videoPath, err)
			p.notifier.Status(ctx, "Failed to process %s: %v", filepath.Base(videoPath), err)
			state.fail(videoPath, err)
		}
		state.record(result, p.now().Sub(started))

		p.notifier.Progress(state.total, state.handled(), state.remaining())
	}

	summary := state.summary()
	p.notifier.Status(ctx, "Transcription complete. Processed: %d, Skipped: %d, Failed: %d",
		summary.Processed, summary.Skipped, summary.Failed)

	_ = p.notifier.Notify(ctx, notifier.NewTranscriptionSummary(runID, notifier.TranscriptionSummary{
		ProcessedCount: summary.Processed,
		SkippedCount:   summary.Skipped,
		FailedCount:    summary.Failed,
		TotalFiles:     summary.Total,
		ContextDir:     summary.ContextDir,
	}))

	return summary, nil
}
