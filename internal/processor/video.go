package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/video-context/internal/apperr"
	"github.com/nguyentantai21042004/video-context/internal/fingerprint"
	"github.com/nguyentantai21042004/video-context/internal/ledger"
	"github.com/nguyentantai21042004/video-context/internal/notifier"
)

var errEmptyTranscript = errors.New("no transcript was generated")

// processVideo skips a video already in the ledger, otherwise extracts,
// transcribes and persists it.
func (p *implProcessor) processVideo(ctx context.Context, runID string, store ledger.Store, videoPath string) (outcome, error) {
	filename := filepath.Base(videoPath)

	id, err := fingerprint.Fingerprint(videoPath)
	if err != nil {
		return outcomeFailed, fmt.Errorf("fingerprint %s: %w", videoPath, err)
	}
	if id.Degraded {
		p.logger.Warn(ctx, "Could not hash %s, matching by name/size/mtime only: %v", filename, id.HashErr)
	}

	if _, match, ok := store.Lookup(id); ok {
		if match.Conflict {
			p.logger.Warn(ctx, "%s matches %s by name/size/mtime but its content hash differs", filename, match.Path)
		}
		p.logger.Info(ctx, "Context file already exists for %s (%s match: %s), skipping", filename, match.Kind, match.Path)
		return outcomeSkipped, nil
	}

	transcript, err := p.transcribeVideo(ctx, videoPath)
	if err != nil {
		return outcomeFailed, err
	}

	rec := ledger.NewRecord(id, transcript, p.engine.ModelName(p.cfg.Whisper.ModelSize), p.now())
	outputPath, err := store.Save(rec)
	if errors.Is(err, ledger.ErrAlreadyRecorded) {
		p.logger.Info(ctx, "%s was recorded meanwhile at %s, skipping", filename, outputPath)
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeFailed, &apperr.PersistenceError{Path: videoPath, Err: err}
	}
	p.logger.Info(ctx, "Transcript saved to %s", outputPath)

	_ = p.notifier.Notify(ctx, notifier.NewVideoTranscription(runID, notifier.VideoTranscription{
		VideoPath:     videoPath,
		VideoFilename: filename,
		VideoHash:     id.ContentHash,
		Transcript:    transcript,
		OutputPath:    outputPath,
		Timestamp:     p.now(),
	}))

	return outcomeProcessed, nil
}

// transcribeVideo extracts audio into a scratch directory that is removed on every path.
func (p *implProcessor) transcribeVideo(ctx context.Context, videoPath string) (string, error) {
	if p.cfg.Paths.Temp != "" {
		if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
			return "", &apperr.ExtractionError{Path: videoPath, Err: fmt.Errorf("create temp dir: %w", err)}
		}
	}

	tmpDir, err := os.MkdirTemp(p.cfg.Paths.Temp, "transcribe-*")
	if err != nil {
		return "", &apperr.ExtractionError{Path: videoPath, Err: fmt.Errorf("create temp dir: %w", err)}
	}
	defer p.cleanupTempDir(ctx, tmpDir)

	audioPath := filepath.Join(tmpDir, "audio.wav")
	if err := p.extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return "", &apperr.ExtractionError{Path: videoPath, Err: err}
	}

	transcript, err := p.engine.Transcribe(ctx, audioPath, p.cfg.Whisper.ModelSize)
	if err != nil {
		return "", &apperr.TranscriptionError{Path: videoPath, Err: err}
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", &apperr.TranscriptionError{Path: videoPath, Err: errEmptyTranscript}
	}

	return transcript, nil
}
