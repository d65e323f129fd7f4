package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Transcribe runs `whisper <audio> --model <size> --output_format txt` in a
// scratch directory and reads back the text file it writes.
func (w *implWhisperCLI) Transcribe(ctx context.Context, audioPath, modelSize string) (string, error) {
	absAudio, err := filepath.Abs(audioPath)
	if err != nil {
		return "", fmt.Errorf("resolve audio path: %w", err)
	}

	outDir, err := os.MkdirTemp("", "whisper-out-*")
	if err != nil {
		return "", fmt.Errorf("create whisper output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		absAudio,
		"--model", modelSize,
		"--output_dir", outDir,
		"--output_format", "txt",
		"--verbose", "False",
	}
	if w.language != "" {
		args = append(args, "--language", w.language)
	}

	w.logger.Info(ctx, "Starting transcription with whisper model %s: %s", modelSize, audioPath)

	if _, err := w.executor.ExecuteInDir(ctx, outDir, w.binary, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	base := filepath.Base(absAudio)
	txtPath := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".txt")
	content, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}

	w.logger.Info(ctx, "Transcription completed: %s", audioPath)
	return strings.TrimSpace(string(content)), nil
}

func (w *implWhisperCLI) ModelName(modelSize string) string {
	return modelSize
}
