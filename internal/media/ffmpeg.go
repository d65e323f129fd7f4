package media

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// ExtractAudio writes the video's audio track as mono PCM WAV
func (f *implFFmpeg) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	f.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn: drop video, -ac 1: mono, -c:a pcm_s16le: 16-bit PCM
	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", strconv.Itoa(f.sampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := f.executor.Execute(ctx, f.binary, args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	info, err := os.Stat(audioPath)
	if err != nil {
		return fmt.Errorf("ffmpeg produced no audio: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("ffmpeg produced an empty audio file")
	}

	f.logger.Debug(ctx, "Audio extracted: %s (%d bytes)", audioPath, info.Size())
	return nil
}
