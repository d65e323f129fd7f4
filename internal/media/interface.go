package media

import "context"

// Extractor converts a video file into an audio file suitable for transcription.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}
