package engine

import "context"

// Engine turns an audio file into text.
type Engine interface {
	// Transcribe returns the transcript of audioPath. modelSize is passed
	// through to engines that understand it.
	Transcribe(ctx context.Context, audioPath, modelSize string) (string, error)
	// ModelName is the value recorded as whisper_model for a run at modelSize.
	ModelName(modelSize string) string
}
