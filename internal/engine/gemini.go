package engine

import (
	"context"
	"fmt"
	"strings"
)

const transcribePrompt = `Transcribe the speech in this audio verbatim.
Return only the transcript text, without timestamps, speaker labels or commentary.`

func (g *implGemini) Transcribe(ctx context.Context, audioPath, modelSize string) (string, error) {
	g.logger.Info(ctx, "Starting transcription with %s: %s", g.client.Model(), audioPath)

	text, err := g.client.GenerateFromFile(ctx, audioPath, "audio/wav", transcribePrompt)
	if err != nil {
		return "", fmt.Errorf("gemini transcribe: %w", err)
	}

	g.logger.Info(ctx, "Transcription completed: %s", audioPath)
	return strings.TrimSpace(text), nil
}

// ModelName ignores the whisper size; Gemini has no such knob.
func (g *implGemini) ModelName(modelSize string) string {
	return g.client.Model()
}
