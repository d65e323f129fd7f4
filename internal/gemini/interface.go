package gemini

import "context"

// Client talks to the Gemini API, rotating through API keys on quota errors.
type Client interface {
	// GenerateText sends a text prompt and returns the concatenated response text.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateFromFile uploads the file at path and prompts the model with it.
	GenerateFromFile(ctx context.Context, path, mimeType, prompt string) (string, error)
	Model() string
}
