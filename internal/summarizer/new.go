package summarizer

import (
	"github.com/nguyentantai21042004/video-context/internal/gemini"
	"github.com/nguyentantai21042004/video-context/internal/logger"
)

type implSummarizer struct {
	client gemini.Client
	logger logger.Logger
}

// New creates a Summarizer backed by the given Gemini client.
func New(client gemini.Client, log logger.Logger) Summarizer {
	return &implSummarizer{
		client: client,
		logger: log,
	}
}
