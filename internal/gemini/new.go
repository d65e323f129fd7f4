package gemini

import (
	"sync"

	"github.com/nguyentantai21042004/video-context/internal/logger"
)

const DefaultModel = "gemini-2.5-flash"

type implClient struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger
}

// New creates a Client that rotates through the supplied Gemini API keys.
func New(apiKeys []string, model string, log logger.Logger) Client {
	if model == "" {
		model = DefaultModel
	}
	return &implClient{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
	}
}
