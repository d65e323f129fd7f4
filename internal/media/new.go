package media

import (
	"github.com/nguyentantai21042004/video-context/internal/logger"
	"github.com/nguyentantai21042004/video-context/pkg/executor"
)

type implFFmpeg struct {
	binary     string
	sampleRate int
	executor   executor.Executor
	logger     logger.Logger
}

// NewFFmpeg creates an Extractor backed by the ffmpeg binary
func NewFFmpeg(binary string, sampleRate int, exec executor.Executor, log logger.Logger) Extractor {
	if binary == "" {
		binary = "ffmpeg"
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &implFFmpeg{
		binary:     binary,
		sampleRate: sampleRate,
		executor:   exec,
		logger:     log,
	}
}
