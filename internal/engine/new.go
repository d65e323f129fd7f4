package engine

import (
	"fmt"

	"github.com/nguyentantai21042004/video-context/internal/config"
	"github.com/nguyentantai21042004/video-context/internal/gemini"
	"github.com/nguyentantai21042004/video-context/internal/logger"
	"github.com/nguyentantai21042004/video-context/pkg/executor"
)

type implWhisperCLI struct {
	binary   string
	language string
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisperCLI creates an Engine that shells out to the openai-whisper CLI
func NewWhisperCLI(binary, language string, exec executor.Executor, log logger.Logger) Engine {
	if binary == "" {
		binary = "whisper"
	}
	return &implWhisperCLI{
		binary:   binary,
		language: language,
		executor: exec,
		logger:   log,
	}
}

type implGemini struct {
	client gemini.Client
	logger logger.Logger
}

// NewGemini creates an Engine that uploads audio to Gemini for transcription
func NewGemini(client gemini.Client, log logger.Logger) Engine {
	return &implGemini{
		client: client,
		logger: log,
	}
}

// New builds the engine selected by cfg.Whisper.Engine
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Engine, error) {
	switch cfg.Whisper.Engine {
	case "", "whisper":
		return NewWhisperCLI(cfg.Whisper.BinaryPath, cfg.Whisper.Language, exec, log), nil
	case "gemini":
		return NewGemini(gemini.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log), log), nil
	default:
		return nil, fmt.Errorf("unknown transcription engine %q", cfg.Whisper.Engine)
	}
}
