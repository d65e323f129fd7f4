package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/video-context/internal/logger"
)

// New creates a Watcher that hands new files in inputDir to handler one at a time
func New(inputDir string, handler EventHandler, filter Filter, settleDelay time.Duration, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if settleDelay < 0 {
		settleDelay = 0
	}

	return &implWatcher{
		inputDir:    inputDir,
		handler:     handler,
		filter:      filter,
		settleDelay: settleDelay,
		logger:      log,
		watcher:     watcher,
	}, nil
}
