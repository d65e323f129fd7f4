package processor

import (
	"context"
	"sync"
	"time"

	"github.com/nguyentantai21042004/video-context/internal/config"
	"github.com/nguyentantai21042004/video-context/internal/engine"
	"github.com/nguyentantai21042004/video-context/internal/ledger"
	"github.com/nguyentantai21042004/video-context/internal/logger"
	"github.com/nguyentantai21042004/video-context/internal/media"
	"github.com/nguyentantai21042004/video-context/internal/notifier"
)

type implProcessor struct {
	cfg       *config.Config
	extractor media.Extractor
	engine    engine.Engine
	notifier  *notifier.Notifier
	logger    logger.Logger

	// mu serializes runs within the process; runs from other processes are not coordinated.
	mu         sync.Mutex
	now        func() time.Time
	openLedger func(ctx context.Context, dir string, log logger.Logger) (ledger.Store, error)
}

// New creates a new Processor instance
func New(cfg *config.Config, ext media.Extractor, eng engine.Engine, n *notifier.Notifier, log logger.Logger) Processor {
	return &implProcessor{
		cfg:        cfg,
		extractor:  ext,
		engine:     eng,
		notifier:   n,
		logger:     log,
		now:        time.Now,
		openLedger: ledger.Open,
	}
}
