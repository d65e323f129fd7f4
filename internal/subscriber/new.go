package subscriber

import (
	"context"
	"io"

	"github.com/nguyentantai21042004/video-context/internal/config"
	"github.com/nguyentantai21042004/video-context/internal/gemini"
	"github.com/nguyentantai21042004/video-context/internal/logger"
	"github.com/nguyentantai21042004/video-context/internal/notifier"
	"github.com/nguyentantai21042004/video-context/internal/summarizer"
)

// FromConfig builds the subscribers enabled in cfg. The returned func closes
// every opened connection; it is safe to call when err != nil.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) ([]notifier.Subscriber, func(), error) {
	var subs []notifier.Subscriber
	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				log.Warn(ctx, "Failed to close subscriber: %v", err)
			}
		}
	}

	sc := cfg.Subscribers

	if sc.Docx.Enabled {
		dir := sc.Docx.Dir
		if dir == "" {
			dir = cfg.Paths.Context
		}
		var sum summarizer.Summarizer
		if sc.Docx.Summarize {
			sum = summarizer.New(gemini.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log), log)
		}
		subs = append(subs, NewDocxExporter(dir, sum, log))
		log.Info(ctx, "Subscriber enabled: docx -> %s (summaries: %v)", dir, sum != nil)
	}

	if sc.Redis.Enabled {
		r, err := ConnectRedis(ctx, sc.Redis.Addr, sc.Redis.Channel, sc.Redis.Queue)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		subs = append(subs, r)
		closers = append(closers, r)
		log.Info(ctx, "Subscriber enabled: redis %s channel %s", sc.Redis.Addr, sc.Redis.Channel)
	}

	if sc.Cassandra.Enabled {
		c, err := ConnectCassandra(sc.Cassandra.Hosts, sc.Cassandra.Keyspace)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		subs = append(subs, c)
		closers = append(closers, c)
		log.Info(ctx, "Subscriber enabled: cassandra keyspace %s", sc.Cassandra.Keyspace)
	}

	if sc.Telegram.Enabled {
		t, err := ConnectTelegram(sc.Telegram.Token, sc.Telegram.ChatID)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		subs = append(subs, t)
		log.Info(ctx, "Subscriber enabled: telegram chat %d", sc.Telegram.ChatID)
	}

	return subs, closeAll, nil
}
