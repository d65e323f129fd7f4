package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/video-context/internal/apperr"
	"github.com/nguyentantai21042004/video-context/internal/config"
	"github.com/nguyentantai21042004/video-context/internal/engine"
	"github.com/nguyentantai21042004/video-context/internal/logger"
	"github.com/nguyentantai21042004/video-context/internal/media"
	"github.com/nguyentantai21042004/video-context/internal/notifier"
	"github.com/nguyentantai21042004/video-context/internal/processor"
	"github.com/nguyentantai21042004/video-context/internal/subscriber"
	"github.com/nguyentantai21042004/video-context/internal/watcher"
	"github.com/nguyentantai21042004/video-context/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file (defaults are used if missing)")
	watch := flag.Bool("watch", false, "keep watching the videos directory after the initial batch")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-config file] [-watch] [video]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*configPath, *watch, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error during processing: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, watch bool, args []string) error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(args) > 0 {
		cfg.ApplyParams(map[string]string{config.ParamSpecificVideoPath: args[0]})
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Local Video Transcription")
	log.Info(ctx, "========================================")
	if cfg.SpecificVideoPath != "" {
		log.Info(ctx, "Processing specific video file: %s", cfg.SpecificVideoPath)
	} else {
		log.Info(ctx, "Processing videos from directory: %s", cfg.Paths.Videos)
	}
	log.Info(ctx, "Context: %s", cfg.Paths.Context)
	log.Info(ctx, "Engine: %s (model %s)", cfg.Whisper.Engine, cfg.Whisper.ModelSize)

	exec := executor.New()
	eng, err := engine.New(cfg, exec, log)
	if err != nil {
		return err
	}
	ext := media.NewFFmpeg(cfg.FFmpeg.BinaryPath, cfg.FFmpeg.SampleRate, exec, log)

	n := notifier.New(cfg.Name, log)
	subs, closeSubs, err := subscriber.FromConfig(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init subscribers: %w", err)
	}
	defer closeSubs()
	for _, s := range subs {
		n.Subscribe(s)
	}
	n.SetProgressCallback(func(name string, total, processed int, remaining time.Duration) {
		log.Info(ctx, "[%s] Progress %d/%d, about %s remaining", name, processed, total, remaining.Round(time.Second))
	})

	proc := processor.New(cfg, ext, eng, n, log)

	// Attach the watcher before the batch so videos dropped meanwhile are
	// queued; the ledger skips any the batch already handled.
	var w watcher.Watcher
	if watch && cfg.SpecificVideoPath == "" {
		w, err = watcher.New(cfg.Paths.Videos, func(ctx context.Context, path string) error {
			_, err := proc.RunFile(ctx, path)
			return err
		}, cfg.IsSupported, time.Duration(cfg.Watch.SettleDelayMS)*time.Millisecond, log)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Stop()
	}

	summary, err := proc.Run(ctx)
	switch {
	case err == nil:
	case apperr.IsFatal(err):
		return fmt.Errorf("cannot start transcription: %w", err)
	case errors.Is(err, context.Canceled):
		log.Warn(ctx, "Interrupted, reporting the videos handled so far")
		printReport(summary)
		return nil
	default:
		return err
	}
	printReport(summary)

	if w == nil {
		return nil
	}

	log.Info(ctx, "Watching %s for new videos. Press Ctrl+C to stop", cfg.Paths.Videos)
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher: %w", err)
	}

	log.Info(ctx, "Video transcription stopped")
	return nil
}

func printReport(summary processor.Summary) {
	fmt.Printf("\nBatch processing complete!\n")
	fmt.Printf("Processed: %d files\n", summary.Processed)
	fmt.Printf("Skipped (already exists): %d files\n", summary.Skipped)
	fmt.Printf("Failed: %d files\n", summary.Failed)
	for _, f := range summary.Failures {
		fmt.Printf("  - %s: %v\n", f.Path, f.Err)
	}
}
