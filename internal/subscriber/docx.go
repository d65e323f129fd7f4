package subscriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/video-context/internal/logger"
	"github.com/nguyentantai21042004/video-context/internal/notifier"
	"github.com/nguyentantai21042004/video-context/internal/summarizer"
)

// DocxExporter writes a .docx of every new transcript, plus a summary when a
// Summarizer is configured.
type DocxExporter struct {
	dir        string
	summarizer summarizer.Summarizer
	logger     logger.Logger
}

// NewDocxExporter creates an exporter writing into dir. sum may be nil.
func NewDocxExporter(dir string, sum summarizer.Summarizer, log logger.Logger) *DocxExporter {
	return &DocxExporter{dir: dir, summarizer: sum, logger: log}
}

func (d *DocxExporter) Notify(ctx context.Context, event notifier.Event) error {
	if event.Kind != notifier.KindVideoTranscription || event.Video == nil {
		return nil
	}
	v := event.Video

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("create docx dir: %w", err)
	}

	base := exportBase(v)
	transcriptPath := filepath.Join(d.dir, base+".docx")
	if err := summarizer.TranscriptToDocx(v.VideoFilename, v.Transcript, transcriptPath); err != nil {
		return fmt.Errorf("write transcript docx: %w", err)
	}
	d.logger.Info(ctx, "Transcript docx written: %s", transcriptPath)

	if d.summarizer == nil {
		return nil
	}

	md, err := d.summarizer.Summarize(ctx, v.VideoFilename, v.Transcript)
	if err != nil {
		return err
	}

	mdPath := filepath.Join(d.dir, base+".summary.md")
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if err := summarizer.MarkdownToDocx(v.VideoFilename, md, filepath.Join(d.dir, base+".summary.docx")); err != nil {
		return fmt.Errorf("write summary docx: %w", err)
	}

	d.logger.Info(ctx, "[DONE] %s -> %s", v.VideoFilename, mdPath)
	return nil
}

// exportBase names exports after the record file so they sort next to it.
func exportBase(v *notifier.VideoTranscription) string {
	if v.OutputPath != "" {
		return strings.TrimSuffix(filepath.Base(v.OutputPath), filepath.Ext(v.OutputPath))
	}
	return strings.TrimSuffix(v.VideoFilename, filepath.Ext(v.VideoFilename))
}
