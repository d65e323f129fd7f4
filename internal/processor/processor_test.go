package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/video-context/internal/apperr"
	"github.com/nguyentantai21042004/video-context/internal/config"
	"github.com/nguyentantai21042004/video-context/internal/fingerprint"
	"github.com/nguyentantai21042004/video-context/internal/ledger"
	"github.com/nguyentantai21042004/video-context/internal/logger"
	"github.com/nguyentantai21042004/video-context/internal/notifier"
)

// fakeExtractor copies the video bytes into the audio file so the fake engine
// can tell videos apart.
type fakeExtractor struct {
	fail   map[string]bool
	videos []string
	audios []string
}

func (f *fakeExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	f.videos = append(f.videos, filepath.Base(videoPath))
	f.audios = append(f.audios, audioPath)
	if f.fail[filepath.Base(videoPath)] {
		return errors.New("no audio stream")
	}
	data, err := os.ReadFile(videoPath)
	if err != nil {
		return err
	}
	return os.WriteFile(audioPath, data, 0644)
}

type fakeEngine struct {
	calls  int
	err    error
	empty  bool
	models []string
}

func (f *fakeEngine) Transcribe(ctx context.Context, audioPath, modelSize string) (string, error) {
	f.calls++
	f.models = append(f.models, modelSize)
	if f.err != nil {
		return "", f.err
	}
	if f.empty {
		return "   ", nil
	}
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}
	return "transcript of " + string(data), nil
}

func (f *fakeEngine) ModelName(modelSize string) string { return modelSize }

type eventLog struct {
	videos    []notifier.VideoTranscription
	summaries []notifier.TranscriptionSummary
}

func (l *eventLog) Notify(ctx context.Context, event notifier.Event) error {
	switch event.Kind {
	case notifier.KindVideoTranscription:
		l.videos = append(l.videos, *event.Video)
	case notifier.KindTranscriptionSummary:
		l.summaries = append(l.summaries, *event.Summary)
	}
	return nil
}

type harness struct {
	cfg       *config.Config
	extractor *fakeExtractor
	engine    *fakeEngine
	events    *eventLog
	statuses  []string
	progress  [][2]int
	proc      *implProcessor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.Paths.Videos = filepath.Join(root, "videos")
	cfg.Paths.Context = filepath.Join(root, "context")
	cfg.Paths.Temp = filepath.Join(root, "tmp")
	cfg.Whisper.ModelSize = "small"
	if err := os.MkdirAll(cfg.Paths.Videos, 0755); err != nil {
		t.Fatal(err)
	}

	h := &harness{
		cfg:       cfg,
		extractor: &fakeExtractor{fail: map[string]bool{}},
		engine:    &fakeEngine{},
		events:    &eventLog{},
	}

	n := notifier.New("LocalVideoTranscription", logger.Nop())
	n.Subscribe(h.events)
	n.SetStatusCallback(func(name, status string) { h.statuses = append(h.statuses, status) })
	n.SetProgressCallback(func(name string, total, processed int, remaining time.Duration) {
		h.progress = append(h.progress, [2]int{total, processed})
	})

	h.proc = New(cfg, h.extractor, h.engine, n, logger.Nop()).(*implProcessor)
	return h
}

func (h *harness) addVideo(t *testing.T, name, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(h.cfg.Paths.Videos, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func (h *harness) contextFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(h.cfg.Paths.Context)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func assertAccounting(t *testing.T, s Summary) {
	t.Helper()
	if s.Processed+s.Skipped+s.Failed != s.Total {
		t.Errorf("processed %d + skipped %d + failed %d != total %d", s.Processed, s.Skipped, s.Failed, s.Total)
	}
	if len(s.Failures) != s.Failed {
		t.Errorf("%d failures recorded for failed count %d", len(s.Failures), s.Failed)
	}
}

func TestRunSkipsRecordedVideo(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "a.mp4", "never seen", time.Time{})
	b := h.addVideo(t, "b.mp4", "already done", time.Time{})

	store, err := ledger.Open(context.Background(), h.cfg.Paths.Context, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	id, err := fingerprint.Fingerprint(b)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ledger.NewRecord(id, "old transcript", "base", time.Now())); err != nil {
		t.Fatal(err)
	}

	summary, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertAccounting(t, summary)

	if len(h.events.videos) != 1 || h.events.videos[0].VideoFilename != "a.mp4" {
		t.Fatalf("video events = %+v, want one for a.mp4", h.events.videos)
	}
	if h.events.videos[0].Transcript != "transcript of never seen" {
		t.Errorf("transcript = %q", h.events.videos[0].Transcript)
	}
	if len(h.events.summaries) != 1 {
		t.Fatalf("summary events = %d, want 1", len(h.events.summaries))
	}
	got := h.events.summaries[0]
	if got.ProcessedCount != 1 || got.SkippedCount != 1 || got.TotalFiles != 2 || got.ContextDir != h.cfg.Paths.Context {
		t.Errorf("summary = %+v, want processed 1 skipped 1 total 2", got)
	}
	if h.engine.calls != 1 || h.engine.models[0] != "small" {
		t.Errorf("engine calls = %d models %v", h.engine.calls, h.engine.models)
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	h := newHarness(t)

	summary, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Total != 0 || summary.Processed != 0 || summary.Skipped != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if len(h.events.videos) != 0 {
		t.Errorf("video events = %+v, want none", h.events.videos)
	}
	if len(h.events.summaries) != 1 || h.events.summaries[0].TotalFiles != 0 {
		t.Errorf("summary events = %+v, want one zero summary", h.events.summaries)
	}
	if !containsStatus(h.statuses, "No video files found") {
		t.Errorf("statuses = %v", h.statuses)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "a.mp4", "one", time.Time{})
	h.addVideo(t, "b.mkv", "two", time.Time{})
	h.addVideo(t, "notes.txt", "ignored", time.Time{})

	first, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.Processed != 2 || first.Total != 2 {
		t.Fatalf("first run = %+v", first)
	}
	filesAfterFirst := h.contextFiles(t)

	h.engine.calls = 0
	second, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assertAccounting(t, second)
	if h.engine.calls != 0 {
		t.Errorf("second run transcribed %d videos, want 0", h.engine.calls)
	}
	if second.Skipped != 2 || second.Processed != 0 {
		t.Errorf("second run = %+v", second)
	}
	if got := h.contextFiles(t); strings.Join(got, ",") != strings.Join(filesAfterFirst, ",") {
		t.Errorf("context files changed: %v -> %v", filesAfterFirst, got)
	}
	if first.RunID == second.RunID || first.RunID == "" {
		t.Errorf("run ids %q / %q should be distinct", first.RunID, second.RunID)
	}
}

func TestRunDeduplicatesIdenticalContent(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "lecture.mp4", "same bytes", time.Time{})
	h.addVideo(t, "lecture-copy.mkv", "same bytes", time.Time{})

	summary, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assertAccounting(t, summary)
	if summary.Processed != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want one processed and one skipped", summary)
	}
	if n := len(h.contextFiles(t)); n != 1 {
		t.Errorf("context dir has %d records, want 1", n)
	}
	if h.engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1", h.engine.calls)
	}
}

func TestRunMatchesByMetadataWhenHashMissing(t *testing.T) {
	h := newHarness(t)
	mtime := time.Unix(1700000000, 0)
	path := h.addVideo(t, "a.mp4", "content", mtime)

	// A record written while hashing failed carries no hash.
	id, err := fingerprint.Fingerprint(path)
	if err != nil {
		t.Fatal(err)
	}
	id.ContentHash = ""
	id.Degraded = true
	store, err := ledger.Open(context.Background(), h.cfg.Paths.Context, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ledger.NewRecord(id, "text", "base", time.Now())); err != nil {
		t.Fatal(err)
	}

	summary, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 1 || h.engine.calls != 0 {
		t.Errorf("summary = %+v engine calls %d, want metadata skip", summary, h.engine.calls)
	}
}

func TestRunIsolatesExtractionFailure(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "a.mp4", "a", time.Unix(1700000300, 0))
	h.addVideo(t, "bad.mp4", "b", time.Unix(1700000200, 0))
	h.addVideo(t, "c.mp4", "c", time.Unix(1700000100, 0))
	h.extractor.fail["bad.mp4"] = true

	summary, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertAccounting(t, summary)
	if summary.Processed != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 2 processed 1 failed", summary)
	}
	if filepath.Base(summary.Failures[0].Path) != "bad.mp4" || !apperr.IsExtraction(summary.Failures[0].Err) {
		t.Errorf("failure = %+v, want ExtractionError for bad.mp4", summary.Failures[0])
	}
	if n := len(h.contextFiles(t)); n != 2 {
		t.Errorf("context dir has %d records, want 2", n)
	}
	if !containsStatus(h.statuses, "Failed to process bad.mp4") {
		t.Errorf("statuses = %v, want failure status", h.statuses)
	}
	if strings.Join(h.extractor.videos, ",") != "a.mp4,bad.mp4,c.mp4" {
		t.Errorf("processing order = %v, want newest first", h.extractor.videos)
	}
}

func TestRunTranscriptionFailures(t *testing.T) {
	tests := []struct {
		name   string
		engine *fakeEngine
	}{
		{"engine error", &fakeEngine{err: errors.New("model not found")}},
		{"empty transcript", &fakeEngine{empty: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.proc.engine = tt.engine
			h.addVideo(t, "a.mp4", "a", time.Time{})

			summary, err := h.proc.Run(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			assertAccounting(t, summary)
			if summary.Failed != 1 || !apperr.IsTranscription(summary.Failures[0].Err) {
				t.Errorf("summary = %+v, want one TranscriptionError", summary)
			}
			if len(h.contextFiles(t)) != 0 {
				t.Error("failed transcription should not write a record")
			}
		})
	}
}

type failingStore struct {
	ledger.Store
}

func (failingStore) Save(rec ledger.Record) (string, error) {
	return "", errors.New("disk full")
}

func TestRunPersistenceFailure(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "a.mp4", "a", time.Time{})
	h.proc.openLedger = func(ctx context.Context, dir string, log logger.Logger) (ledger.Store, error) {
		s, err := ledger.Open(ctx, dir, log)
		return failingStore{Store: s}, err
	}

	summary, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assertAccounting(t, summary)
	if summary.Failed != 1 || summary.Processed != 0 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want the file counted as failed only", summary)
	}
	if !apperr.IsPersistence(summary.Failures[0].Err) {
		t.Errorf("failure = %v, want PersistenceError", summary.Failures[0].Err)
	}
	if len(h.events.videos) != 0 {
		t.Error("no video event should be emitted when persisting fails")
	}
}

func TestRunRemovesTempAudio(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "ok.mp4", "ok", time.Unix(1700000200, 0))
	h.addVideo(t, "bad.mp4", "bad", time.Unix(1700000100, 0))
	h.extractor.fail["bad.mp4"] = true

	if _, err := h.proc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(h.extractor.audios) != 2 {
		t.Fatalf("extractor called %d times", len(h.extractor.audios))
	}
	for _, audio := range h.extractor.audios {
		if _, err := os.Stat(filepath.Dir(audio)); !os.IsNotExist(err) {
			t.Errorf("temp dir %s still exists", filepath.Dir(audio))
		}
	}
}

func TestRunMissingVideosDir(t *testing.T) {
	h := newHarness(t)
	h.cfg.Paths.Videos = filepath.Join(t.TempDir(), "missing")

	_, err := h.proc.Run(context.Background())
	if !apperr.IsInput(err) {
		t.Fatalf("Run() error = %v, want InputError", err)
	}
	if !containsStatus(h.statuses, "Error during video transcription") {
		t.Errorf("statuses = %v, want error status", h.statuses)
	}
	if len(h.events.summaries) != 0 {
		t.Error("no summary should be emitted for a fatal run")
	}
}

func TestRunUnusableContextDir(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "a.mp4", "a", time.Time{})
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	h.cfg.Paths.Context = filepath.Join(file, "context")

	_, err := h.proc.Run(context.Background())
	if !apperr.IsConfiguration(err) {
		t.Fatalf("Run() error = %v, want ConfigurationError", err)
	}
	if h.engine.calls != 0 {
		t.Error("no video should be processed when the context dir is unusable")
	}
}

func TestRunSpecificVideo(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "a.mp4", "a", time.Time{})
	h.cfg.SpecificVideoPath = h.addVideo(t, "b.mkv", "b", time.Time{})

	summary, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 1 || summary.Processed != 1 || h.extractor.videos[0] != "b.mkv" {
		t.Errorf("summary = %+v videos %v, want only b.mkv", summary, h.extractor.videos)
	}
}

func TestRunSpecificVideoErrors(t *testing.T) {
	h := newHarness(t)
	unsupported := h.addVideo(t, "clip.avi", "x", time.Time{})

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(h.cfg.Paths.Videos, "missing.mp4")},
		{"unsupported extension", unsupported},
		{"directory", h.cfg.Paths.Videos},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.cfg.SpecificVideoPath = tt.path
			if _, err := h.proc.Run(context.Background()); !apperr.IsInput(err) {
				t.Errorf("Run() error = %v, want InputError", err)
			}
		})
	}
}

func TestRunFile(t *testing.T) {
	h := newHarness(t)
	path := h.addVideo(t, "a.mp4", "a", time.Time{})

	summary, err := h.proc.RunFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Total != 1 {
		t.Errorf("summary = %+v", summary)
	}

	summary, err = h.proc.RunFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 1 {
		t.Errorf("second RunFile = %+v, want skipped", summary)
	}
}

func TestRunReportsProgress(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "a.mp4", "a", time.Unix(1700000300, 0))
	h.addVideo(t, "b.mp4", "b", time.Unix(1700000200, 0))
	h.addVideo(t, "c.mp4", "c", time.Unix(1700000100, 0))
	h.extractor.fail["b.mp4"] = true

	if _, err := h.proc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := [][2]int{{3, 1}, {3, 2}, {3, 3}}
	if len(h.progress) != len(want) {
		t.Fatalf("progress calls = %v, want %v", h.progress, want)
	}
	for i := range want {
		if h.progress[i] != want[i] {
			t.Errorf("progress[%d] = %v, want %v", i, h.progress[i], want[i])
		}
	}
}

func TestRunCancelled(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "a.mp4", "a", time.Time{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := h.proc.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if h.engine.calls != 0 {
		t.Error("cancelled run should not transcribe")
	}
	if summary.Total != 1 || summary.Processed+summary.Skipped+summary.Failed != 0 {
		t.Errorf("cancelled summary = %+v, want total 1 with nothing handled", summary)
	}
}

func TestRunFollowsSymlinkedVideos(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, "plain.mp4", "plain", time.Now().Add(-time.Hour))

	target := filepath.Join(t.TempDir(), "real.mp4")
	if err := os.WriteFile(target, []byte("linked"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(h.cfg.Paths.Videos, "linked.mp4")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	// dangling links are skipped, not counted
	if err := os.Symlink(filepath.Join(t.TempDir(), "gone.mp4"), filepath.Join(h.cfg.Paths.Videos, "dangling.mp4")); err != nil {
		t.Fatal(err)
	}

	summary, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertAccounting(t, summary)
	if summary.Total != 2 || summary.Processed != 2 {
		t.Errorf("summary = %+v, want 2 processed", summary)
	}
	// the link target is newer, so it comes first
	want := []string{"linked.mp4", "plain.mp4"}
	if strings.Join(h.extractor.videos, ",") != strings.Join(want, ",") {
		t.Errorf("extracted = %v, want %v", h.extractor.videos, want)
	}
}

func TestRunListsDotfilesButNotResourceForks(t *testing.T) {
	h := newHarness(t)
	h.addVideo(t, ".hidden.mp4", "hidden", time.Time{})
	h.addVideo(t, "._hidden.mp4", "fork", time.Time{})

	summary, err := h.proc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Total != 1 || len(h.extractor.videos) != 1 || h.extractor.videos[0] != ".hidden.mp4" {
		t.Errorf("summary = %+v extracted = %v", summary, h.extractor.videos)
	}
}

func TestRemainingEstimate(t *testing.T) {
	s := newRunState("r", 4, "context")
	if s.remaining() != 0 {
		t.Errorf("remaining() before any file = %v", s.remaining())
	}
	s.record(outcomeProcessed, 4*time.Second)
	s.record(outcomeSkipped, 0)
	if got := s.remaining(); got != 4*time.Second {
		t.Errorf("remaining() = %v, want 4s (avg 2s x 2 left)", got)
	}
	s.record(outcomeFailed, time.Second)
	s.record(outcomeProcessed, time.Second)
	if got := s.remaining(); got != 0 {
		t.Errorf("remaining() when done = %v", got)
	}
}

func containsStatus(statuses []string, substr string) bool {
	for _, s := range statuses {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
