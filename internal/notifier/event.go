package notifier

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the Event variants.
type Kind string

const (
	KindVideoTranscription   Kind = "video_transcription"
	KindTranscriptionSummary Kind = "transcription_summary"
)

// Event is a tagged union: exactly one payload matching Kind is set.
type Event struct {
	Kind    Kind
	RunID   string
	Video   *VideoTranscription
	Summary *TranscriptionSummary
}

type VideoTranscription struct {
	VideoPath     string    `json:"video_path"`
	VideoFilename string    `json:"video_filename"`
	VideoHash     string    `json:"video_hash,omitempty"`
	Transcript    string    `json:"transcript"`
	OutputPath    string    `json:"output_path"`
	Timestamp     time.Time `json:"timestamp"`
}

type TranscriptionSummary struct {
	ProcessedCount int    `json:"processed_count"`
	SkippedCount   int    `json:"skipped_count"`
	FailedCount    int    `json:"failed_count"`
	TotalFiles     int    `json:"total_files"`
	ContextDir     string `json:"context_dir"`
}

func NewVideoTranscription(runID string, v VideoTranscription) Event {
	return Event{Kind: KindVideoTranscription, RunID: runID, Video: &v}
}

func NewTranscriptionSummary(runID string, s TranscriptionSummary) Event {
	return Event{Kind: KindTranscriptionSummary, RunID: runID, Summary: &s}
}

// MarshalJSON flattens the payload next to a "type" discriminator.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindVideoTranscription:
		if e.Video == nil {
			return nil, fmt.Errorf("event %s: missing payload", e.Kind)
		}
		return json.Marshal(struct {
			Type  Kind   `json:"type"`
			RunID string `json:"run_id,omitempty"`
			*VideoTranscription
		}{e.Kind, e.RunID, e.Video})
	case KindTranscriptionSummary:
		if e.Summary == nil {
			return nil, fmt.Errorf("event %s: missing payload", e.Kind)
		}
		return json.Marshal(struct {
			Type  Kind   `json:"type"`
			RunID string `json:"run_id,omitempty"`
			*TranscriptionSummary
		}{e.Kind, e.RunID, e.Summary})
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
}
