package ledger

import (
	"time"

	"github.com/nguyentantai21042004/video-context/internal/fingerprint"
)

// Record is the persisted transcript document of one video.
type Record struct {
	VideoPath          string  `json:"video_path"`
	VideoFilename      string  `json:"video_filename"`
	VideoHash          string  `json:"video_hash"`
	VideoSize          int64   `json:"video_size"`
	VideoMtime         float64 `json:"video_mtime"`
	VideoRecordingTime string  `json:"video_recording_time,omitempty"`
	TranscriptionTime  string  `json:"transcription_time"`
	WhisperModel       string  `json:"whisper_model"`
	Transcription      string  `json:"transcription"`
}

// NewRecord builds the record for a transcript of id produced at now.
func NewRecord(id fingerprint.Identity, transcript, model string, now time.Time) Record {
	rec := Record{
		VideoPath:         id.Path,
		VideoFilename:     id.Filename,
		VideoHash:         id.ContentHash,
		VideoSize:         id.Size,
		VideoMtime:        id.MtimeSeconds(),
		TranscriptionTime: now.Format(time.RFC3339),
		WhisperModel:      model,
		Transcription:     transcript,
	}
	if !id.ModTime.IsZero() {
		rec.VideoRecordingTime = id.ModTime.Format(time.RFC3339)
	}
	return rec
}

// transcribedAt parses TranscriptionTime, falling back to the current time.
func (r Record) transcribedAt() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, r.TranscriptionTime); err == nil {
			return t
		}
	}
	return time.Now()
}
