// Package apperr holds the error taxonomy shared by the transcription pipeline.
//
// ConfigurationError and InputError abort a run. ExtractionError,
// TranscriptionError and PersistenceError are per-file: the run records the
// file as failed and moves on.
package apperr

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an unusable input or output directory.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// InputError reports a missing input directory or an unusable explicit file.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input: %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ExtractionError reports that audio could not be extracted from a video.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract audio from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TranscriptionError reports an engine failure or an empty transcript.
type TranscriptionError struct {
	Path string
	Err  error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.Path, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// PersistenceError reports that a transcript record could not be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist transcript for %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func IsConfiguration(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

func IsInput(err error) bool {
	var e *InputError
	return errors.As(err, &e)
}

func IsExtraction(err error) bool {
	var e *ExtractionError
	return errors.As(err, &e)
}

func IsTranscription(err error) bool {
	var e *TranscriptionError
	return errors.As(err, &e)
}

func IsPersistence(err error) bool {
	var e *PersistenceError
	return errors.As(err, &e)
}

// IsFatal reports whether err must abort the run instead of failing one file.
func IsFatal(err error) bool {
	return IsConfiguration(err) || IsInput(err)
}
