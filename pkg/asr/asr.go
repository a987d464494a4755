// Package asr defines the word-level speech recognition contract the
// transcription aligner consumes, with backends for a local whisper CLI
// and a whisper HTTP server.
//
// Recognition is deliberately sequential in this pipeline: the model load
// is the expensive step, so one Transcriber instance is created per run
// and reused across turns.
package asr

import "context"

// Word is one recognized word with timestamps in seconds, local to the
// transcribed file.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a continuous speech interval with its word breakdown.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words"`
}

// Result is a complete transcription of one audio file.
type Result struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
}

// Words flattens the per-segment word lists in order.
func (r *Result) Words() []Word {
	var words []Word
	for _, seg := range r.Segments {
		words = append(words, seg.Words...)
	}
	return words
}

// Options are per-call transcription parameters.
type Options struct {
	// Model is the recognizer model size ("tiny", "base", ...).
	Model string

	// Language forces a recognition language (ISO 639-1). Empty means
	// the backend's default.
	Language string
}

// Transcriber produces word-level transcriptions of audio files.
type Transcriber interface {
	// Transcribe recognizes the WAV file at audioPath.
	// An empty recognition is a valid Result with no segments, not an
	// error.
	Transcribe(ctx context.Context, audioPath string, opts *Options) (*Result, error)

	// Available reports whether the backend can transcribe right now.
	// Cheap; called once before a run, not per turn.
	Available(ctx context.Context) bool

	// Name identifies the backend in logs.
	Name() string
}
