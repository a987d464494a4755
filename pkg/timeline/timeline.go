// Package timeline turns per-turn synthesized audio into one shared
// caption timeline: it transcribes each turn for word timestamps,
// accumulates a running offset so every word lands on a single clock,
// concatenates the audio, rescales the timestamps against the true
// concatenated duration, and filters words too short to render.
package timeline

import (
	"errors"
	"regexp"
	"strings"
)

// MinClipDuration is the default floor for a rendered word, in seconds.
// Words shorter than this flicker rather than read.
const MinClipDuration = 0.04

// NormalizeTolerance is the drift, in seconds, below which timestamps are
// left untouched. Rescaling agreement-level noise amplifies rounding.
const NormalizeTolerance = 0.1

// ErrNoUsableTurns is returned when no turn produced both audio and a
// transcription; the run has nothing to output.
var ErrNoUsableTurns = errors.New("timeline: no usable turns")

// WordSpan is one recognized word placed on the global reel timeline.
type WordSpan struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Role  string  `json:"role"`
}

// Duration returns the span's display time in seconds.
func (w WordSpan) Duration() float64 { return w.End - w.Start }

// Timeline is the aligner's output: the concatenated reel audio plus the
// full word sequence on one clock starting at zero.
type Timeline struct {
	// AudioPath is the concatenated WAV for the whole reel.
	AudioPath string `json:"audio_path"`

	// Duration is the true length in seconds of the concatenated audio.
	Duration float64 `json:"duration"`

	// Words is the offset-applied, normalized word sequence in turn
	// order.
	Words []WordSpan `json:"words"`
}

// Normalize rescales every span by trueDuration over the recognizer's
// reported final end time, eliminating the cumulative drift between the
// recognizer's clock and the real audio clock. Spans are modified in
// place. The applied scale factor is returned; 1.0 means the clocks
// already agreed within tolerance.
func Normalize(words []WordSpan, trueDuration, tolerance float64) float64 {
	if len(words) == 0 {
		return 1.0
	}
	reported := words[len(words)-1].End
	if reported <= 0 {
		return 1.0
	}
	diff := trueDuration - reported
	if diff < 0 {
		diff = -diff
	}
	if diff <= tolerance {
		return 1.0
	}
	scale := trueDuration / reported
	for i := range words {
		words[i].Start *= scale
		words[i].End *= scale
	}
	return scale
}

// renderable matches at least one alphanumeric character.
var renderable = regexp.MustCompile(`[a-zA-Z0-9]`)

// Filter drops spans too short to display or with no alphanumeric
// content (pure punctuation tokens the recognizer sometimes emits).
// Order-preserving; the input slice is not modified.
func Filter(words []WordSpan, minDuration float64) []WordSpan {
	kept := make([]WordSpan, 0, len(words))
	for _, w := range words {
		if w.Duration() < minDuration {
			continue
		}
		if !renderable.MatchString(w.Word) {
			continue
		}
		kept = append(kept, w)
	}
	return kept
}

// Roles collapses the word sequence to its run-length role order, e.g.
// [A A A B B A] -> [A B A]. Useful for checking turn ordering survived
// the pipeline.
func Roles(words []WordSpan) []string {
	var roles []string
	for _, w := range words {
		role := strings.TrimSpace(w.Role)
		if n := len(roles); n == 0 || roles[n-1] != role {
			roles = append(roles, role)
		}
	}
	return roles
}
