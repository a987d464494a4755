package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/reelgen/reelgen/pkg/asr"
	"github.com/reelgen/reelgen/pkg/audio/wav"
)

// Clip is one synthesized turn handed to the aligner. Index is the turn's
// position in the script; clips may arrive unordered from the scheduler.
type Clip struct {
	Index     int
	Role      string
	AudioPath string
}

// Aligner runs the sequential transcription pass. One Aligner (and so one
// recognizer backend instance) serves a whole run; transcription is
// CPU-bound, so turns are processed strictly in order rather than fanned
// out.
type Aligner struct {
	transcriber asr.Transcriber
	opts        asr.Options
	tolerance   float64
}

// NewAligner creates an aligner over the given recognizer backend.
// opts may be nil for backend defaults.
func NewAligner(t asr.Transcriber, opts *asr.Options) *Aligner {
	a := &Aligner{transcriber: t, tolerance: NormalizeTolerance}
	if opts != nil {
		a.opts = *opts
	}
	return a
}

// Align transcribes each clip in turn order, places every word on the
// shared timeline via a running offset of true per-turn audio durations,
// concatenates the audio to outPath, and normalizes the aggregate drift.
//
// A clip whose transcription or audio read fails is skipped: its words
// and its audio are both absent from the result. Only zero usable clips
// is fatal.
func (a *Aligner) Align(ctx context.Context, clips []Clip, outPath string) (*Timeline, error) {
	ordered := make([]Clip, len(clips))
	copy(ordered, clips)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	var (
		words  []WordSpan
		paths  []string
		offset float64
	)
	for _, clip := range ordered {
		result, err := a.transcriber.Transcribe(ctx, clip.AudioPath, &a.opts)
		if err != nil {
			slog.Error("timeline: transcription failed, skipping turn",
				"turn", clip.Index, "role", clip.Role, "err", err)
			continue
		}

		// The offset advances by the turn's true audio duration, not the
		// recognizer's reported end: the recognizer's clock drifts, and
		// the concatenated audio is the ground truth.
		duration, err := wav.FileDuration(clip.AudioPath)
		if err != nil {
			slog.Error("timeline: unreadable turn audio, skipping turn",
				"turn", clip.Index, "role", clip.Role, "err", err)
			continue
		}

		for _, w := range result.Words() {
			words = append(words, WordSpan{
				Word:  w.Text,
				Start: w.Start + offset,
				End:   w.End + offset,
				Role:  clip.Role,
			})
		}
		paths = append(paths, clip.AudioPath)
		offset += duration
	}

	if len(paths) == 0 {
		return nil, ErrNoUsableTurns
	}

	trueDuration, err := wav.Concat(paths, outPath)
	if err != nil {
		return nil, fmt.Errorf("timeline: concatenate audio: %w", err)
	}

	if scale := Normalize(words, trueDuration, a.tolerance); scale != 1.0 {
		slog.Info("timeline: normalized caption clock", "scale", scale, "duration", trueDuration)
	}

	return &Timeline{
		AudioPath: outPath,
		Duration:  trueDuration,
		Words:     words,
	}, nil
}
