package reel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/reelgen/reelgen/pkg/script"
	"github.com/reelgen/reelgen/pkg/timeline"
	"github.com/reelgen/reelgen/pkg/tts"
)

// Pipeline wires the scheduler and the aligner into one runnable unit.
type Pipeline struct {
	scheduler *Scheduler
	aligner   *timeline.Aligner
}

// NewPipeline creates a pipeline.
func NewPipeline(scheduler *Scheduler, aligner *timeline.Aligner) *Pipeline {
	return &Pipeline{scheduler: scheduler, aligner: aligner}
}

// Request describes one reel run.
type Request struct {
	// Script is the parsed conversation.
	Script *script.Script

	// Mode selects the TTS provider; default aliases the primary one.
	Mode tts.Mode

	// WorkDir holds per-turn intermediate audio. Created if missing.
	WorkDir string

	// AudioPath is where the concatenated reel track lands.
	AudioPath string

	// CaptionsPath, when set, also writes the word timeline as JSON.
	CaptionsPath string
}

// Run synthesizes, aligns, filters, and writes outputs for one reel.
func (p *Pipeline) Run(ctx context.Context, req Request) (*timeline.Timeline, error) {
	if req.Script == nil || len(req.Script.Conversation) == 0 {
		return nil, fmt.Errorf("reel: empty script")
	}
	if err := os.MkdirAll(req.WorkDir, 0o755); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(req.AudioPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	clips, err := p.scheduler.Synthesize(ctx, req.Script, req.Mode, req.WorkDir)
	if err != nil {
		return nil, err
	}
	slog.Info("synthesis complete",
		"turns", len(clips), "of", len(req.Script.Conversation), "elapsed", time.Since(start))

	tl, err := p.aligner.Align(ctx, clips, req.AudioPath)
	if err != nil {
		return nil, err
	}
	tl.Words = timeline.Filter(tl.Words, timeline.MinClipDuration)

	if req.CaptionsPath != "" {
		if err := writeCaptions(req.CaptionsPath, tl); err != nil {
			return nil, err
		}
	}
	slog.Info("reel complete",
		"audio", tl.AudioPath, "duration", tl.Duration, "words", len(tl.Words))
	return tl, nil
}

// writeCaptions persists the word timeline as a JSON array of
// {word,start,end,role} objects.
func writeCaptions(path string, tl *timeline.Timeline) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(tl.Words, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("reel: write captions %s: %w", path, err)
	}
	return nil
}
