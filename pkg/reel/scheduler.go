// Package reel runs the end-to-end pipeline for one reel: parallel
// synthesis of turn audio, sequential transcription alignment, and the
// final caption timeline.
package reel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/reelgen/reelgen/pkg/cache"
	"github.com/reelgen/reelgen/pkg/script"
	"github.com/reelgen/reelgen/pkg/timeline"
	"github.com/reelgen/reelgen/pkg/tts"
	"github.com/reelgen/reelgen/pkg/voice"
)

const (
	// MaxAttempts bounds synthesis retries per turn.
	MaxAttempts = 6

	// RateLimitBase and RateLimitStep shape the rate-limit backoff:
	// base + step*attempt before attempt n+1.
	RateLimitBase = 60 * time.Second
	RateLimitStep = 10 * time.Second

	// EmptyCooldown is the fixed wait after an empty synthesis response.
	EmptyCooldown = 6 * time.Second
)

// ErrNoTurns means no turn of the script produced usable audio.
var ErrNoTurns = errors.New("reel: no turns synthesized")

// defaultPools sizes the worker pool per provider. Cloud providers stay
// narrow to respect concurrency limits; local synthesis fans out wide.
var defaultPools = map[tts.Mode]int{
	tts.ModeGemini: 3,
	tts.ModeEleven: 2,
	tts.ModeKokoro: 1,
	tts.ModeSay:    10,
}

// Scheduler synthesizes script turns in parallel through one provider,
// with a bounded worker pool and classified retries.
type Scheduler struct {
	registry *tts.Registry
	voices   voice.Table
	cache    *cache.Audio

	pools         map[tts.Mode]int
	rateBase      time.Duration
	rateStep      time.Duration
	emptyCooldown time.Duration
	maxAttempts   int
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithAudioCache attaches a per-turn audio cache.
func WithAudioCache(c *cache.Audio) SchedulerOption {
	return func(s *Scheduler) { s.cache = c }
}

// WithPoolSize overrides the worker pool size for one provider.
func WithPoolSize(mode tts.Mode, n int) SchedulerOption {
	return func(s *Scheduler) { s.pools[mode.Canonical()] = n }
}

// WithRetryPolicy overrides the retry timing, mainly for tests and for
// config-driven tuning.
func WithRetryPolicy(rateBase, rateStep, emptyCooldown time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.rateBase = rateBase
		s.rateStep = rateStep
		s.emptyCooldown = emptyCooldown
	}
}

// NewScheduler creates a scheduler over the registered providers.
func NewScheduler(registry *tts.Registry, voices voice.Table, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		registry:      registry,
		voices:        voices,
		pools:         make(map[tts.Mode]int),
		rateBase:      RateLimitBase,
		rateStep:      RateLimitStep,
		emptyCooldown: EmptyCooldown,
		maxAttempts:   MaxAttempts,
	}
	for m, n := range defaultPools {
		s.pools[m] = n
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Scheduler) poolSize(mode tts.Mode) int {
	if n := s.pools[mode.Canonical()]; n > 0 {
		return n
	}
	return 1
}

// task is one turn queued for synthesis.
type task struct {
	index   int
	role    string
	text    string
	voiceID string
	output  string
}

// Synthesize renders every resolvable turn of the script into workDir
// and returns the successful clips, sorted by turn index. Turns whose
// role has no voice for the mode are skipped up front; turns that
// exhaust their retry budget are dropped. Zero successes is ErrNoTurns.
func (s *Scheduler) Synthesize(ctx context.Context, sc *script.Script, mode tts.Mode, workDir string) ([]timeline.Clip, error) {
	provider, err := s.registry.Lookup(mode)
	if err != nil {
		return nil, err
	}
	if !provider.Available(ctx) {
		return nil, fmt.Errorf("reel: provider %s is not available", provider.Mode())
	}

	var tasks []task
	for i, turn := range sc.Conversation {
		voiceID, ok := s.voices.Resolve(turn.Role, mode)
		if !ok {
			slog.Warn("no voice for role, skipping turn",
				"turn", i, "role", turn.Role, "mode", mode.Canonical())
			continue
		}
		text := turn.Text
		if !provider.SpeaksCues() {
			text = script.StripCues(text)
		}
		if text == "" {
			slog.Warn("turn empty after cue stripping, skipping", "turn", i, "role", turn.Role)
			continue
		}
		tasks = append(tasks, task{
			index:   i,
			role:    turn.Role,
			text:    text,
			voiceID: voiceID,
			output:  filepath.Join(workDir, fmt.Sprintf("turn_%d.wav", i)),
		})
	}

	var (
		mu    sync.Mutex
		clips []timeline.Clip
		wg    sync.WaitGroup
		queue = make(chan task)
	)
	workers := s.poolSize(mode)
	if workers > len(tasks) && len(tasks) > 0 {
		workers = len(tasks)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				if s.synthesizeTurn(ctx, provider, t) {
					mu.Lock()
					clips = append(clips, timeline.Clip{Index: t.index, Role: t.role, AudioPath: t.output})
					mu.Unlock()
				}
			}
		}()
	}
	for _, t := range tasks {
		queue <- t
	}
	close(queue)
	wg.Wait()

	if len(clips) == 0 {
		return nil, ErrNoTurns
	}
	sort.Slice(clips, func(i, j int) bool { return clips[i].Index < clips[j].Index })
	return clips, nil
}

// synthesizeTurn runs the classified retry loop for one turn and reports
// whether audio landed at t.output.
func (s *Scheduler) synthesizeTurn(ctx context.Context, provider tts.Provider, t task) bool {
	if s.cache != nil && s.cache.Fetch(ctx, t.index, t.voiceID, t.text, t.output) {
		slog.Debug("turn served from cache", "turn", t.index, "role", t.role)
		return true
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := provider.Synthesize(ctx, t.text, t.voiceID, t.output, t.index)
		if err == nil {
			if s.cache != nil {
				s.cache.Store(ctx, t.index, t.voiceID, t.text, t.output)
			}
			return true
		}

		var wait time.Duration
		switch kind := tts.Classify(err); kind {
		case tts.KindRateLimited:
			wait = s.rateBase + time.Duration(attempt)*s.rateStep
		case tts.KindEmptyResponse:
			wait = s.emptyCooldown
		default:
			slog.Error("turn failed, not retryable", "turn", t.index, "role", t.role, "err", err)
			return false
		}

		if attempt == s.maxAttempts {
			slog.Error("turn failed, retries exhausted",
				"turn", t.index, "role", t.role, "attempts", attempt, "err", err)
			return false
		}
		slog.Warn("turn failed, will retry",
			"turn", t.index, "role", t.role, "attempt", attempt, "wait", wait, "err", err)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
	return false
}
