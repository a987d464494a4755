package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reelgen/reelgen/pkg/asr"
	"github.com/reelgen/reelgen/pkg/cache"
	"github.com/reelgen/reelgen/pkg/storage"
)

func TestKeyStableAcrossTurns(t *testing.T) {
	a := cache.Key("Kore", "Hello there")
	b := cache.Key("Kore", "Hello there")
	if a != b {
		t.Fatalf("same voice and text produced different keys: %s vs %s", a, b)
	}
	if cache.Key("Puck", "Hello there") == a {
		t.Fatal("different voices share a key")
	}
	if cache.Key("Kore", "Hello there!") == a {
		t.Fatal("different texts share a key")
	}
	if len(a) != 32 {
		t.Fatalf("key length = %d, want 32 hex chars", len(a))
	}
}

func TestAudioFetchStore(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	c := cache.NewAudio(store, "demo-run")

	work := t.TempDir()
	src := filepath.Join(work, "turn_2.wav")
	if err := os.WriteFile(src, []byte("fake-wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(work, "fetched.wav")
	if c.Fetch(ctx, 2, "Kore", "line two", dest) {
		t.Fatal("Fetch hit on empty cache")
	}

	c.Store(ctx, 2, "Kore", "line two", src)

	if !c.Fetch(ctx, 2, "Kore", "line two", dest) {
		t.Fatal("Fetch missed after Store")
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "fake-wav" {
		t.Fatalf("fetched content = %q, %v", data, err)
	}

	// Different text misses even on the same turn index.
	if c.Fetch(ctx, 2, "Kore", "edited line", dest) {
		t.Fatal("Fetch hit for changed text")
	}
}

func TestTranscriptsCaching(t *testing.T) {
	ctx := context.Background()

	audio := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(audio, []byte("pcm-payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	inner := &asr.Static{Results: map[string]*asr.Result{
		audio: {Segments: []asr.Segment{{
			ID: 0, Start: 0, End: 1, Text: "hello",
			Words: []asr.Word{{Text: "hello", Start: 0, End: 1}},
		}}},
	}}

	tc, err := cache.NewTranscripts(inner, t.TempDir())
	if err != nil {
		t.Fatalf("NewTranscripts: %v", err)
	}
	defer tc.Close()

	opts := &asr.Options{Model: "base"}
	first, err := tc.Transcribe(ctx, audio, opts)
	if err != nil {
		t.Fatalf("Transcribe (cold): %v", err)
	}
	second, err := tc.Transcribe(ctx, audio, opts)
	if err != nil {
		t.Fatalf("Transcribe (warm): %v", err)
	}

	if len(inner.Calls) != 1 {
		t.Fatalf("backend called %d times, want 1", len(inner.Calls))
	}
	if len(second.Segments) != 1 || second.Segments[0].Text != first.Segments[0].Text {
		t.Fatalf("cached result mismatch: %+v", second)
	}

	// Different options bypass the warm entry.
	if _, err := tc.Transcribe(ctx, audio, &asr.Options{Model: "small"}); err != nil {
		t.Fatalf("Transcribe (other model): %v", err)
	}
	if len(inner.Calls) != 2 {
		t.Fatalf("backend called %d times, want 2", len(inner.Calls))
	}
}
