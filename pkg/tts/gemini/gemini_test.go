package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/reelgen/reelgen/pkg/tts"
)

func TestParseRate(t *testing.T) {
	cases := []struct {
		mime string
		want int
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000},
		{"audio/L16;rate=16000", 16000},
		{"audio/L16", fallbackRate},
		{"", fallbackRate},
		{"garbage;;;", fallbackRate},
	}
	for _, tc := range cases {
		if got := parseRate(tc.mime); got != tc.want {
			t.Errorf("parseRate(%q) = %d, want %d", tc.mime, got, tc.want)
		}
	}
}

func TestClassify(t *testing.T) {
	p := New(nil)

	err := p.classify(genai.APIError{Code: 429, Message: "quota"})
	if tts.Classify(err) != tts.KindRateLimited {
		t.Fatalf("429 classified as %s", tts.Classify(err))
	}

	err = p.classify(genai.APIError{Code: 400, Message: "bad voice"})
	if tts.Classify(err) != tts.KindPermanent {
		t.Fatalf("400 classified as %s", tts.Classify(err))
	}

	err = p.classify(errors.New("connection reset"))
	if tts.Classify(err) != tts.KindPermanent {
		t.Fatalf("plain error classified as %s", tts.Classify(err))
	}
}

func TestAvailable(t *testing.T) {
	if New(nil).Available(context.Background()) {
		t.Fatal("nil client reported available")
	}
	if !New(&genai.Client{}).Available(context.Background()) {
		t.Fatal("configured client reported unavailable")
	}
}
