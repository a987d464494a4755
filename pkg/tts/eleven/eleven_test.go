package eleven_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/reelgen/reelgen/pkg/audio/wav"
	"github.com/reelgen/reelgen/pkg/tts"
	"github.com/reelgen/reelgen/pkg/tts/eleven"
)

func pcmSamples(n int) []byte {
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		pcm[i*2] = byte(i)
	}
	return pcm
}

func TestSynthesizeHTTP(t *testing.T) {
	pcm := pcmSamples(2205) // 0.1s at 22050

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "key-1" {
			t.Errorf("missing api key header")
		}
		if !strings.Contains(r.URL.Path, "/v1/text-to-speech/voice-a") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("output_format") != "pcm_22050" {
			t.Errorf("unexpected output_format %q", r.URL.Query().Get("output_format"))
		}
		w.Write(pcm)
	}))
	defer srv.Close()

	p := eleven.New("key-1", eleven.WithBaseURL(srv.URL))
	out := filepath.Join(t.TempDir(), "turn_0.wav")
	if err := p.Synthesize(context.Background(), "hello", "voice-a", out, 0); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	f, data, err := wav.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.SampleRate != 22050 || f.Channels != 1 {
		t.Fatalf("format = %+v", f)
	}
	if len(data) != len(pcm) {
		t.Fatalf("pcm length = %d, want %d", len(data), len(pcm))
	}
}

func TestSynthesizeClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   tts.ErrorKind
	}{
		{"rate limited", 429, `{"detail":{"status":"too_many_concurrent_requests","message":"busy"}}`, tts.KindRateLimited},
		{"bad key", 401, `{"detail":{"status":"invalid_api_key","message":"bad key"}}`, tts.KindPermanent},
		{"empty body", 200, "", tts.KindEmptyResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p := eleven.New("key-1", eleven.WithBaseURL(srv.URL))
			err := p.Synthesize(context.Background(), "hello", "voice-a", filepath.Join(t.TempDir(), "o.wav"), 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := tts.Classify(err); got != tc.want {
				t.Fatalf("Classify = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSynthesizeStream(t *testing.T) {
	pcm := pcmSamples(2205)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// Drain the init, text, and close messages.
		for i := 0; i < 3; i++ {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.Errorf("read: %v", err)
				return
			}
		}
		conn.WriteJSON(map[string]any{
			"audio":   base64.StdEncoding.EncodeToString(pcm[:len(pcm)/2]),
			"isFinal": false,
		})
		conn.WriteJSON(map[string]any{
			"audio":   base64.StdEncoding.EncodeToString(pcm[len(pcm)/2:]),
			"isFinal": true,
		})
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	p := eleven.New("key-1", eleven.WithStreaming(), eleven.WithWSURL(wsURL))

	out := filepath.Join(t.TempDir(), "turn_1.wav")
	if err := p.Synthesize(context.Background(), "hello", "voice-a", out, 1); err != nil {
		t.Fatalf("Synthesize (stream): %v", err)
	}
	_, data, err := wav.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != len(pcm) {
		t.Fatalf("pcm length = %d, want %d", len(data), len(pcm))
	}
}

func TestAvailable(t *testing.T) {
	if eleven.New("").Available(context.Background()) {
		t.Fatal("empty key reported available")
	}
	if !eleven.New("k").Available(context.Background()) {
		t.Fatal("configured key reported unavailable")
	}
}
