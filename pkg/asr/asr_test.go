package asr_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/reelgen/reelgen/pkg/asr"
)

func TestResultWords(t *testing.T) {
	r := &asr.Result{
		Segments: []asr.Segment{
			{ID: 0, Words: []asr.Word{{Text: "Hello", Start: 0, End: 0.4}, {Text: "there", Start: 0.4, End: 0.9}}},
			{ID: 1, Words: []asr.Word{{Text: "friend", Start: 1.0, End: 1.5}}},
		},
	}
	words := r.Words()
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3", len(words))
	}
	if words[2].Text != "friend" {
		t.Fatalf("last word = %q", words[2].Text)
	}
}

func TestWhisperServerTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/inference":
			if err := r.ParseMultipartForm(16 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if got := r.FormValue("response_format"); got != "verbose_json" {
				t.Errorf("response_format = %q", got)
			}
			if got := r.FormValue("language"); got != "en" {
				t.Errorf("language = %q", got)
			}
			if _, _, err := r.FormFile("file"); err != nil {
				http.Error(w, "no file", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"language": "en",
				"segments": []map[string]any{
					{
						"id": 0, "start": 0.0, "end": 1.0, "text": "Hello there",
						"words": []map[string]any{
							{"word": "Hello", "start": 0.0, "end": 0.4},
							{"word": "there", "start": 0.5, "end": 1.0},
						},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "turn_0.wav")
	if err := os.WriteFile(audio, []byte("RIFFfake"), 0o644); err != nil {
		t.Fatal(err)
	}

	ws := asr.NewWhisperServer(srv.URL)
	if !ws.Available(context.Background()) {
		t.Fatal("server reported unavailable")
	}

	result, err := ws.Transcribe(context.Background(), audio, &asr.Options{Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	words := result.Words()
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}
	if words[0].Text != "Hello" || words[1].End != 1.0 {
		t.Fatalf("unexpected words: %+v", words)
	}
}

func TestWhisperServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "x.wav")
	if err := os.WriteFile(audio, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := asr.NewWhisperServer(srv.URL).Transcribe(context.Background(), audio, nil); err == nil {
		t.Fatal("Transcribe succeeded against failing server")
	}
}

func TestStatic(t *testing.T) {
	want := &asr.Result{Segments: []asr.Segment{{Text: "hi"}}}
	s := &asr.Static{Results: map[string]*asr.Result{"a.wav": want}}

	got, err := s.Transcribe(context.Background(), "a.wav", nil)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != want {
		t.Fatal("did not return canned result")
	}
	if len(s.Calls) != 1 || s.Calls[0] != "a.wav" {
		t.Fatalf("calls = %v", s.Calls)
	}
}

func TestNewWhisperCLIValidates(t *testing.T) {
	if _, err := asr.NewWhisperCLI(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("NewWhisperCLI accepted a missing program")
	}

	plain := filepath.Join(t.TempDir(), "not-exec")
	if err := os.WriteFile(plain, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := asr.NewWhisperCLI(plain); err == nil {
		t.Fatal("NewWhisperCLI accepted a non-executable file")
	}
}
