package script_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/reelgen/reelgen/pkg/script"
)

func TestParse(t *testing.T) {
	data := []byte(`{
		"conversation": [
			{"role": "A", "text": "Hello there"},
			{"role": "B", "text": "Hi"}
		],
		"metadata": {"language": "en"}
	}`)

	s, err := script.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(s.Conversation) != 2 {
		t.Fatalf("got %d turns, want 2", len(s.Conversation))
	}
	if s.Conversation[0].Role != "A" || s.Conversation[1].Text != "Hi" {
		t.Fatalf("unexpected turns: %+v", s.Conversation)
	}
	if got := s.Language(); got != "en" {
		t.Fatalf("Language() = %q, want en", got)
	}
}

func TestParseDefaultsLanguage(t *testing.T) {
	s, err := script.Parse([]byte(`{"conversation":[{"role":"A","text":"hey"}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := s.Language(); got != script.DefaultLanguage {
		t.Fatalf("Language() = %q, want %q", got, script.DefaultLanguage)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty conversation", `{"conversation": []}`},
		{"no conversation key", `{"metadata": {}}`},
		{"turn missing role", `{"conversation": [{"text": "hi"}]}`},
		{"turn missing text", `{"conversation": [{"role": "A"}]}`},
		{"blank text", `{"conversation": [{"role": "A", "text": "   "}]}`},
		{"not json at all", `<html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := script.Parse([]byte(tc.data)); err == nil {
				t.Fatalf("Parse accepted %s", tc.data)
			}
		})
	}
}

func TestParseRepairsLLMOutput(t *testing.T) {
	// Trailing comma and unquoted key, the kind of near-JSON models emit.
	data := []byte("{conversation: [{\"role\": \"A\", \"text\": \"hi\"},]}")
	s, err := script.Parse(data)
	if err != nil {
		t.Fatalf("Parse with repair: %v", err)
	}
	if len(s.Conversation) != 1 {
		t.Fatalf("got %d turns, want 1", len(s.Conversation))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := script.Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.json")
	content := `{"conversation":[{"role":"A","text":"one"},{"role":"B","text":"two"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := script.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Conversation) != 2 {
		t.Fatalf("got %d turns, want 2", len(s.Conversation))
	}
}

func TestStripCues(t *testing.T) {
	cases := []struct{ in, want string }{
		{"[sarcastically] sure, why not", "sure, why not"},
		{"no cues here", "no cues here"},
		{"[a][b] stacked", "stacked"},
		{"mid [whispers] sentence", "mid  sentence"},
	}
	for _, tc := range cases {
		if got := script.StripCues(tc.in); got != tc.want {
			t.Errorf("StripCues(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWords(t *testing.T) {
	got := script.Words("[fast] Hello there,  world ")
	want := []string{"Hello", "there,", "world"}
	if !slices.Equal(got, want) {
		t.Fatalf("Words = %v, want %v", got, want)
	}
}
