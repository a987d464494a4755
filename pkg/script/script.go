// Package script defines the dialogue script model that drives reel
// generation: an ordered list of speaker turns plus metadata, loaded
// from a JSON content file.
package script

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DefaultLanguage is used when a script does not declare a language.
const DefaultLanguage = "en"

// Turn is a single utterance by one speaker role. The text may contain
// bracketed performance cues like "[sarcastically]"; whether those reach a
// TTS provider verbatim is the provider's call (see StripCues).
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Metadata carries optional script-level settings.
type Metadata struct {
	Language string `json:"language,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Script is the validated, ordered conversation for one reel.
type Script struct {
	Conversation []Turn   `json:"conversation"`
	Metadata     Metadata `json:"metadata,omitempty"`
}

// Language returns the script language, falling back to DefaultLanguage.
func (s *Script) Language() string {
	if s.Metadata.Language != "" {
		return s.Metadata.Language
	}
	return DefaultLanguage
}

// Load reads and validates a script file. On any failure the returned
// script is nil; callers processing a batch treat that as "skip this
// input" rather than aborting the batch.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw script JSON. Input that is not strictly valid JSON
// (scripts are often LLM-written) gets one repair pass before failing.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return nil, fmt.Errorf("script: invalid JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &s); err != nil {
			return nil, fmt.Errorf("script: invalid JSON after repair: %w", err)
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) validate() error {
	if len(s.Conversation) == 0 {
		return fmt.Errorf("script: conversation is missing or empty")
	}
	for i, turn := range s.Conversation {
		if turn.Role == "" {
			return fmt.Errorf("script: turn %d has no role", i)
		}
		if strings.TrimSpace(turn.Text) == "" {
			return fmt.Errorf("script: turn %d has no text", i)
		}
	}
	return nil
}

// cueRe matches bracketed stage directions like "[whispers]".
var cueRe = regexp.MustCompile(`\[.*?\]`)

// StripCues removes bracketed performance cues from text. Providers that
// would read the bracket contents aloud call this before synthesis.
func StripCues(text string) string {
	return strings.TrimSpace(cueRe.ReplaceAllString(text, ""))
}

// Words splits turn text into displayable words with cues removed.
func Words(text string) []string {
	fields := strings.Fields(cueRe.ReplaceAllString(text, " "))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			words = append(words, f)
		}
	}
	return words
}
