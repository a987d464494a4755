// Package voice maps speaker roles to provider-specific voice
// identifiers. The mapping lives in a characters.json collaborator file
// and is loaded once per process; the pipeline never mutates it.
package voice

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/reelgen/reelgen/pkg/tts"
)

// Character holds the per-provider voice ids for one speaker role.
// Field names match the characters.json layout used by existing assets.
type Character struct {
	VoiceGemini string `json:"voice_gemini,omitempty" yaml:"voice_gemini,omitempty"`
	VoiceEleven string `json:"voice_eleven,omitempty" yaml:"voice_eleven,omitempty"`
	VoiceKokoro string `json:"voice_kokoro,omitempty" yaml:"voice_kokoro,omitempty"`
	VoiceSay    string `json:"voice_mac,omitempty" yaml:"voice_mac,omitempty"`

	// Avatar is the character's avatar asset name, consumed by the
	// compositor, carried through untouched.
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Table maps role name to character configuration.
type Table map[string]Character

// Load reads a characters.json table. A missing file is not an error for
// the batch layer, so callers usually log and continue with an empty
// table, which skips every turn.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("voice: read %s: %w", path, err)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("voice: parse %s: %w", path, err)
	}
	return t, nil
}

// Resolve returns the voice id for a role under a provider mode. The
// second return is false when the role is unknown or the provider-specific
// field is unset; the caller skips that turn rather than failing the run.
func (t Table) Resolve(role string, mode tts.Mode) (string, bool) {
	c, ok := t[role]
	if !ok {
		return "", false
	}
	var id string
	switch mode.Canonical() {
	case tts.ModeGemini:
		id = c.VoiceGemini
	case tts.ModeEleven:
		id = c.VoiceEleven
	case tts.ModeKokoro:
		id = c.VoiceKokoro
	case tts.ModeSay:
		id = c.VoiceSay
	}
	if id == "" {
		return "", false
	}
	return id, true
}
