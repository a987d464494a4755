// Package tts defines the uniform contract every text-to-speech backend
// implements, the classified error type the synthesis scheduler's retry
// policy keys on, and a registry mapping provider modes to backends.
//
// Providers differ wildly underneath (streaming cloud synthesis, a local
// HTTP server, a blocking subprocess) but all present the same two
// capabilities: a cheap availability probe and a synthesize-to-file call.
// Every provider writes a WAV container so downstream concatenation and
// transcription never care which backend produced a turn.
package tts

import "context"

// Mode identifies a TTS backend. The set is closed; dispatch happens
// through a Registry populated at startup.
type Mode string

const (
	// ModeDefault aliases the primary provider (Gemini).
	ModeDefault Mode = "default"

	// ModeGemini is Google Gemini cloud TTS.
	ModeGemini Mode = "gemini"

	// ModeEleven is ElevenLabs cloud TTS.
	ModeEleven Mode = "elevenlabs"

	// ModeKokoro is the local Kokoro neural TTS server.
	ModeKokoro Mode = "kokoro"

	// ModeSay is the macOS "say" system voice.
	ModeSay Mode = "say"
)

// Canonical resolves the default alias to the concrete provider mode.
func (m Mode) Canonical() Mode {
	if m == ModeDefault {
		return ModeGemini
	}
	return m
}

// Provider is a text-to-speech backend.
type Provider interface {
	// Mode returns the provider's registry mode.
	Mode() Mode

	// Available reports whether the provider can synthesize right now
	// (credentials present, server reachable, binary installed). It must
	// be cheap and side-effect-free; the scheduler calls it per batch.
	Available(ctx context.Context) bool

	// Synthesize renders text with the given voice and writes a WAV file
	// to outputPath. turn is the turn index, used for logging. Failures
	// are reported as *Error so the caller can classify them.
	Synthesize(ctx context.Context, text, voiceID, outputPath string, turn int) error

	// SpeaksCues reports whether the provider interprets [bracketed]
	// stage directions as performance cues. Providers that would read the
	// brackets aloud return false, and the scheduler strips cues from
	// their input.
	SpeaksCues() bool
}
