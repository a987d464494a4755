// Package gemini adapts Google Gemini speech generation to the tts
// Provider contract. Audio arrives as streamed inline L16 PCM chunks;
// the adapter accumulates them and writes a WAV container.
package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strconv"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"

	"github.com/reelgen/reelgen/pkg/audio/wav"
	"github.com/reelgen/reelgen/pkg/tts"
)

// DefaultModel is the Gemini speech generation model.
const DefaultModel = "gemini-2.5-flash-preview-tts"

// fallbackRate covers responses whose MIME type omits the rate param.
const fallbackRate = 24000

// Provider synthesizes speech through the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel overrides the speech model.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// New creates a Gemini provider over an existing client.
func New(client *genai.Client, opts ...Option) *Provider {
	p := &Provider{client: client, model: DefaultModel}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Mode() tts.Mode { return tts.ModeGemini }

// Available reports whether a client was configured. Quota exhaustion is
// discovered per call and classified there, not probed up front.
func (p *Provider) Available(_ context.Context) bool { return p.client != nil }

// SpeaksCues is true: Gemini treats [bracketed] directions as
// performance cues rather than reading them aloud.
func (p *Provider) SpeaksCues() bool { return true }

// Synthesize streams one turn of speech and writes it to outputPath as
// 16-bit PCM WAV.
func (p *Provider) Synthesize(ctx context.Context, text, voiceID, outputPath string, turn int) error {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voiceID},
			},
		},
	}
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	var (
		pcm      bytes.Buffer
		mimeType string
	)
	for chunk, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, cfg) {
		if err != nil {
			return p.classify(err)
		}
		if len(chunk.Candidates) == 0 || chunk.Candidates[0].Content == nil {
			continue
		}
		for _, part := range chunk.Candidates[0].Content.Parts {
			if part.InlineData == nil {
				continue
			}
			if mimeType == "" {
				mimeType = part.InlineData.MIMEType
			}
			pcm.Write(part.InlineData.Data)
		}
	}

	if pcm.Len() == 0 {
		return tts.EmptyResponse(tts.ModeGemini, fmt.Errorf("no audio for turn %d", turn))
	}

	f := wav.Format{SampleRate: parseRate(mimeType), Channels: 1}
	if err := wav.WriteFile(outputPath, pcm.Bytes(), f); err != nil {
		return tts.Permanent(tts.ModeGemini, err)
	}
	slog.Debug("gemini synthesis done",
		"turn", turn, "voice", voiceID, "bytes", pcm.Len(), "rate", f.SampleRate)
	return nil
}

// classify maps API failures onto retry classes. Quota rejections come
// back as HTTP 429 or gRPC ResourceExhausted depending on the transport.
func (p *Provider) classify(err error) error {
	var aerr *apierror.APIError
	if errors.As(err, &aerr) {
		if aerr.HTTPCode() == 429 || aerr.GRPCStatus().Code() == codes.ResourceExhausted {
			return tts.RateLimited(tts.ModeGemini, aerr.Unwrap())
		}
		return tts.Permanent(tts.ModeGemini, aerr.Unwrap())
	}
	var gerr genai.APIError
	if errors.As(err, &gerr) {
		if gerr.Code == 429 {
			return tts.RateLimited(tts.ModeGemini, err)
		}
		return tts.Permanent(tts.ModeGemini, err)
	}
	return tts.Permanent(tts.ModeGemini, err)
}

// parseRate extracts the sample rate from a MIME type like
// "audio/L16;codec=pcm;rate=24000".
func parseRate(mimeType string) int {
	if mimeType == "" {
		return fallbackRate
	}
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return fallbackRate
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return fallbackRate
	}
	return rate
}

var _ tts.Provider = (*Provider)(nil)
