// Package eleven adapts the ElevenLabs speech API to the tts Provider
// contract. The default path is a plain HTTP synthesis call returning
// raw PCM; WithStreaming switches to the websocket stream-input
// endpoint, which starts producing audio before the full turn is sent.
package eleven

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelgen/reelgen/pkg/audio/wav"
	"github.com/reelgen/reelgen/pkg/tts"
)

const (
	// DefaultBaseURL is the ElevenLabs API base URL.
	DefaultBaseURL = "https://api.elevenlabs.io"

	// DefaultModel is the synthesis model.
	DefaultModel = "eleven_multilingual_v2"

	// DefaultTimeout bounds one synthesis request.
	DefaultTimeout = 60 * time.Second

	// outputFormat requests raw 16-bit PCM at 22.05 kHz, which the
	// adapter wraps into a WAV container.
	outputFormat = "pcm_22050"

	sampleRate = 22050
)

// Provider synthesizes speech through the ElevenLabs API.
type Provider struct {
	apiKey    string
	baseURL   string
	wsURL     string
	model     string
	http      *http.Client
	streaming bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(p *Provider) { p.baseURL = url }
}

// WithModel overrides the synthesis model.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.http = client }
}

// WithStreaming routes synthesis through the websocket stream-input
// endpoint instead of the one-shot HTTP call.
func WithStreaming() Option {
	return func(p *Provider) { p.streaming = true }
}

// New creates an ElevenLabs provider. An empty apiKey leaves the
// provider reporting unavailable.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		wsURL:   defaultWSURL,
		model:   DefaultModel,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Mode() tts.Mode { return tts.ModeEleven }

// Available reports whether an API key is configured.
func (p *Provider) Available(_ context.Context) bool { return p.apiKey != "" }

// SpeaksCues is true: ElevenLabs reads [bracketed] directions as
// delivery cues.
func (p *Provider) SpeaksCues() bool { return true }

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// apiError is the ElevenLabs error envelope.
type apiError struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// Synthesize renders one turn and writes it to outputPath as WAV.
func (p *Provider) Synthesize(ctx context.Context, text, voiceID, outputPath string, turn int) error {
	var (
		pcm []byte
		err error
	)
	if p.streaming {
		pcm, err = p.synthesizeStream(ctx, text, voiceID)
	} else {
		pcm, err = p.synthesize(ctx, text, voiceID)
	}
	if err != nil {
		return err
	}
	if len(pcm) == 0 {
		return tts.EmptyResponse(tts.ModeEleven, fmt.Errorf("no audio for turn %d", turn))
	}

	f := wav.Format{SampleRate: sampleRate, Channels: 1}
	if err := wav.WriteFile(outputPath, pcm, f); err != nil {
		return tts.Permanent(tts.ModeEleven, err)
	}
	slog.Debug("eleven synthesis done", "turn", turn, "voice", voiceID, "bytes", len(pcm))
	return nil
}

func (p *Provider) synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", p.baseURL, voiceID, outputFormat)
	body, err := json.Marshal(synthesisRequest{Text: text, ModelID: p.model})
	if err != nil {
		return nil, tts.Permanent(tts.ModeEleven, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, tts.Permanent(tts.ModeEleven, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, tts.Permanent(tts.ModeEleven, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.classifyStatus(resp)
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tts.Permanent(tts.ModeEleven, err)
	}
	return pcm, nil
}

// classifyStatus maps a non-200 response onto a retry class. 429 covers
// both concurrency and quota limits.
func (p *Provider) classifyStatus(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	msg := http.StatusText(resp.StatusCode)
	var envelope apiError
	if json.Unmarshal(data, &envelope) == nil && envelope.Detail.Message != "" {
		msg = envelope.Detail.Message
	}
	err := fmt.Errorf("eleven: http %d: %s", resp.StatusCode, msg)

	if resp.StatusCode == http.StatusTooManyRequests {
		return tts.RateLimited(tts.ModeEleven, err)
	}
	return tts.Permanent(tts.ModeEleven, err)
}

var _ tts.Provider = (*Provider)(nil)
