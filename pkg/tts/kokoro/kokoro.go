// Package kokoro adapts a local Kokoro TTS server to the tts Provider
// contract. Kokoro exposes an OpenAI-compatible speech endpoint, so the
// adapter drives it with the OpenAI SDK pointed at the local base URL.
package kokoro

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/reelgen/reelgen/pkg/tts"
)

const (
	// DefaultBaseURL is where a stock Kokoro-FastAPI server listens.
	DefaultBaseURL = "http://localhost:8880/v1"

	// DefaultModel is the model name the server expects.
	DefaultModel = "kokoro"

	// probeTimeout bounds the availability check.
	probeTimeout = 2 * time.Second
)

// Provider synthesizes speech through a local Kokoro server.
type Provider struct {
	client  *openai.Client
	baseURL string
	model   string
	probe   *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL points the provider at a non-default server.
func WithBaseURL(url string) Option {
	return func(p *Provider) { p.baseURL = url }
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// New creates a Kokoro provider. The server needs no API key; a
// placeholder satisfies the SDK.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		probe:   &http.Client{Timeout: probeTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	client := openai.NewClient(
		option.WithAPIKey("not-needed"),
		option.WithBaseURL(p.baseURL),
	)
	p.client = &client
	return p
}

func (p *Provider) Mode() tts.Mode { return tts.ModeKokoro }

// Available probes the server's model listing.
func (p *Provider) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return false
	}
	resp, err := p.probe.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// SpeaksCues is false: Kokoro reads bracketed directions verbatim, so
// the scheduler strips them first.
func (p *Provider) SpeaksCues() bool { return false }

// Synthesize renders one turn to a WAV file. The server produces the
// container itself, so the body is written through unchanged.
func (p *Provider) Synthesize(ctx context.Context, text, voiceID, outputPath string, turn int) error {
	resp, err := p.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(p.model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(voiceID),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
	})
	if err != nil {
		return p.classify(err)
	}
	defer resp.Body.Close()

	f, err := os.Create(outputPath)
	if err != nil {
		return tts.Permanent(tts.ModeKokoro, err)
	}
	n, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		os.Remove(outputPath)
		return tts.Permanent(tts.ModeKokoro, err)
	}
	if err := f.Close(); err != nil {
		return tts.Permanent(tts.ModeKokoro, err)
	}
	if n == 0 {
		os.Remove(outputPath)
		return tts.EmptyResponse(tts.ModeKokoro, fmt.Errorf("no audio for turn %d", turn))
	}
	slog.Debug("kokoro synthesis done", "turn", turn, "voice", voiceID, "bytes", n)
	return nil
}

// classify maps SDK failures onto retry classes. A local server is
// rarely quota-bound but can refuse on concurrency.
func (p *Provider) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return tts.RateLimited(tts.ModeKokoro, err)
	}
	return tts.Permanent(tts.ModeKokoro, err)
}

var _ tts.Provider = (*Provider)(nil)
