package eleven

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/reelgen/reelgen/pkg/tts"
)

// defaultWSURL is the websocket endpoint root.
const defaultWSURL = "wss://api.elevenlabs.io"

// WithWSURL sets a custom websocket endpoint root (for tests).
func WithWSURL(url string) Option {
	return func(p *Provider) { p.wsURL = url }
}

// streamInit opens the stream-input session.
type streamInit struct {
	Text          string         `json:"text"`
	VoiceSettings *voiceSettings `json:"voice_settings,omitempty"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type streamText struct {
	Text  string `json:"text"`
	Flush bool   `json:"flush,omitempty"`
}

type streamChunk struct {
	Audio   string `json:"audio"`
	IsFinal bool   `json:"isFinal"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// synthesizeStream runs one turn through the stream-input websocket and
// returns the accumulated PCM.
func (p *Provider) synthesizeStream(ctx context.Context, text, voiceID string) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/text-to-speech/%s/stream-input?model_id=%s&output_format=%s",
		p.wsURL, voiceID, p.model, outputFormat)

	headers := http.Header{}
	headers.Set("xi-api-key", p.apiKey)

	dialer := websocket.Dialer{HandshakeTimeout: p.http.Timeout}
	conn, resp, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return nil, tts.RateLimited(tts.ModeEleven, err)
		}
		return nil, tts.Permanent(tts.ModeEleven, err)
	}
	defer conn.Close()

	// Session open, the single turn, then the empty-text close signal.
	msgs := []any{
		streamInit{Text: " ", VoiceSettings: &voiceSettings{Stability: 0.5, SimilarityBoost: 0.75}},
		streamText{Text: text + " ", Flush: true},
		streamText{Text: ""},
	}
	for _, m := range msgs {
		if err := conn.WriteJSON(m); err != nil {
			return nil, tts.Permanent(tts.ModeEleven, err)
		}
	}

	var pcm bytes.Buffer
	for {
		var chunk streamChunk
		if err := conn.ReadJSON(&chunk); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			return nil, tts.Permanent(tts.ModeEleven, err)
		}
		if chunk.Error != "" {
			err := fmt.Errorf("eleven: stream: %s: %s", chunk.Error, chunk.Message)
			if chunk.Error == "too_many_concurrent_requests" || chunk.Error == "quota_exceeded" {
				return nil, tts.RateLimited(tts.ModeEleven, err)
			}
			return nil, tts.Permanent(tts.ModeEleven, err)
		}
		if chunk.Audio != "" {
			data, err := base64.StdEncoding.DecodeString(chunk.Audio)
			if err != nil {
				return nil, tts.Permanent(tts.ModeEleven, fmt.Errorf("eleven: stream audio decode: %w", err))
			}
			pcm.Write(data)
		}
		if chunk.IsFinal {
			break
		}
	}
	return pcm.Bytes(), nil
}
