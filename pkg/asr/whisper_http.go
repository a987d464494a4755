package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// WhisperServer transcribes through a whisper.cpp server's /inference
// endpoint using verbose JSON output with word timestamps.
type WhisperServer struct {
	baseURL string
	client  *http.Client
}

var _ Transcriber = (*WhisperServer)(nil)

// NewWhisperServer creates an HTTP-backed transcriber for the server at
// baseURL (e.g. "http://localhost:8080").
func NewWhisperServer(baseURL string) *WhisperServer {
	return &WhisperServer{
		baseURL: baseURL,
		// Transcription time is roughly proportional to audio length;
		// turns are short but the first request also loads the model.
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Name implements Transcriber.
func (w *WhisperServer) Name() string { return "whisper-server" }

// Available probes the server's health endpoint.
func (w *WhisperServer) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// wire types for the verbose JSON response.
type serverWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type serverSegment struct {
	ID    int          `json:"id"`
	Start float64      `json:"start"`
	End   float64      `json:"end"`
	Text  string       `json:"text"`
	Words []serverWord `json:"words"`
}

type serverResponse struct {
	Language string          `json:"language"`
	Segments []serverSegment `json:"segments"`
	Error    string          `json:"error"`
}

// Transcribe uploads the audio file and parses the word-level response.
func (w *WhisperServer) Transcribe(ctx context.Context, audioPath string, opts *Options) (*Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("asr: open %s: %w", audioPath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("asr: build request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("asr: read audio: %w", err)
	}
	fields := map[string]string{
		"response_format": "verbose_json",
		"word_timestamps": "true",
		"temperature":     "0.0",
	}
	if opts != nil && opts.Language != "" {
		fields["language"] = opts.Language
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("asr: build request: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("asr: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/inference", &body)
	if err != nil {
		return nil, fmt.Errorf("asr: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asr: whisper server: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("asr: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asr: whisper server returned %d: %s", resp.StatusCode, raw)
	}

	var sr serverResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("asr: parse response: %w", err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("asr: whisper server: %s", sr.Error)
	}

	result := &Result{Language: sr.Language}
	for _, seg := range sr.Segments {
		s := Segment{ID: seg.ID, Start: seg.Start, End: seg.End, Text: seg.Text}
		for _, word := range seg.Words {
			s.Words = append(s.Words, Word{Text: word.Word, Start: word.Start, End: word.End})
		}
		result.Segments = append(result.Segments, s)
	}
	return result, nil
}
