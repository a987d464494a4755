package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultCLITimeout bounds one CLI transcription call.
const DefaultCLITimeout = 2 * time.Minute

// WhisperCLI runs a local whisper_timestamped-style executable per file.
// The program must print the transcription JSON (segments with word
// timings) to stdout.
type WhisperCLI struct {
	program string
	timeout time.Duration
}

var _ Transcriber = (*WhisperCLI)(nil)

// NewWhisperCLI creates a CLI-backed transcriber. A bare program name is
// resolved through PATH; a path must exist and be executable.
func NewWhisperCLI(program string) (*WhisperCLI, error) {
	if !strings.ContainsRune(program, os.PathSeparator) {
		resolved, err := exec.LookPath(program)
		if err != nil {
			return nil, fmt.Errorf("asr: whisper program: %w", err)
		}
		return &WhisperCLI{program: resolved, timeout: DefaultCLITimeout}, nil
	}
	info, err := os.Stat(program)
	if err != nil {
		return nil, fmt.Errorf("asr: whisper program: %w", err)
	}
	if info.Mode()&0o111 == 0 {
		return nil, fmt.Errorf("asr: whisper program %s is not executable", program)
	}
	return &WhisperCLI{program: program, timeout: DefaultCLITimeout}, nil
}

// Name implements Transcriber.
func (w *WhisperCLI) Name() string { return "whisper-cli" }

// Available probes the executable with --help.
func (w *WhisperCLI) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, w.program, "--help").Run() == nil
}

// Transcribe invokes the CLI and parses its JSON output.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string, opts *Options) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	args := []string{audioPath, "--output-format", "json"}
	if opts != nil && opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	if opts != nil && opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}

	cmd := exec.CommandContext(ctx, w.program, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("asr: whisper cli: %w (stderr: %s)", err, stderr.String())
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, fmt.Errorf("asr: whisper cli output: %w", err)
	}
	return &result, nil
}
