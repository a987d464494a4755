// Package say adapts the macOS "say" command to the tts Provider
// contract. It is the zero-setup fallback for local iteration: no keys,
// no server, instant synthesis with the system voices.
package say

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/reelgen/reelgen/pkg/tts"
)

const (
	// DefaultTimeout bounds one say invocation. The command normally
	// finishes in well under a second per turn.
	DefaultTimeout = 30 * time.Second

	// dataFormat requests 16-bit little-endian PCM at 22.05 kHz; the
	// .wav output extension selects the WAVE container.
	dataFormat = "LEI16@22050"
)

// Provider synthesizes speech with the macOS say command.
type Provider struct {
	binary  string
	timeout time.Duration
}

// Option configures a Provider.
type Option func(*Provider)

// WithTimeout overrides the per-invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.timeout = d }
}

// WithBinary overrides the say binary path (for tests).
func WithBinary(path string) Option {
	return func(p *Provider) { p.binary = path }
}

// New creates a say provider.
func New(opts ...Option) *Provider {
	p := &Provider{binary: "say", timeout: DefaultTimeout}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Mode() tts.Mode { return tts.ModeSay }

// Available reports whether the say binary exists. Outside macOS this is
// false unless a binary was injected.
func (p *Provider) Available(_ context.Context) bool {
	if p.binary == "say" && runtime.GOOS != "darwin" {
		return false
	}
	_, err := exec.LookPath(p.binary)
	return err == nil
}

// SpeaksCues is false: say reads bracketed directions verbatim, so the
// scheduler strips them first.
func (p *Provider) SpeaksCues() bool { return false }

// Synthesize renders one turn with the named system voice. say exits
// non-zero for unknown voices and unwritable outputs; there is no
// rate-limit or empty-response case for a local command.
func (p *Provider) Synthesize(ctx context.Context, text, voiceID, outputPath string, turn int) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := []string{
		"-v", voiceID,
		"-o", outputPath,
		"--data-format=" + dataFormat,
		text,
	}
	cmd := exec.CommandContext(ctx, p.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(outputPath)
		if ctx.Err() == context.DeadlineExceeded {
			return tts.Permanent(tts.ModeSay, fmt.Errorf("say timed out after %s", p.timeout))
		}
		return tts.Permanent(tts.ModeSay, fmt.Errorf("say: %w: %s", err, bytes.TrimSpace(stderr.Bytes())))
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		os.Remove(outputPath)
		return tts.EmptyResponse(tts.ModeSay, fmt.Errorf("no audio for turn %d", turn))
	}
	slog.Debug("say synthesis done", "turn", turn, "voice", voiceID, "bytes", info.Size())
	return nil
}

var _ tts.Provider = (*Provider)(nil)
