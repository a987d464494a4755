package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"google.golang.org/genai"

	"github.com/reelgen/reelgen/pkg/asr"
	"github.com/reelgen/reelgen/pkg/cache"
	"github.com/reelgen/reelgen/pkg/cli"
	"github.com/reelgen/reelgen/pkg/reel"
	"github.com/reelgen/reelgen/pkg/storage"
	"github.com/reelgen/reelgen/pkg/tts"
	"github.com/reelgen/reelgen/pkg/tts/eleven"
	"github.com/reelgen/reelgen/pkg/tts/gemini"
	"github.com/reelgen/reelgen/pkg/tts/kokoro"
	"github.com/reelgen/reelgen/pkg/tts/say"
	"github.com/reelgen/reelgen/pkg/voice"
)

// geminiAPIKey resolves the Gemini key: context first, then environment.
func geminiAPIKey(cctx *cli.Context) string {
	if cctx.GeminiAPIKey != "" {
		return cctx.GeminiAPIKey
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

// newGeminiClient builds a genai client, or nil when no key is
// configured.
func newGeminiClient(ctx context.Context, cctx *cli.Context) (*genai.Client, error) {
	key := geminiAPIKey(cctx)
	if key == "" {
		return nil, nil
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
}

// buildRegistry registers every provider the context can drive.
func buildRegistry(ctx context.Context, cctx *cli.Context) (*tts.Registry, error) {
	reg := tts.NewRegistry()

	client, err := newGeminiClient(ctx, cctx)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	reg.Register(gemini.New(client))

	elevenKey := cctx.ElevenAPIKey
	if elevenKey == "" {
		elevenKey = os.Getenv("ELEVENLABS_API_KEY")
	}
	reg.Register(eleven.New(elevenKey))

	var kokoroOpts []kokoro.Option
	if cctx.KokoroBaseURL != "" {
		kokoroOpts = append(kokoroOpts, kokoro.WithBaseURL(cctx.KokoroBaseURL))
	}
	reg.Register(kokoro.New(kokoroOpts...))

	reg.Register(say.New())
	return reg, nil
}

// buildTranscriber assembles the recognition backend per the context's
// whisper settings and wraps it with the transcript cache.
func buildTranscriber(ctx context.Context, cctx *cli.Context, paths *cli.Paths) (asr.Transcriber, func(), error) {
	w := cctx.Whisper
	if w == nil {
		w = &cli.WhisperConfig{}
	}

	var (
		inner asr.Transcriber
		err   error
	)
	switch w.Backend {
	case "server":
		url := w.ServerURL
		if url == "" {
			return nil, nil, fmt.Errorf("whisper backend %q needs server_url", w.Backend)
		}
		inner = asr.NewWhisperServer(url)
	case "cli", "":
		binary := w.Binary
		if binary == "" {
			binary = "whisper-timestamped"
		}
		inner, err = asr.NewWhisperCLI(binary)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unknown whisper backend %q", w.Backend)
	}

	if !inner.Available(ctx) {
		return nil, nil, fmt.Errorf("whisper backend %s is not available", inner.Name())
	}

	cached, err := cache.NewTranscripts(inner, paths.TranscriptDir())
	if err != nil {
		slog.Warn("transcript cache unavailable, continuing without", "error", err)
		return inner, func() {}, nil
	}
	return cached, func() { cached.Close() }, nil
}

// buildAudioCache opens the audio cache at the context's cache root:
// local directory by default, S3 when the root is an s3:// URL.
func buildAudioCache(ctx context.Context, cctx *cli.Context, paths *cli.Paths, run string) *cache.Audio {
	root := cctx.CacheRoot
	if root == "" {
		root = paths.CacheDir()
	}

	if storage.IsS3URL(root) {
		bucket, prefix := storage.SplitS3URL(root)
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			slog.Warn("aws config load failed, audio cache disabled", "error", err)
			return nil
		}
		return cache.NewAudio(storage.NewS3(s3.NewFromConfig(awsCfg), bucket, prefix), run)
	}

	store, err := storage.NewLocal(root)
	if err != nil {
		slog.Warn("cache root unusable, audio cache disabled", "root", root, "error", err)
		return nil
	}
	return cache.NewAudio(store, run)
}

// buildScheduler wires registry, voices, cache, and pool overrides.
func buildScheduler(reg *tts.Registry, voices voice.Table, audioCache *cache.Audio, cctx *cli.Context) *reel.Scheduler {
	opts := []reel.SchedulerOption{}
	if audioCache != nil {
		opts = append(opts, reel.WithAudioCache(audioCache))
	}
	for mode, n := range cctx.Pools {
		opts = append(opts, reel.WithPoolSize(tts.Mode(mode), n))
	}
	return reel.NewScheduler(reg, voices, opts...)
}

// asrOptions lifts the context whisper settings into per-call options.
func asrOptions(cctx *cli.Context) *asr.Options {
	if cctx.Whisper == nil {
		return nil
	}
	return &asr.Options{
		Model:    cctx.Whisper.Model,
		Language: cctx.Whisper.Language,
	}
}
