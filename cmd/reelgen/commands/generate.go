package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reelgen/reelgen/pkg/cli"
	"github.com/reelgen/reelgen/pkg/reel"
	"github.com/reelgen/reelgen/pkg/script"
	"github.com/reelgen/reelgen/pkg/timeline"
	"github.com/reelgen/reelgen/pkg/tts"
	"github.com/reelgen/reelgen/pkg/voice"
)

var (
	generateScript string
	generateVoices string
	generateMode   string
	generateOut    string
	generateRun    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate reel audio and captions from a script",
	Long: `Generate reel audio and a word-level caption timeline from a
conversation script.

The script argument may be a single JSON file or a directory; a directory
is processed as a batch, one reel per *.json file, and a script that fails
to parse is skipped with a warning.

Examples:
  reelgen generate -s script.json -o out/
  reelgen generate -s contents/ -o out/ --mode elevenlabs
  reelgen generate -s script.json -o out/ --json -q '.words | length'`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateScript, "script", "s", "", "script JSON file or directory (required)")
	generateCmd.Flags().StringVar(&generateVoices, "voices", "characters.json", "role-to-voice mapping file (JSON or YAML)")
	generateCmd.Flags().StringVar(&generateMode, "mode", "", "TTS provider (gemini, elevenlabs, kokoro, say; default from context)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "out", "output directory")
	generateCmd.Flags().StringVar(&generateRun, "run", "", "run name for cache scoping (default: script filename)")
	generateCmd.MarkFlagRequired("script")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cctx, err := getContext()
	if err != nil {
		return err
	}

	mode := tts.Mode(generateMode)
	if generateMode == "" {
		if cctx.Provider != "" {
			mode = tts.Mode(cctx.Provider)
		} else {
			mode = tts.ModeDefault
		}
	}

	var voices voice.Table
	if err := cli.LoadRequest(generateVoices, &voices); err != nil {
		return err
	}

	paths, err := cli.NewPaths()
	if err != nil {
		return err
	}
	if err := paths.EnsureWorkDir(); err != nil {
		return err
	}

	ctx := cmd.Context()
	registry, err := buildRegistry(ctx, cctx)
	if err != nil {
		return err
	}
	transcriber, closeTranscriber, err := buildTranscriber(ctx, cctx, paths)
	if err != nil {
		return err
	}
	defer closeTranscriber()
	aligner := timeline.NewAligner(transcriber, asrOptions(cctx))

	scripts, err := collectScripts(generateScript)
	if err != nil {
		return err
	}

	var (
		results  []*timeline.Timeline
		failures int
	)
	for _, path := range scripts {
		sc, err := script.Load(path)
		if err != nil {
			slog.Warn("skipping unreadable script", "script", path, "error", err)
			failures++
			continue
		}

		run := generateRun
		if run == "" {
			run = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		audioCache := buildAudioCache(ctx, cctx, paths, run)
		pipeline := reel.NewPipeline(buildScheduler(registry, voices, audioCache, cctx), aligner)

		workDir := paths.WorkPath(run + "-" + uuid.New().String()[:8])
		tl, err := pipeline.Run(ctx, reel.Request{
			Script:       sc,
			Mode:         mode,
			WorkDir:      workDir,
			AudioPath:    filepath.Join(generateOut, run+".wav"),
			CaptionsPath: filepath.Join(generateOut, run+".captions.json"),
		})
		if err != nil {
			if len(scripts) == 1 {
				return err
			}
			slog.Error("reel failed", "script", path, "error", err)
			failures++
			continue
		}
		os.RemoveAll(workDir)
		results = append(results, tl)

		if !outputJSON && outputFile == "" {
			fmt.Fprintln(os.Stderr, cli.RenderSummary(run, tl, cli.NewStyles(cli.DefaultTheme)))
		}
	}

	if len(results) == 0 {
		return fmt.Errorf("no reels generated (%d failed)", failures)
	}
	if outputJSON || outputFile != "" || jqQuery != "" {
		if len(results) == 1 {
			return output(results[0])
		}
		return output(results)
	}
	if failures > 0 {
		cli.PrintWarning("%d of %d scripts failed", failures, len(scripts))
	}
	return nil
}

// collectScripts expands a file-or-directory argument into script paths.
func collectScripts(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	matches, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no *.json scripts in %s", path)
	}
	return matches, nil
}
