package commands

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reelgen/reelgen/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to manage multiple setups (personal keys, team cache,
local-only synthesis), similar to kubectl's context management.

Configuration is stored in ~/.reelgen/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

Example:
  reelgen config add-context personal --gemini-api-key YOUR_KEY
  reelgen config add-context team --gemini-api-key KEY --cache-root s3://reels/cache
  reelgen config add-context offline --provider say --whisper-backend cli`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		flags := cmd.Flags()

		provider, _ := flags.GetString("provider")
		geminiKey, _ := flags.GetString("gemini-api-key")
		elevenKey, _ := flags.GetString("eleven-api-key")
		kokoroURL, _ := flags.GetString("kokoro-base-url")
		cacheRoot, _ := flags.GetString("cache-root")
		whisperBackend, _ := flags.GetString("whisper-backend")
		whisperServer, _ := flags.GetString("whisper-server")
		whisperModel, _ := flags.GetString("whisper-model")

		ctx := &cli.Context{
			Provider:      provider,
			GeminiAPIKey:  geminiKey,
			ElevenAPIKey:  elevenKey,
			KokoroBaseURL: kokoroURL,
			CacheRoot:     cacheRoot,
		}
		if whisperBackend != "" || whisperServer != "" || whisperModel != "" {
			ctx.Whisper = &cli.WhisperConfig{
				Backend:   whisperBackend,
				ServerURL: whisperServer,
				Model:     whisperModel,
			}
		}

		cfg := getConfig()
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		names := cfg.ListContexts()
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tPROVIDER\tGEMINI KEY\tCACHE ROOT")
		for _, name := range names {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				current, name, ctx.Provider, cli.MaskAPIKey(ctx.GeminiAPIKey), ctx.CacheRoot)
		}
		return w.Flush()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a context (current if omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		ctx, err := getConfig().ResolveContext(name)
		if err != nil {
			return err
		}

		// Mask secrets before display.
		shown := *ctx
		shown.GeminiAPIKey = cli.MaskAPIKey(ctx.GeminiAPIKey)
		shown.ElevenAPIKey = cli.MaskAPIKey(ctx.ElevenAPIKey)
		return output(&shown)
	},
}

func init() {
	configAddContextCmd.Flags().String("provider", "", "default TTS provider (gemini, elevenlabs, kokoro, say)")
	configAddContextCmd.Flags().String("gemini-api-key", "", "Gemini API key")
	configAddContextCmd.Flags().String("eleven-api-key", "", "ElevenLabs API key")
	configAddContextCmd.Flags().String("kokoro-base-url", "", "Kokoro server base URL")
	configAddContextCmd.Flags().String("cache-root", "", "audio cache root (directory or s3://bucket/prefix)")
	configAddContextCmd.Flags().String("whisper-backend", "", "whisper backend (cli or server)")
	configAddContextCmd.Flags().String("whisper-server", "", "whisper server base URL")
	configAddContextCmd.Flags().String("whisper-model", "", "whisper model size")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configShowCmd)
}
