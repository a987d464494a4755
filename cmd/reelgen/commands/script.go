package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reelgen/reelgen/pkg/cli"
	"github.com/reelgen/reelgen/pkg/script"
)

var (
	scriptTopic      string
	scriptPromptFile string
	scriptRoleA      string
	scriptRoleB      string
	scriptLanguage   string
	scriptModel      string
	scriptOut        string
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Work with conversation scripts",
}

var scriptWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Draft a conversation script with Gemini",
	Long: `Draft a two-speaker conversation script about a topic.

The model output is constrained to the script JSON shape; near-JSON
output is repaired before validation. The result lands in the contents
directory (or --out) ready for 'reelgen generate'.

Examples:
  reelgen script write --topic "two cats discuss quantum physics"
  reelgen script write --topic "tax season" --roles "accountant,client" --language de`,
	RunE: runScriptWrite,
}

var scriptCheckCmd = &cobra.Command{
	Use:   "check <script.json>",
	Short: "Validate a script file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := script.Load(args[0])
		if err != nil {
			return err
		}
		cli.PrintSuccess("%s: %d turns, language %q", args[0], len(sc.Conversation), sc.Language())
		return nil
	},
}

func init() {
	scriptWriteCmd.Flags().StringVar(&scriptTopic, "topic", "", "subject of the conversation (required)")
	scriptWriteCmd.Flags().StringVar(&scriptPromptFile, "prompt-file", "", "custom system prompt template file")
	scriptWriteCmd.Flags().StringVar(&scriptRoleA, "role-a", "host", "first speaker role")
	scriptWriteCmd.Flags().StringVar(&scriptRoleB, "role-b", "guest", "second speaker role")
	scriptWriteCmd.Flags().StringVar(&scriptLanguage, "language", "", "target language code (default en)")
	scriptWriteCmd.Flags().StringVar(&scriptModel, "model", "", "writer model (default "+script.DefaultWriterModel+")")
	scriptWriteCmd.Flags().StringVar(&scriptOut, "out", "", "output file (default: contents dir, slug of topic)")
	scriptWriteCmd.MarkFlagRequired("topic")

	scriptCmd.AddCommand(scriptWriteCmd)
	scriptCmd.AddCommand(scriptCheckCmd)
}

func runScriptWrite(cmd *cobra.Command, args []string) error {
	cctx, err := getContext()
	if err != nil {
		return err
	}

	client, err := newGeminiClient(cmd.Context(), cctx)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("script writing needs a Gemini API key (context or GEMINI_API_KEY)")
	}

	req := script.WriteRequest{
		Topic:    scriptTopic,
		RoleA:    scriptRoleA,
		RoleB:    scriptRoleB,
		Language: scriptLanguage,
	}
	if scriptPromptFile != "" {
		prompt, err := os.ReadFile(scriptPromptFile)
		if err != nil {
			return err
		}
		req.Prompt = string(prompt)
	}

	sc, err := script.NewWriter(client, scriptModel).Write(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := scriptOut
	if out == "" {
		paths, err := cli.NewPaths()
		if err != nil {
			return err
		}
		if err := paths.EnsureContentsDir(); err != nil {
			return err
		}
		out = paths.ContentsPath(slugify(scriptTopic) + ".json")
	}

	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	cli.PrintSuccess("Script written: %s (%d turns)", out, len(sc.Conversation))
	return nil
}

// slugify turns a topic into a filesystem-friendly file stem.
func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > 48 {
		out = out[:48]
	}
	if out == "" {
		out = "script"
	}
	return filepath.Clean(out)
}
