package commands

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/reelgen/reelgen/pkg/tts"
	"github.com/reelgen/reelgen/pkg/voice"
)

var voicesFile string

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Inspect the role-to-voice mapping",
	Long: `Show which voice each provider uses for each role, and flag roles
that a provider cannot speak (missing voice id).

Examples:
  reelgen voices
  reelgen voices --voices characters.json --json -q '.[] | select(.gemini == null)'`,
	RunE: runVoices,
}

func init() {
	voicesCmd.Flags().StringVar(&voicesFile, "voices", "characters.json", "role-to-voice mapping file")
}

// voiceRow is one role's resolution across providers.
type voiceRow struct {
	Role   string `json:"role" yaml:"role"`
	Gemini string `json:"gemini,omitempty" yaml:"gemini,omitempty"`
	Eleven string `json:"elevenlabs,omitempty" yaml:"elevenlabs,omitempty"`
	Kokoro string `json:"kokoro,omitempty" yaml:"kokoro,omitempty"`
	Say    string `json:"say,omitempty" yaml:"say,omitempty"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

func runVoices(cmd *cobra.Command, args []string) error {
	table, err := voice.Load(voicesFile)
	if err != nil {
		return err
	}

	roles := make([]string, 0, len(table))
	for role := range table {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	rows := make([]voiceRow, 0, len(roles))
	for _, role := range roles {
		row := voiceRow{Role: role, Avatar: table[role].Avatar}
		if id, ok := table.Resolve(role, tts.ModeGemini); ok {
			row.Gemini = id
		}
		if id, ok := table.Resolve(role, tts.ModeEleven); ok {
			row.Eleven = id
		}
		if id, ok := table.Resolve(role, tts.ModeKokoro); ok {
			row.Kokoro = id
		}
		if id, ok := table.Resolve(role, tts.ModeSay); ok {
			row.Say = id
		}
		rows = append(rows, row)
	}
	return output(rows)
}
