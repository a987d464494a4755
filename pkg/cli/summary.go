package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reelgen/reelgen/pkg/timeline"
)

// Theme defines the color scheme for styled terminal output.
type Theme struct {
	Primary lipgloss.Color // main accent color
	Dim     lipgloss.Color // dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:  lipgloss.NewStyle().Foreground(t.Dim),
		Value:  lipgloss.NewStyle().Foreground(t.Primary),
		Border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(0, 1),
	}
}

// RenderSummary renders a finished reel as a styled box: duration, word
// count, speaker turns, and where the outputs landed.
func RenderSummary(title string, tl *timeline.Timeline, styles Styles) string {
	roles := timeline.Roles(tl.Words)

	rows := []struct {
		label string
		value string
	}{
		{"duration", FormatSeconds(tl.Duration)},
		{"words", fmt.Sprintf("%d", len(tl.Words))},
		{"speaker turns", fmt.Sprintf("%d (%s)", len(roles), strings.Join(dedupe(roles), ", "))},
		{"audio", tl.AudioPath},
	}

	width := 0
	for _, r := range rows {
		if len(r.label) > width {
			width = len(r.label)
		}
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(styles.Label.Render(fmt.Sprintf("%-*s  ", width, r.label)))
		b.WriteString(styles.Value.Render(r.value))
	}
	return styles.Border.Render(b.String())
}

// dedupe collapses a role sequence to its distinct names, first
// appearance order.
func dedupe(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	var out []string
	for _, r := range roles {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
