package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ReplyLabel heads every assistant bubble
const ReplyLabel = "✦ Assistant"

// minBodyWidth keeps glamour from wrapping every word onto its own line
const minBodyWidth = 10

// Markdown renders content wrapped to width columns, without trailing newlines
func Markdown(content string, opts Options, width int) (string, error) {
	if width < minBodyWidth {
		width = minBodyWidth
	}
	key := rendererKey{opts: opts, wrap: width}

	renderer, err := renderers.borrow(key)
	if err != nil {
		return "", err
	}
	defer renderers.giveBack(key, renderer)

	out, err := renderer.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// Bubble frames an already rendered body as a labelled assistant reply that is
// width columns wide, border included
func Bubble(body, theme string, width int) string {
	palette, ok := GetTUIThemeByName(theme)
	if !ok {
		palette = LightTheme
	}

	label := lipgloss.NewStyle().
		Foreground(palette.Primary).
		Bold(true).
		Render(ReplyLabel)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(palette.AssistantBubble).
		Foreground(palette.Text).
		Padding(0, 1).
		Width(width - 2).
		Render(body)

	return label + "\n" + box
}

// Reply renders markdown content inside an assistant bubble width columns wide.
// Content glamour cannot render is shown as plain text.
func Reply(content string, opts Options, width int) string {
	body, err := Markdown(content, opts, width-4)
	if err != nil {
		body = content
	}
	return Bubble(body, opts.Theme, width)
}
