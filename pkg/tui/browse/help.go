package browse

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

//go:embed help.md
var helpMarkdown string

// renderHelp renders the key reference as plain text wrapped to width.
func renderHelp(width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithColorProfile(termenv.Ascii),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return "help unavailable: " + err.Error()
	}
	out, err := renderer.Render(strings.TrimSpace(helpMarkdown))
	if err != nil {
		return "help unavailable: " + err.Error()
	}
	return strings.Trim(out, "\n")
}
