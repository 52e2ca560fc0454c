package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the country browser.
type Theme struct {
	Header HeaderTheme
	List   ListTheme
	Panel  PanelTheme
	Footer FooterTheme
}

// HeaderTheme styles the greeting and the search line.
type HeaderTheme struct {
	Greeting lipgloss.Style
	Prompt   lipgloss.Style
	Query    lipgloss.Style
	Region   lipgloss.Style
}

// ListTheme styles country rows.
type ListTheme struct {
	Row      lipgloss.Style
	Selected lipgloss.Style
	Saved    lipgloss.Style
	Muted    lipgloss.Style
}

// PanelTheme styles the framed detail panel.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Label lipgloss.Style
	Body  lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	selected := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)

	return Theme{
		Header: HeaderTheme{
			Greeting: lipgloss.NewStyle().Bold(true),
			Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Query:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
			Region:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		},
		List: ListTheme{
			Row:      lipgloss.NewStyle(),
			Selected: selected,
			Saved:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Label: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Body:  lipgloss.NewStyle(),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}
