package display

import "github.com/charmbracelet/lipgloss"

// ── Styles ───────────────────────────────────────────────────────

// theme is the set of styles for one color scheme.
type theme struct {
	dark bool

	banner    lipgloss.Style
	header    lipgloss.Style
	title     lipgloss.Style
	primary   lipgloss.Style
	secondary lipgloss.Style
	accent    lipgloss.Style
	urgent    lipgloss.Style
	label     lipgloss.Style
	selected  lipgloss.Style
	card      lipgloss.Style
	button    lipgloss.Style
	footer    lipgloss.Style
}

type palette struct {
	fg, muted, accent, accentFg, urgent, border, barBg, barFg string
}

// Light mode uses the navy of government portals; dark mode the soft
// zinc and amber palette.
var (
	lightPalette = palette{
		fg: "#1f2937", muted: "#6b7280", accent: "#003366",
		accentFg: "#ffffff", urgent: "#dc2626", border: "#d1d5db",
		barBg: "#003366", barFg: "#f8fafc",
	}
	darkPalette = palette{
		fg: "#d4d4d8", muted: "#71717a", accent: "#f59e0b",
		accentFg: "#0f172a", urgent: "#fca5a5", border: "#52525b",
		barBg: "#27272a", barFg: "#a1a1aa",
	}
)

func newTheme(dark bool) theme {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return theme{
		dark:      dark,
		banner:    lipgloss.NewStyle().Foreground(c(p.accent)),
		header:    lipgloss.NewStyle().Background(c(p.barBg)).Foreground(c(p.barFg)).Padding(0, 1),
		title:     lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true),
		primary:   lipgloss.NewStyle().Foreground(c(p.fg)),
		secondary: lipgloss.NewStyle().Foreground(c(p.muted)),
		accent:    lipgloss.NewStyle().Foreground(c(p.accent)),
		urgent:    lipgloss.NewStyle().Foreground(c(p.urgent)).Bold(true),
		label:     lipgloss.NewStyle().Foreground(c(p.muted)).Bold(true),
		selected:  lipgloss.NewStyle().Background(c(p.accent)).Foreground(c(p.accentFg)).Bold(true),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(p.border)).
			Padding(0, 1),
		button: lipgloss.NewStyle().Background(c(p.accent)).Foreground(c(p.accentFg)).Padding(0, 2).Bold(true),
		footer: lipgloss.NewStyle().Foreground(c(p.muted)).Italic(true),
	}
}
