package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// palette holds the colors every style is derived from
type palette struct {
	category lipgloss.Color
	title    lipgloss.Color
	label    lipgloss.Color
	text     lipgloss.Color
	secret   lipgloss.Color
	url      lipgloss.Color
	muted    lipgloss.Color
	selected lipgloss.Color
	match    lipgloss.Color
	warn     lipgloss.Color
}

// Soft, low-contrast palette inspired by Tokyo Night
var darkPalette = palette{
	category: lipgloss.Color("#7aa2f7"), // Soft periwinkle
	title:    lipgloss.Color("#9ece6a"), // Soft sage green
	label:    lipgloss.Color("#bb9af7"), // Soft lavender
	text:     lipgloss.Color("#a9b1d6"), // Soft lavender gray
	secret:   lipgloss.Color("#f7768e"), // Soft coral red
	url:      lipgloss.Color("#7dcfff"), // Soft sky blue
	muted:    lipgloss.Color("#565f89"), // Soft gray-blue
	selected: lipgloss.Color("#292e42"), // Deep navy selection
	match:    lipgloss.Color("#3b4261"), // Muted slate
	warn:     lipgloss.Color("#e0af68"), // Warm amber
}

// Catppuccin Latte tones for light terminals
var lightPalette = palette{
	category: lipgloss.Color("#1e66f5"),
	title:    lipgloss.Color("#40a02b"),
	label:    lipgloss.Color("#8839ef"),
	text:     lipgloss.Color("#4c4f69"),
	secret:   lipgloss.Color("#d20f39"),
	url:      lipgloss.Color("#04a5e5"),
	muted:    lipgloss.Color("#8c8fa1"),
	selected: lipgloss.Color("#ccd0da"),
	match:    lipgloss.Color("#bcc0cc"),
	warn:     lipgloss.Color("#df8e1d"),
}

// Styles
var (
	appStyle       lipgloss.Style
	headerStyle    lipgloss.Style
	summaryStyle   lipgloss.Style
	categoryStyle  lipgloss.Style
	recordStyle    lipgloss.Style
	selectedStyle  lipgloss.Style
	labelStyle     lipgloss.Style
	valueStyle     lipgloss.Style
	urlStyle       lipgloss.Style
	secretStyle    lipgloss.Style
	mutedStyle     lipgloss.Style
	warnStyle      lipgloss.Style
	helpStyle      lipgloss.Style
	searchStyle    lipgloss.Style
	matchStyle     lipgloss.Style

	expandedIndicator  string
	collapsedIndicator string
)

func init() {
	applyPalette(darkPalette)
}

// SetLightPalette switches all styles to colors readable on light backgrounds
func SetLightPalette() {
	applyPalette(lightPalette)
}

// SetDarkPalette switches all styles back to the default dark palette
func SetDarkPalette() {
	applyPalette(darkPalette)
}

func applyPalette(p palette) {
	appStyle = lipgloss.NewStyle().
		Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.category)

	summaryStyle = lipgloss.NewStyle().
		Foreground(p.text)

	categoryStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.category)

	recordStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.title)

	selectedStyle = lipgloss.NewStyle().
		Bold(true).
		Background(p.selected).
		Foreground(p.title)

	labelStyle = lipgloss.NewStyle().
		Foreground(p.label)

	valueStyle = lipgloss.NewStyle().
		Foreground(p.text)

	urlStyle = lipgloss.NewStyle().
		Foreground(p.url).
		Underline(true)

	secretStyle = lipgloss.NewStyle().
		Foreground(p.secret)

	mutedStyle = lipgloss.NewStyle().
		Foreground(p.muted)

	warnStyle = lipgloss.NewStyle().
		Foreground(p.warn).
		Italic(true)

	helpStyle = lipgloss.NewStyle().
		Foreground(p.muted).
		MarginTop(1)

	searchStyle = lipgloss.NewStyle().
		Foreground(p.category).
		Bold(true)

	matchStyle = lipgloss.NewStyle().
		Background(p.match).
		Foreground(p.title).
		Bold(true)

	expandedIndicator = mutedStyle.Render("▼")
	collapsedIndicator = mutedStyle.Render("▶")
}
