package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/rokuremote/internal/remote"
	"github.com/muurk/rokuremote/internal/settings"
	"github.com/muurk/rokuremote/internal/version"
)

// Application branding constants
const (
	AppName = "ROKU REMOTE"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants
const (
	MinWidth  = 24 // Narrowest usable window
	MinHeight = 10 // Lowest usable window

	// Lines drawn above the grid (menu bar, status line) and below it (help).
	headerLines = 2
	footerLines = 1
)

// Fixed UI colors. The button grid takes its colors from the settings
// palette instead.
var (
	SubtleColor  = lipgloss.Color("#626262") // Gray
	SuccessColor = lipgloss.Color("#43BF6D") // Green
	WarningColor = lipgloss.Color("#FFA500") // Orange
	ErrorColor   = lipgloss.Color("#FF5F5F") // Red
)

// Styles is the set of styles derived from a settings palette.
type Styles struct {
	Menu      lipgloss.Style
	MenuKey   lipgloss.Style
	Status    lipgloss.Style
	StatusOK  lipgloss.Style
	StatusErr lipgloss.Style
	Help      lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Selected  lipgloss.Style
	Spinner   lipgloss.Style
	Panel     lipgloss.Style

	buttons map[remote.Style]lipgloss.Style
	flash   lipgloss.Style
	entry   lipgloss.Style
	focused lipgloss.Style
}

// NewStyles builds the styles for palette c.
func NewStyles(c settings.Colors) Styles {
	text := lipgloss.Color(c.Text)
	light := lipgloss.Color(c.Light)
	dark := lipgloss.Color(c.Dark)

	button := lipgloss.NewStyle().
		Foreground(text).
		Bold(true).
		Align(lipgloss.Center, lipgloss.Center)

	return Styles{
		Menu:      lipgloss.NewStyle().Foreground(text).Background(dark),
		MenuKey:   lipgloss.NewStyle().Foreground(text).Background(dark).Bold(true).Underline(true),
		Status:    lipgloss.NewStyle().Foreground(SubtleColor),
		StatusOK:  lipgloss.NewStyle().Foreground(SuccessColor),
		StatusErr: lipgloss.NewStyle().Foreground(ErrorColor).Bold(true),
		Help:      lipgloss.NewStyle().Foreground(SubtleColor),
		Title:     lipgloss.NewStyle().Foreground(light).Bold(true),
		Subtitle:  lipgloss.NewStyle().Foreground(SubtleColor).Italic(true),
		Selected:  lipgloss.NewStyle().Foreground(SuccessColor).Bold(true),
		Spinner:   lipgloss.NewStyle().Foreground(light),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(light).
			Padding(0, 1),

		buttons: map[remote.Style]lipgloss.Style{
			remote.StyleDark:  button.Background(dark),
			remote.StyleLight: button.Background(light),
			remote.StylePower: button.Background(lipgloss.Color(c.Power)),
			remote.StyleApp:   button.Background(lipgloss.Color(c.App)),
		},
		flash:   button.Foreground(dark).Background(text),
		entry:   lipgloss.NewStyle().Foreground(text).Background(dark).Align(lipgloss.Left, lipgloss.Center),
		focused: lipgloss.NewStyle().Foreground(dark).Background(text).Align(lipgloss.Left, lipgloss.Center),
	}
}

// Button returns the style for a grid button. A flashing button is drawn
// inverted.
func (s Styles) Button(style remote.Style, flashing bool) lipgloss.Style {
	if flashing {
		return s.flash
	}
	if st, ok := s.buttons[style]; ok {
		return st
	}
	return s.buttons[remote.StyleDark]
}

// Entry returns the style of the text entry cell.
func (s Styles) Entry(focused bool) lipgloss.Style {
	if focused {
		return s.focused
	}
	return s.entry
}
