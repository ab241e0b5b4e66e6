package settings

import (
	"fmt"
	"strings"
)

// Default window size in terminal cells. Large enough for the 6x4 button
// grid with readable labels plus the menu, status and help lines.
const (
	DefaultWidth  = 72
	DefaultHeight = 26
	DefaultFont   = "Roboto"
)

// Settings is the persisted window and device configuration.
type Settings struct {
	Font   string      `yaml:"font"`
	Colors Colors      `yaml:"colors"`
	Width  int         `yaml:"win_w"`
	Height int         `yaml:"win_h"`
	X      *int        `yaml:"win_x,omitempty"`
	Y      *int        `yaml:"win_y,omitempty"`
	Device string      `yaml:"device,omitempty"` // Last used device address
	Apps   []AppButton `yaml:"apps"`             // App launch buttons, top to bottom; empty means none
}

// Colors is the five-color palette used by the button grid.
type Colors struct {
	Text  string `yaml:"text"`  // Label foreground
	Light string `yaml:"light"` // Navigation buttons
	Dark  string `yaml:"dark"`  // Everything else
	Power string `yaml:"power"` // Power button
	App   string `yaml:"app"`   // App launch buttons
}

// AppButton configures one app launch button. Match is compared
// case-insensitively against the names of the apps installed on the device.
type AppButton struct {
	Label string `yaml:"label"`
	Match string `yaml:"match"`
}

// Defaults returns the settings used when no settings file exists.
func Defaults() *Settings {
	return &Settings{
		Font: DefaultFont,
		Colors: Colors{
			Text:  "#ebe2f3",
			Light: "#5a3382",
			Dark:  "#352552",
			Power: "#ba2323",
			App:   "#2c345c",
		},
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Apps:   DefaultApps(),
	}
}

// DefaultApps returns the stock app launch buttons.
func DefaultApps() []AppButton {
	return []AppButton{
		{Label: "PC", Match: "computer"},
		{Label: "PLEX", Match: "plex"},
		{Label: "PS4", Match: "playstation"},
	}
}

// HasPosition reports whether a saved window position is available.
// Both coordinates must be present.
func (s *Settings) HasPosition() bool {
	return s.X != nil && s.Y != nil
}

// Geometry returns the window geometry as "WxH", or "WxH+X+Y" when a
// position was saved.
func (s *Settings) Geometry() string {
	if s.HasPosition() {
		return fmt.Sprintf("%dx%d+%d+%d", s.Width, s.Height, *s.X, *s.Y)
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// SetSize records the window size observed at shutdown.
func (s *Settings) SetSize(width, height int) {
	if width > 0 {
		s.Width = width
	}
	if height > 0 {
		s.Height = height
	}
}

// SetPosition records a window position.
func (s *Settings) SetPosition(x, y int) {
	s.X = &x
	s.Y = &y
}

// ClearPosition forgets the saved window position.
func (s *Settings) ClearPosition() {
	s.X = nil
	s.Y = nil
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := *s
	if s.X != nil {
		x := *s.X
		c.X = &x
	}
	if s.Y != nil {
		y := *s.Y
		c.Y = &y
	}
	if s.Apps != nil {
		c.Apps = make([]AppButton, len(s.Apps))
		copy(c.Apps, s.Apps)
	}
	return &c
}

// applyDefaults fills fields left empty by a hand-edited or older file.
func (s *Settings) applyDefaults() {
	d := Defaults()
	if s.Font == "" {
		s.Font = d.Font
	}
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	s.Colors.fill(d.Colors)
	// An absent key gets the default buttons; "apps: []" keeps none.
	if s.Apps == nil {
		s.Apps = d.Apps
	}
}

func (c *Colors) fill(d Colors) {
	set := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	set(&c.Text, d.Text)
	set(&c.Light, d.Light)
	set(&c.Dark, d.Dark)
	set(&c.Power, d.Power)
	set(&c.App, d.App)
}
