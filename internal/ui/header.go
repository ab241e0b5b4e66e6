package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one "Key: value" line in a header.
type Param struct {
	Key   string
	Value string
}

// Header is the banner printed before a command's output.
type Header struct {
	Title   string  // e.g., "Device Discovery"
	Command string  // e.g., "roku-remote discover"
	Params  []Param // shown in order
	Width   int
}

// NewHeader creates a header sized to the terminal
func NewHeader(title, command string, params ...Param) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	title := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	command := HeaderCommandStyle.Render(h.Command)
	sections := []string{title, command}

	if len(h.Params) > 0 {
		keyWidth := 0
		for _, p := range h.Params {
			if n := lipgloss.Width(p.Key); n > keyWidth {
				keyWidth = n
			}
		}

		sections = append(sections, RenderHorizontalDivider(width-6, "─"))
		for _, p := range h.Params {
			key := HeaderParamKeyStyle.Render(p.Key + ":" + strings.Repeat(" ", keyWidth-lipgloss.Width(p.Key)))
			sections = append(sections, key+" "+HeaderParamValueStyle.Render(p.Value))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
