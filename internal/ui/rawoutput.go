package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RawOutput is a box showing a device response verbatim, for --raw output.
type RawOutput struct {
	Title    string
	Content  string
	Width    int
	MaxLines int // 0 = unlimited
}

// NewRawOutput creates a raw output box
func NewRawOutput(title, content string) *RawOutput {
	return &RawOutput{
		Title:   title,
		Content: content,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (o *RawOutput) SetWidth(width int) *RawOutput {
	o.Width = width
	return o
}

// SetMaxLines limits the number of lines displayed
func (o *RawOutput) SetMaxLines(max int) *RawOutput {
	o.MaxLines = max
	return o
}

// Render returns the styled box. Truncated output ends with a line
// saying how many lines were dropped.
func (o *RawOutput) Render() string {
	lines := strings.Split(strings.TrimRight(o.Content, "\n"), "\n")
	if o.MaxLines > 0 && len(lines) > o.MaxLines {
		dropped := len(lines) - o.MaxLines
		lines = append(lines[:o.MaxLines], StepNoteStyle.Render("... "+strconv.Itoa(dropped)+" more lines"))
	}

	body := RawOutputTitleStyle.Render(o.Title) + "\n" + strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(clampWidth(o.Width)-4).
		Padding(0, 1).
		Render(body)
}

// String implements fmt.Stringer
func (o *RawOutput) String() string {
	return o.Render()
}
