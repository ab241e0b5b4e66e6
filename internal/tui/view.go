package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/rokuremote/internal/remote"
)

// renderMenu draws the menu bar across the full width.
func (m Model) renderMenu() string {
	var items []string
	for _, b := range m.keys.menuEntries() {
		h := b.Help()
		items = append(items, m.styles.MenuKey.Render(h.Key)+m.styles.Menu.Render(" "+h.Desc))
	}
	bar := m.styles.Menu.Render(" ") + strings.Join(items, m.styles.Menu.Render("   "))

	width := m.gridFrame().Width
	if pad := width - lipgloss.Width(bar); pad > 0 {
		bar += m.styles.Menu.Render(strings.Repeat(" ", pad))
	}
	return bar
}

// renderStatus draws the device and last-command line.
func (m Model) renderStatus() string {
	var dev string
	if m.deviceName == "" {
		dev = m.styles.Status.Render("○ no device (^D to add)")
	} else {
		dev = m.styles.StatusOK.Render("● " + m.deviceName)
	}

	line := " " + dev
	if m.binder.EntryFocused() {
		line += m.styles.Status.Render("  [typing]")
	} else if !m.binder.Bound() {
		line += m.styles.Status.Render("  [keys off]")
	}

	if m.status != "" {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.StatusErr
		}
		line += "  " + style.Render(m.status)
	}
	return lipgloss.NewStyle().MaxWidth(m.gridFrame().Width).Render(line)
}

// renderGrid draws the buttons. Spanning buttons are rendered once as a
// block and sliced into the grid rows they cover.
func (m Model) renderGrid() string {
	f := m.gridFrame()
	cw, ch := f.CellSize()

	blocks := make(map[int][]string, len(m.layout.Buttons))
	block := func(i int) []string {
		if lines, ok := blocks[i]; ok {
			return lines
		}
		b := m.layout.Buttons[i]
		lines := m.renderButton(i, b, b.ColSpan*cw, b.RowSpan*ch)
		blocks[i] = lines
		return lines
	}

	rows := make([]string, 0, remote.GridRows*ch)
	for r := 0; r < remote.GridRows; r++ {
		lines := make([]string, ch)
		for c := 0; c < remote.GridCols; {
			i := m.buttonIndex(r, c)
			if i < 0 {
				for l := range lines {
					lines[l] += strings.Repeat(" ", cw)
				}
				c++
				continue
			}

			b := m.layout.Buttons[i]
			part := block(i)
			offset := (r - b.Row) * ch
			for l := range lines {
				lines[l] += part[offset+l]
			}
			c = b.Col + b.ColSpan
		}
		rows = append(rows, lines...)
	}
	return strings.Join(rows, "\n")
}

func (m Model) buttonIndex(row, col int) int {
	for i, b := range m.layout.Buttons {
		if b.Covers(row, col) {
			return i
		}
	}
	return -1
}

// renderButton returns exactly h lines of width w. A one-cell gap is kept
// on the right and bottom when the cell is large enough.
func (m Model) renderButton(i int, b remote.Button, w, h int) []string {
	innerW, innerH := w, h
	if innerW > 3 {
		innerW--
	}
	if innerH > 2 {
		innerH--
	}

	var rendered string
	if b.IsEntry() {
		rendered = m.styles.Entry(m.binder.EntryFocused()).
			Width(innerW).Height(innerH).
			MaxWidth(innerW).MaxHeight(innerH).
			Render(" " + m.entry.View())
	} else {
		rendered = m.styles.Button(b.Style, i == m.flash).
			Width(innerW).Height(innerH).
			MaxWidth(innerW).MaxHeight(innerH).
			Render(b.Label)
	}

	src := strings.Split(rendered, "\n")
	out := make([]string, h)
	for l := range out {
		if l < innerH && l < len(src) {
			line := src[l]
			if pad := w - lipgloss.Width(line); pad > 0 {
				line += strings.Repeat(" ", pad)
			}
			out[l] = line
			continue
		}
		out[l] = strings.Repeat(" ", w)
	}
	return out
}
