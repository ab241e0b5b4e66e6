package remote

import "github.com/muurk/rokuremote/internal/settings"

// Style selects the palette color a button is drawn with.
type Style int

const (
	StyleDark Style = iota
	StyleLight
	StylePower
	StyleApp
	StyleEntry
)

// Grid dimensions of the remote.
const (
	GridRows = 6
	GridCols = 4
)

// Button is one cell (or merged block of cells) of the grid.
type Button struct {
	Label   string
	Style   Style
	Command Command
	Row     int
	Col     int
	RowSpan int
	ColSpan int
}

// IsEntry reports whether the button is the text entry field.
func (b Button) IsEntry() bool {
	return b.Style == StyleEntry
}

// Covers reports whether the button occupies grid cell (row, col).
func (b Button) Covers(row, col int) bool {
	return row >= b.Row && row < b.Row+b.RowSpan &&
		col >= b.Col && col < b.Col+b.ColSpan
}

// Layout is the fixed button grid.
//
//	      0       1        2        3
//	0  [power]  back     up       home
//	1  [power]  left     OK       right
//	2   app1    replay   down     options
//	3   app2    rewind   play     fast-fwd
//	4   app3    MUTE     VOL-     VOL+
//	5   search  [  entry      ]   DEL
type Layout struct {
	Buttons []Button
}

// Frame is the area, in terminal cells, the grid is drawn into.
type Frame struct {
	Width  int
	Height int
}

// CellSize returns the width and height of one grid cell. Cells are at
// least one character in each direction.
func (f Frame) CellSize() (w, h int) {
	w = f.Width / GridCols
	h = f.Height / GridRows
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func btn(label string, style Style, a Action, row, col int) Button {
	return Button{Label: label, Style: style, Command: Key(a), Row: row, Col: col, RowSpan: 1, ColSpan: 1}
}

// NewLayout builds the grid. The first three entries of apps fill the
// app-launch column; missing entries leave the cell blank.
func NewLayout(apps []settings.AppButton) *Layout {
	buttons := []Button{
		{Label: "⏻", Style: StylePower, Command: Key(ActionPower), Row: 0, Col: 0, RowSpan: 2, ColSpan: 1},
		btn("⭠", StyleDark, ActionBack, 0, 1),
		btn("⮝", StyleLight, ActionUp, 0, 2),
		btn("⌂", StyleDark, ActionHome, 0, 3),

		btn("⮜", StyleLight, ActionLeft, 1, 1),
		btn("OK", StyleLight, ActionSelect, 1, 2),
		btn("⮞", StyleLight, ActionRight, 1, 3),

		btn("⟲", StyleDark, ActionReplay, 2, 1),
		btn("⮟", StyleLight, ActionDown, 2, 2),
		btn("✼", StyleDark, ActionInfo, 2, 3),

		btn("⏪", StyleDark, ActionReverse, 3, 1),
		btn("▶❘❘", StyleDark, ActionPlay, 3, 2),
		btn("⏩", StyleDark, ActionForward, 3, 3),

		btn("MUTE", StyleDark, ActionMute, 4, 1),
		btn("VOL-", StyleDark, ActionVolumeDown, 4, 2),
		btn("VOL+", StyleDark, ActionVolumeUp, 4, 3),

		btn("⌕", StyleDark, ActionSearch, 5, 0),
		{Style: StyleEntry, Row: 5, Col: 1, RowSpan: 1, ColSpan: 2},
		btn("DEL", StyleDark, ActionBackspace, 5, 3),
	}

	for i := 0; i < 3 && i < len(apps); i++ {
		buttons = append(buttons, Button{
			Label:   apps[i].Label,
			Style:   StyleApp,
			Command: Launch(apps[i].Match),
			Row:     2 + i,
			Col:     0,
			RowSpan: 1,
			ColSpan: 1,
		})
	}

	return &Layout{Buttons: buttons}
}

// ButtonAt returns the button covering grid cell (row, col).
func (l *Layout) ButtonAt(row, col int) (Button, bool) {
	for _, b := range l.Buttons {
		if b.Covers(row, col) {
			return b, true
		}
	}
	return Button{}, false
}

// CellAt maps a position inside frame f to the button drawn there.
// Positions in the slack to the right of or below the grid hit nothing.
func (l *Layout) CellAt(f Frame, x, y int) (Button, bool) {
	if x < 0 || y < 0 {
		return Button{}, false
	}
	cw, ch := f.CellSize()
	col, row := x/cw, y/ch
	if col >= GridCols || row >= GridRows {
		return Button{}, false
	}
	return l.ButtonAt(row, col)
}

// Bounds returns the rectangle a button occupies inside frame f.
func (l *Layout) Bounds(f Frame, b Button) (x, y, w, h int) {
	cw, ch := f.CellSize()
	return b.Col * cw, b.Row * ch, b.ColSpan * cw, b.RowSpan * ch
}

// Index returns the position in Buttons of the first button that issues
// cmd, or -1 if none does.
func (l *Layout) Index(cmd Command) int {
	for i, b := range l.Buttons {
		if !b.IsEntry() && b.Command == cmd {
			return i
		}
	}
	return -1
}

// Find returns the first button that issues cmd.
func (l *Layout) Find(cmd Command) (Button, bool) {
	if i := l.Index(cmd); i >= 0 {
		return l.Buttons[i], true
	}
	return Button{}, false
}

// Entry returns the text entry cell.
func (l *Layout) Entry() Button {
	for _, b := range l.Buttons {
		if b.IsEntry() {
			return b
		}
	}
	return Button{}
}
