package remote

import (
	"testing"

	"github.com/muurk/rokuremote/internal/settings"
)

func TestNewLayout_CoversEveryCell(t *testing.T) {
	l := NewLayout(settings.DefaultApps())

	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			n := 0
			for _, b := range l.Buttons {
				if b.Covers(row, col) {
					n++
				}
			}
			if n != 1 {
				t.Errorf("cell (%d,%d) covered by %d buttons, want 1", row, col, n)
			}
		}
	}
}

func TestNewLayout_Spans(t *testing.T) {
	l := NewLayout(settings.DefaultApps())

	for _, cell := range [][2]int{{0, 0}, {1, 0}} {
		b, ok := l.ButtonAt(cell[0], cell[1])
		if !ok || b.Command.Action != ActionPower {
			t.Errorf("ButtonAt(%d,%d) = %+v, want power", cell[0], cell[1], b)
		}
	}
	for _, cell := range [][2]int{{5, 1}, {5, 2}} {
		b, ok := l.ButtonAt(cell[0], cell[1])
		if !ok || !b.IsEntry() {
			t.Errorf("ButtonAt(%d,%d) = %+v, want entry", cell[0], cell[1], b)
		}
	}
}

func TestNewLayout_Apps(t *testing.T) {
	l := NewLayout(settings.DefaultApps())

	want := []struct {
		row   int
		label string
		match string
	}{
		{2, "PC", "computer"},
		{3, "PLEX", "plex"},
		{4, "PS4", "playstation"},
	}
	for _, w := range want {
		b, ok := l.ButtonAt(w.row, 0)
		if !ok || b.Label != w.label || b.Command != Launch(w.match) || b.Style != StyleApp {
			t.Errorf("row %d = %+v, want %s/%s", w.row, b, w.label, w.match)
		}
	}

	short := NewLayout([]settings.AppButton{{Label: "YT", Match: "youtube"}})
	if _, ok := short.ButtonAt(3, 0); ok {
		t.Error("unconfigured app slot should be empty")
	}
}

func TestCellAt(t *testing.T) {
	l := NewLayout(settings.DefaultApps())
	f := Frame{Width: 40, Height: 18} // 10x3 cells

	tests := []struct {
		name   string
		x, y   int
		want   Action
		entry  bool
		wantOK bool
	}{
		{name: "power top", x: 0, y: 0, want: ActionPower, wantOK: true},
		{name: "power bottom half", x: 9, y: 5, want: ActionPower, wantOK: true},
		{name: "back", x: 10, y: 0, want: ActionBack, wantOK: true},
		{name: "ok", x: 25, y: 4, want: ActionSelect, wantOK: true},
		{name: "vol+", x: 39, y: 12, want: ActionVolumeUp, wantOK: true},
		{name: "entry left half", x: 12, y: 16, entry: true, wantOK: true},
		{name: "entry right half", x: 29, y: 17, entry: true, wantOK: true},
		{name: "del", x: 30, y: 15, want: ActionBackspace, wantOK: true},
		{name: "right of grid", x: 40, y: 0},
		{name: "below grid", x: 0, y: 18},
		{name: "negative", x: -1, y: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := l.CellAt(f, tt.x, tt.y)
			if ok != tt.wantOK {
				t.Fatalf("CellAt(%d,%d) ok = %v, want %v", tt.x, tt.y, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if b.IsEntry() != tt.entry {
				t.Errorf("IsEntry() = %v, want %v", b.IsEntry(), tt.entry)
			}
			if !tt.entry && b.Command.Action != tt.want {
				t.Errorf("CellAt(%d,%d) = %s, want %s", tt.x, tt.y, b.Command.Action, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	l := NewLayout(settings.DefaultApps())
	f := Frame{Width: 40, Height: 18}

	x, y, w, h := l.Bounds(f, l.Entry())
	if x != 10 || y != 15 || w != 20 || h != 3 {
		t.Errorf("entry bounds = %d,%d %dx%d, want 10,15 20x3", x, y, w, h)
	}

	power, _ := l.Find(Key(ActionPower))
	_, _, w, h = l.Bounds(f, power)
	if w != 10 || h != 6 {
		t.Errorf("power size = %dx%d, want 10x6", w, h)
	}
}

func TestIndexAndFind(t *testing.T) {
	l := NewLayout(settings.DefaultApps())

	tests := []struct {
		name  string
		cmd   Command
		label string
	}{
		{name: "key", cmd: Key(ActionMute), label: "MUTE"},
		{name: "app launch", cmd: Launch("plex"), label: "PLEX"},
		{name: "not on the grid", cmd: Key(ActionEnter)},
		{name: "entry is never matched", cmd: Command{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := l.Index(tt.cmd)
			b, ok := l.Find(tt.cmd)

			if tt.label == "" {
				if i != -1 || ok {
					t.Errorf("Index() = %d, Find() ok = %v, want no match", i, ok)
				}
				return
			}
			if i < 0 || l.Buttons[i].Label != tt.label {
				t.Fatalf("Index() = %d, want the %s button", i, tt.label)
			}
			if !ok || b != l.Buttons[i] {
				t.Errorf("Find() = %+v, %v, want Buttons[%d]", b, ok, i)
			}
		})
	}
}

func TestFrameCellSizeMinimum(t *testing.T) {
	w, h := Frame{}.CellSize()
	if w != 1 || h != 1 {
		t.Errorf("CellSize() = %dx%d, want 1x1", w, h)
	}
}
