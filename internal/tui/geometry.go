package tui

import (
	"fmt"
	"io"

	"github.com/muurk/rokuremote/internal/settings"
)

// GeometrySequence returns the xterm window-manipulation sequences that
// restore a saved geometry: move to (x, y) in pixels when both are saved,
// then resize to the saved size in character cells.
func GeometrySequence(s *settings.Settings) string {
	seq := ""
	if s.HasPosition() {
		seq += fmt.Sprintf("\x1b[3;%d;%dt", *s.X, *s.Y)
	}
	if s.Width > 0 && s.Height > 0 {
		seq += fmt.Sprintf("\x1b[8;%d;%dt", s.Height, s.Width)
	}
	return seq
}

// ApplyGeometry writes GeometrySequence to w. Terminals that do not
// support the sequences ignore them.
func ApplyGeometry(w io.Writer, s *settings.Settings) error {
	seq := GeometrySequence(s)
	if seq == "" {
		return nil
	}
	_, err := io.WriteString(w, seq)
	return err
}
