// Package textsync mirrors a local text field onto the device's on-screen
// keyboard.
//
// The device has no "set text" call, only single-character literals and a
// backspace key, so every change to the field is turned into the shortest
// run of backspaces followed by literals that transforms the old text into
// the new one. Edits are computed against the longest common prefix:
//
//	"abc"  -> "abcd"  Literal "d"
//	"abcd" -> "ab"    Backspace x2
//	"abXd" -> "abYd"  Backspace x2, Literal "Yd"
package textsync

import "unicode/utf8"

// EditKind distinguishes the two operations the device keyboard supports.
type EditKind int

const (
	// Backspace deletes Count characters before the cursor.
	Backspace EditKind = iota
	// Literal types Text.
	Literal
)

// String implements fmt.Stringer
func (k EditKind) String() string {
	switch k {
	case Backspace:
		return "backspace"
	case Literal:
		return "literal"
	default:
		return "unknown"
	}
}

// Edit is one step towards the new text.
type Edit struct {
	Kind  EditKind
	Count int    // characters to delete, for Backspace
	Text  string // characters to type, for Literal
}

// Diff returns the edits that turn prev into next. Backspaces always come
// before literals. Equal strings produce no edits.
func Diff(prev, next string) []Edit {
	if prev == next {
		return nil
	}

	p := []rune(prev)
	n := []rune(next)

	common := 0
	for common < len(p) && common < len(n) && p[common] == n[common] {
		common++
	}

	var edits []Edit
	if del := len(p) - common; del > 0 {
		edits = append(edits, Edit{Kind: Backspace, Count: del})
	}
	if common < len(n) {
		edits = append(edits, Edit{Kind: Literal, Text: string(n[common:])})
	}
	return edits
}

// Tracker remembers what the device already shows.
type Tracker struct {
	prev string
}

// NewTracker returns a tracker for an empty field.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Text returns the text the device is believed to show.
func (t *Tracker) Text() string {
	return t.prev
}

// Update records next as the current text and returns the edits needed to
// get there from the previous one.
func (t *Tracker) Update(next string) []Edit {
	edits := Diff(t.prev, next)
	t.prev = next
	return edits
}

// Reset forgets the previous text without producing edits. Used when the
// field is cleared locally and the device keyboard is expected to be
// cleared by other means (or left alone).
func (t *Tracker) Reset(text string) {
	t.prev = text
}

// Len returns the number of characters the device is believed to show.
func (t *Tracker) Len() int {
	return utf8.RuneCountInString(t.prev)
}
