package textsync

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		prev string
		next string
		want []Edit
	}{
		{
			name: "append one character",
			prev: "abc",
			next: "abcd",
			want: []Edit{{Kind: Literal, Text: "d"}},
		},
		{
			name: "delete two characters",
			prev: "abcd",
			next: "ab",
			want: []Edit{{Kind: Backspace, Count: 2}},
		},
		{
			name: "unchanged",
			prev: "abc",
			next: "abc",
			want: nil,
		},
		{
			name: "from empty paste",
			prev: "",
			next: "star wars",
			want: []Edit{{Kind: Literal, Text: "star wars"}},
		},
		{
			name: "clear",
			prev: "plex",
			next: "",
			want: []Edit{{Kind: Backspace, Count: 4}},
		},
		{
			name: "mid-string edit",
			prev: "abXd",
			next: "abYd",
			want: []Edit{{Kind: Backspace, Count: 2}, {Kind: Literal, Text: "Yd"}},
		},
		{
			name: "paste over tail",
			prev: "the office",
			next: "the expanse",
			want: []Edit{{Kind: Backspace, Count: 6}, {Kind: Literal, Text: "expanse"}},
		},
		{
			name: "multibyte runes count once",
			prev: "café",
			next: "caf",
			want: []Edit{{Kind: Backspace, Count: 1}},
		},
		{
			name: "multibyte replacement",
			prev: "naïve",
			next: "naive",
			want: []Edit{{Kind: Backspace, Count: 3}, {Kind: Literal, Text: "ive"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.prev, tt.next)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff(%q, %q) = %+v, want %+v", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

// apply replays edits the way the device keyboard would.
func apply(text string, edits []Edit) string {
	r := []rune(text)
	for _, e := range edits {
		switch e.Kind {
		case Backspace:
			if e.Count > len(r) {
				e.Count = len(r)
			}
			r = r[:len(r)-e.Count]
		case Literal:
			r = append(r, []rune(e.Text)...)
		}
	}
	return string(r)
}

func TestTracker_Typing(t *testing.T) {
	tr := NewTracker()

	var literals, backspaces int
	for _, step := range []string{"a", "ab", "abc", "abcd", "abc", "ab"} {
		for _, e := range tr.Update(step) {
			switch e.Kind {
			case Literal:
				literals += len([]rune(e.Text))
			case Backspace:
				backspaces += e.Count
			}
		}
	}

	if literals != 4 || backspaces != 2 {
		t.Errorf("literals = %d, backspaces = %d, want 4 and 2", literals, backspaces)
	}
	if tr.Text() != "ab" || tr.Len() != 2 {
		t.Errorf("Text() = %q, Len() = %d", tr.Text(), tr.Len())
	}
}

func TestTracker_ConvergesOnDevice(t *testing.T) {
	tr := NewTracker()
	device := ""

	for _, step := range []string{"brea", "breaking", "breaking bad", "broken", "", "ünïcode"} {
		device = apply(device, tr.Update(step))
		if device != step {
			t.Fatalf("device shows %q after update to %q", device, step)
		}
	}
}

func TestTracker_ResetEmitsNothing(t *testing.T) {
	tr := NewTracker()
	tr.Update("hello")
	tr.Reset("")

	if tr.Text() != "" {
		t.Errorf("Text() = %q after Reset", tr.Text())
	}
	edits := tr.Update("h")
	if len(edits) != 1 || edits[0].Kind != Literal || edits[0].Text != "h" {
		t.Errorf("Update after Reset = %+v, want literal h", edits)
	}
}

func TestEditKindString(t *testing.T) {
	if Backspace.String() != "backspace" || Literal.String() != "literal" || EditKind(9).String() != "unknown" {
		t.Error("unexpected EditKind strings")
	}
}
