package remote

// FocusEvent is an input to the Binder.
type FocusEvent int

const (
	WindowFocusIn FocusEvent = iota
	WindowFocusOut
	EntryFocusIn
	EntryFocusOut
)

// String implements fmt.Stringer
func (e FocusEvent) String() string {
	switch e {
	case WindowFocusIn:
		return "window-focus-in"
	case WindowFocusOut:
		return "window-focus-out"
	case EntryFocusIn:
		return "entry-focus-in"
	case EntryFocusOut:
		return "entry-focus-out"
	default:
		return "unknown"
	}
}

// Binder decides whether the key bindings are live. They are bound exactly
// when the window has focus and the text entry does not, so typing into the
// entry never fires remote buttons.
type Binder struct {
	windowFocused bool
	entryFocused  bool
}

// NewBinder returns a binder for a window that does or does not start with
// focus. The entry starts unfocused.
func NewBinder(windowFocused bool) *Binder {
	return &Binder{windowFocused: windowFocused}
}

// Handle applies ev and reports the new state and whether it changed.
func (b *Binder) Handle(ev FocusEvent) (bound, changed bool) {
	before := b.Bound()

	switch ev {
	case WindowFocusIn:
		b.windowFocused = true
	case WindowFocusOut:
		b.windowFocused = false
	case EntryFocusIn:
		b.entryFocused = true
	case EntryFocusOut:
		b.entryFocused = false
	}

	after := b.Bound()
	return after, after != before
}

// Bound reports whether key bindings are active.
func (b *Binder) Bound() bool {
	return b.windowFocused && !b.entryFocused
}

// WindowFocused reports whether the window holds focus.
func (b *Binder) WindowFocused() bool {
	return b.windowFocused
}

// EntryFocused reports whether the text entry holds focus.
func (b *Binder) EntryFocused() bool {
	return b.entryFocused
}
