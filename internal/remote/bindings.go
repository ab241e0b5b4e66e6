package remote

// Binding ties a key, as reported by the terminal, to an action.
type Binding struct {
	Trigger string
	Action  Action
}

// Bindings is an ordered binding table. The first match wins.
type Bindings []Binding

// DefaultBindings returns the keyboard shortcuts of the remote. Arrow keys,
// enter, space, backspace and the volume keys come first; the letter keys
// reach the buttons that otherwise need a mouse.
func DefaultBindings() Bindings {
	return Bindings{
		{"left", ActionLeft},
		{"right", ActionRight},
		{"up", ActionUp},
		{"down", ActionDown},
		{"enter", ActionSelect},
		{"-", ActionVolumeDown},
		{"+", ActionVolumeUp},
		{"=", ActionVolumeUp},
		{" ", ActionPlay},
		{"space", ActionPlay},
		{"backspace", ActionBack},

		{"h", ActionHome},
		{"i", ActionInfo},
		{"*", ActionInfo},
		{"r", ActionReplay},
		{",", ActionReverse},
		{"<", ActionReverse},
		{".", ActionForward},
		{">", ActionForward},
		{"m", ActionMute},
		{"s", ActionSearch},
		{"/", ActionSearch},
		{"delete", ActionBackspace},
		{"P", ActionPower},
	}
}

// Lookup returns the action bound to trigger.
func (b Bindings) Lookup(trigger string) (Action, bool) {
	for _, binding := range b {
		if binding.Trigger == trigger {
			return binding.Action, true
		}
	}
	return "", false
}

// Triggers returns the keys bound to a, in table order.
func (b Bindings) Triggers(a Action) []string {
	var keys []string
	for _, binding := range b {
		if binding.Action == a {
			keys = append(keys, binding.Trigger)
		}
	}
	return keys
}
