package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/muurk/rokuremote/internal/remote"
)

// keyMap holds the window's own keys. Remote buttons are bound through
// remote.Bindings instead.
type keyMap struct {
	Restart  key.Binding
	Discover key.Binding
	Quit     key.Binding
	Entry    key.Binding
	Clear    key.Binding
	Help     key.Binding

	// remote lists the button bindings, one per action, for the full help view
	remote []key.Binding
}

func newKeyMap(bindings remote.Bindings) keyMap {
	return keyMap{
		Restart: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("^R", "restart"),
		),
		Discover: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("^D", "add device"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("^Q", "quit"),
		),
		Entry: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "search entry"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear entry"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "keys"),
		),
		remote: remoteHelp(bindings),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Entry, k.Discover, k.Restart, k.Quit, k.Help}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	columns := [][]key.Binding{{k.Entry, k.Clear, k.Discover, k.Restart, k.Quit, k.Help}}

	const perColumn = 6
	for i := 0; i < len(k.remote); i += perColumn {
		end := i + perColumn
		if end > len(k.remote) {
			end = len(k.remote)
		}
		columns = append(columns, k.remote[i:end])
	}
	return columns
}

// remoteHelp groups the binding table by action, in table order.
func remoteHelp(bindings remote.Bindings) []key.Binding {
	seen := make(map[remote.Action]int)
	var order []remote.Action
	for _, b := range bindings {
		if _, ok := seen[b.Action]; !ok {
			seen[b.Action] = len(order)
			order = append(order, b.Action)
		}
	}

	help := make([]key.Binding, 0, len(order))
	for _, a := range order {
		triggers := bindings.Triggers(a)
		var labels []string
		for _, t := range triggers {
			if l := keyLabel(t); !slices.Contains(labels, l) {
				labels = append(labels, l)
			}
		}
		help = append(help, key.NewBinding(
			key.WithKeys(triggers...),
			key.WithHelp(strings.Join(labels, "/"), strings.ReplaceAll(string(a), "_", " ")),
		))
	}
	return help
}

var keyLabels = map[string]string{
	"left":      "←",
	"right":     "→",
	"up":        "↑",
	"down":      "↓",
	" ":         "space",
	"backspace": "bksp",
	"delete":    "del",
}

func keyLabel(trigger string) string {
	if l, ok := keyLabels[trigger]; ok {
		return l
	}
	return trigger
}

// menuEntries returns the menu bar items in display order.
func (k keyMap) menuEntries() []key.Binding {
	return []key.Binding{k.Restart, k.Discover, k.Quit}
}
