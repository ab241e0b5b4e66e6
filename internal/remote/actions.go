package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/muurk/rokuremote/internal/device"
)

// Device is the subset of the ECP client the remote drives.
type Device interface {
	Keypress(ctx context.Context, key device.Key) error
	Literal(ctx context.Context, text string) error
	LaunchMatching(ctx context.Context, ident string) (device.App, error)
}

// Action is a single remote-control operation.
type Action string

const (
	ActionPower      Action = "power"
	ActionBack       Action = "back"
	ActionUp         Action = "up"
	ActionHome       Action = "home"
	ActionLeft       Action = "left"
	ActionSelect     Action = "select"
	ActionRight      Action = "right"
	ActionReplay     Action = "replay"
	ActionDown       Action = "down"
	ActionInfo       Action = "info"
	ActionReverse    Action = "reverse"
	ActionPlay       Action = "play"
	ActionForward    Action = "forward"
	ActionMute       Action = "mute"
	ActionVolumeDown Action = "volume_down"
	ActionVolumeUp   Action = "volume_up"
	ActionSearch     Action = "search"
	ActionBackspace  Action = "backspace"
	ActionEnter      Action = "enter"

	// ActionLiteral types Command.Arg.
	ActionLiteral Action = "literal"
	// ActionLaunch launches the first app whose name contains Command.Arg.
	ActionLaunch Action = "launch"
)

var actionKeys = map[Action]device.Key{
	ActionPower:      device.KeyPower,
	ActionBack:       device.KeyBack,
	ActionUp:         device.KeyUp,
	ActionHome:       device.KeyHome,
	ActionLeft:       device.KeyLeft,
	ActionSelect:     device.KeySelect,
	ActionRight:      device.KeyRight,
	ActionReplay:     device.KeyInstantReplay,
	ActionDown:       device.KeyDown,
	ActionInfo:       device.KeyInfo,
	ActionReverse:    device.KeyReverse,
	ActionPlay:       device.KeyPlay,
	ActionForward:    device.KeyForward,
	ActionMute:       device.KeyVolumeMute,
	ActionVolumeDown: device.KeyVolumeDown,
	ActionVolumeUp:   device.KeyVolumeUp,
	ActionSearch:     device.KeySearch,
	ActionBackspace:  device.KeyBackspace,
	ActionEnter:      device.KeyEnter,
}

// Key returns the ECP key an action sends, if it is a plain keypress.
func (a Action) Key() (device.Key, bool) {
	k, ok := actionKeys[a]
	return k, ok
}

// NeedsArg reports whether the action requires Command.Arg.
func (a Action) NeedsArg() bool {
	return a == ActionLiteral || a == ActionLaunch
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	_, ok := actionKeys[a]
	return ok || a.NeedsArg()
}

// Actions lists every keypress action in grid order.
func Actions() []Action {
	return []Action{
		ActionPower, ActionBack, ActionUp, ActionHome,
		ActionLeft, ActionSelect, ActionRight,
		ActionReplay, ActionDown, ActionInfo,
		ActionReverse, ActionPlay, ActionForward,
		ActionMute, ActionVolumeDown, ActionVolumeUp,
		ActionSearch, ActionBackspace, ActionEnter,
	}
}

// ParseAction resolves an action name. Hyphens and spaces are accepted in
// place of underscores, and ECP key names ("VolumeUp", "Rev") resolve to
// the matching action.
func ParseAction(name string) (Action, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)

	a := Action(n)
	if a.Valid() {
		return a, nil
	}

	if key, err := device.ParseKey(name); err == nil {
		for act, k := range actionKeys {
			if k == key {
				return act, nil
			}
		}
	}
	return "", fmt.Errorf("unknown action %q", name)
}

// Command is an action plus its argument.
type Command struct {
	Action Action `json:"action"`
	Arg    string `json:"arg,omitempty"`
}

// Key returns a keypress command.
func Key(a Action) Command {
	return Command{Action: a}
}

// Literal returns a command that types text.
func Literal(text string) Command {
	return Command{Action: ActionLiteral, Arg: text}
}

// Launch returns a command that launches the app matching ident.
func Launch(ident string) Command {
	return Command{Action: ActionLaunch, Arg: ident}
}

// ParseCommand builds a command from an action name and optional argument.
func ParseCommand(action, arg string) (Command, error) {
	a, err := ParseAction(action)
	if err != nil {
		return Command{}, err
	}
	if a.NeedsArg() && arg == "" {
		return Command{}, fmt.Errorf("action %q requires an argument", a)
	}
	return Command{Action: a, Arg: arg}, nil
}

// String implements fmt.Stringer
func (c Command) String() string {
	if c.Arg == "" {
		return string(c.Action)
	}
	return fmt.Sprintf("%s(%q)", c.Action, c.Arg)
}

// Execute runs the command against dev. Each command is exactly one
// device-proxy call.
func (c Command) Execute(ctx context.Context, dev Device) error {
	switch c.Action {
	case ActionLiteral:
		return dev.Literal(ctx, c.Arg)
	case ActionLaunch:
		_, err := dev.LaunchMatching(ctx, c.Arg)
		return err
	}

	key, ok := c.Action.Key()
	if !ok {
		return fmt.Errorf("unknown action %q", c.Action)
	}
	return dev.Keypress(ctx, key)
}
