package remote

import (
	"context"
	"testing"

	"github.com/muurk/rokuremote/internal/device"
)

func TestCommandExecute_OneCallPerCommand(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Key(ActionPower), "key:Power"},
		{Key(ActionBack), "key:Back"},
		{Key(ActionSelect), "key:Select"},
		{Key(ActionReplay), "key:InstantReplay"},
		{Key(ActionInfo), "key:Info"},
		{Key(ActionReverse), "key:Rev"},
		{Key(ActionForward), "key:Fwd"},
		{Key(ActionMute), "key:VolumeMute"},
		{Key(ActionVolumeDown), "key:VolumeDown"},
		{Key(ActionVolumeUp), "key:VolumeUp"},
		{Key(ActionSearch), "key:Search"},
		{Key(ActionBackspace), "key:Backspace"},
		{Key(ActionEnter), "key:Enter"},
		{Literal("d"), "lit:d"},
		{Launch("plex"), "launch:plex"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.String(), func(t *testing.T) {
			dev := &fakeDevice{apps: []device.App{{ID: "13535", Name: "Plex"}}}
			if err := tt.cmd.Execute(context.Background(), dev); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			calls := dev.Calls()
			if len(calls) != 1 || calls[0] != tt.want {
				t.Errorf("calls = %v, want [%s]", calls, tt.want)
			}
		})
	}
}

func TestCommandExecute_UnknownAction(t *testing.T) {
	dev := &fakeDevice{}
	if err := (Command{Action: "teleport"}).Execute(context.Background(), dev); err == nil {
		t.Error("expected error for unknown action")
	}
	if len(dev.Calls()) != 0 {
		t.Error("unknown action must not reach the device")
	}
}

func TestEveryActionHasAKey(t *testing.T) {
	for _, a := range Actions() {
		if _, ok := a.Key(); !ok {
			t.Errorf("action %q has no key", a)
		}
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{in: "up", want: ActionUp},
		{in: "Volume-Up", want: ActionVolumeUp},
		{in: "volume down", want: ActionVolumeDown},
		{in: "VolumeMute", want: ActionMute},
		{in: "Rev", want: ActionReverse},
		{in: "InstantReplay", want: ActionReplay},
		{in: "literal", want: ActionLiteral},
		{in: "PowerOff", wantErr: true},
		{in: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAction(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCommand(t *testing.T) {
	if _, err := ParseCommand("literal", ""); err == nil {
		t.Error("literal without text should fail")
	}
	if _, err := ParseCommand("launch", ""); err == nil {
		t.Error("launch without app should fail")
	}

	cmd, err := ParseCommand("launch", "plex")
	if err != nil || cmd != Launch("plex") {
		t.Errorf("ParseCommand(launch, plex) = %v, %v", cmd, err)
	}

	cmd, err = ParseCommand("home", "ignored")
	if err != nil || cmd.Action != ActionHome {
		t.Errorf("ParseCommand(home) = %v, %v", cmd, err)
	}
}

func TestCommandString(t *testing.T) {
	if got := Key(ActionUp).String(); got != "up" {
		t.Errorf("String() = %q", got)
	}
	if got := Literal("ab").String(); got != `literal("ab")` {
		t.Errorf("String() = %q", got)
	}
}
