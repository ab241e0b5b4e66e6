package device

import (
	"fmt"
	"strings"
)

// Key is an ECP key name as accepted by POST /keypress/<Key>.
type Key string

const (
	KeyHome          Key = "Home"
	KeyReverse       Key = "Rev"
	KeyForward       Key = "Fwd"
	KeyPlay          Key = "Play"
	KeySelect        Key = "Select"
	KeyLeft          Key = "Left"
	KeyRight         Key = "Right"
	KeyDown          Key = "Down"
	KeyUp            Key = "Up"
	KeyBack          Key = "Back"
	KeyInstantReplay Key = "InstantReplay"
	KeyInfo          Key = "Info"
	KeyBackspace     Key = "Backspace"
	KeySearch        Key = "Search"
	KeyEnter         Key = "Enter"
	KeyVolumeDown    Key = "VolumeDown"
	KeyVolumeMute    Key = "VolumeMute"
	KeyVolumeUp      Key = "VolumeUp"
	KeyPower         Key = "Power"
	KeyPowerOff      Key = "PowerOff"
	KeyPowerOn       Key = "PowerOn"
	KeyFindRemote    Key = "FindRemote"
	KeyChannelUp     Key = "ChannelUp"
	KeyChannelDown   Key = "ChannelDown"
)

// literalPrefix marks a keypress that types a single character.
const literalPrefix = "Lit_"

var knownKeys = []Key{
	KeyHome, KeyReverse, KeyForward, KeyPlay, KeySelect,
	KeyLeft, KeyRight, KeyDown, KeyUp, KeyBack,
	KeyInstantReplay, KeyInfo, KeyBackspace, KeySearch, KeyEnter,
	KeyVolumeDown, KeyVolumeMute, KeyVolumeUp,
	KeyPower, KeyPowerOff, KeyPowerOn, KeyFindRemote,
	KeyChannelUp, KeyChannelDown,
}

// aliases accepted by ParseKey in addition to the ECP names.
var keyAliases = map[string]Key{
	"reverse":  KeyReverse,
	"rewind":   KeyReverse,
	"forward":  KeyForward,
	"ff":       KeyForward,
	"replay":   KeyInstantReplay,
	"options":  KeyInfo,
	"ok":       KeySelect,
	"mute":     KeyVolumeMute,
	"vol+":     KeyVolumeUp,
	"vol-":     KeyVolumeDown,
	"pause":    KeyPlay,
	"del":      KeyBackspace,
	"poweroff": KeyPowerOff,
	"poweron":  KeyPowerOn,
}

// Keys returns every named key.
func Keys() []Key {
	return append([]Key(nil), knownKeys...)
}

// ParseKey resolves a key name case-insensitively. Both ECP names
// ("VolumeUp") and a few remote-label aliases ("vol+", "ok") are accepted.
func ParseKey(name string) (Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, k := range knownKeys {
		if strings.ToLower(string(k)) == n {
			return k, nil
		}
	}
	if k, ok := keyAliases[n]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown key %q", name)
}

// String implements fmt.Stringer
func (k Key) String() string {
	return string(k)
}
