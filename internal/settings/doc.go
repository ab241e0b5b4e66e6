// Package settings loads and saves the remote window's settings file.
//
// The file is a small YAML document holding the font name, the five-color
// button palette, the window size and optional position, the last device
// address and the app launch buttons:
//
//	font: Roboto
//	colors:
//	    text: '#ebe2f3'
//	    light: '#5a3382'
//	    dark: '#352552'
//	    power: '#ba2323'
//	    app: '#2c345c'
//	win_w: 72
//	win_h: 26
//	device: 192.168.1.144
//
// # File Location
//
//   - Linux: $XDG_CONFIG_HOME/roku-remote/settings.yaml or $HOME/.config/roku-remote/settings.yaml
//   - macOS: $HOME/.config/roku-remote/settings.yaml
//   - Windows: %LOCALAPPDATA%\roku-remote\settings.yaml
//
// Commands accept --settings to use another file.
//
// The settings are read once at startup and written once when the window
// closes. A file that fails to parse is reported as an error rather than
// silently replaced with defaults.
package settings
