// Package tui is the remote-control window.
//
// The window is a bubbletea program with three parts stacked vertically:
//
//	menu bar     ^R restart, ^D add device, ^Q quit
//	status line  current device and the last command's outcome
//	button grid  the 6x4 remote layout from package remote
//
// Buttons are pressed with the mouse or with the bound keys. Key bindings
// are live only while the terminal window has focus and the search entry
// does not (see remote.Binder); focus changes arrive as tea.FocusMsg and
// tea.BlurMsg. Text typed in the entry is diffed against its previous
// contents and sent as backspace and literal keypresses.
//
// Device calls never run on the UI loop. Presses are queued on a
// remote.Dispatcher and their results come back as messages.
//
// The add-device panel scans the network with package discovery. Picking
// a device rebinds the dispatcher and records the address in the settings
// returned by Model.Settings.
package tui
