// Package remote maps remote-control buttons onto device commands.
//
// It holds the pieces of the remote that do not depend on how the panel is
// drawn: the set of actions, the fixed button grid, the keyboard binding
// table and the focus-driven state machine that switches it on and off, and
// the Dispatcher that serialises commands to the device off the UI loop.
package remote
