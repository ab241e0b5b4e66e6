// Package macro plays scripted sequences of remote commands.
//
// A macro is a YAML document of steps. Each step launches an app, presses
// a key some number of times or types text, optionally followed by a
// pause:
//
//	name: plex-resume
//	device: 192.168.1.107
//	steps:
//	  - launch: plex
//	    wait: 30s
//	  - key: VolumeDown
//	    repeat: 100
//	  - key: Select
//	    pause: 2s
//
// A launch step with a wait polls /query/active-app until the launched app
// is in the foreground rather than sleeping for a fixed time. Built-in
// macros are embedded in the binary; others are loaded from disk.
package macro
