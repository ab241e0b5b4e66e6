// Package logging provides structured logging for the roku-remote binaries.
//
// It wraps a package-level zap logger with convenience functions and a few
// domain helpers for device requests, key traces and discovery results.
//
// # Silent by default
//
// Command output is curated terminal UI, so logging is off unless a level
// is given by flag or by ROKU_REMOTE_LOG_LEVEL ("debug", "info", "warn",
// "error"). The remote window owns the terminal; send logs to a file with
// ROKU_REMOTE_LOG_FILE or --log-file while it runs:
//
//	ROKU_REMOTE_LOG_LEVEL=debug ROKU_REMOTE_LOG_FILE=/tmp/remote.log roku-remote
//
// # Usage
//
//	if err := logging.Initialize(level, path); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	logging.LogCommand("192.168.1.144:8060", "POST", "/keypress/Home", d, err)
//	logging.LogKeyPress("up", "up", true)
//
// All functions are safe for concurrent use.
package logging
