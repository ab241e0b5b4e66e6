// Package ui renders the run-once output of the roku-remote and
// roku-macro commands.
//
// These components print and return; the interactive remote lives in
// package tui. Components:
//
//   - Header: command banner with ordered parameters
//   - Progress: step list with a bar, driven by a StepCallback
//   - Result: success, warning and failure boxes (failures carry hints)
//   - RenderTable: device and app listings
//   - RawOutput: verbatim device responses for --raw
//   - Confirm: typed confirmation before exposing the device
//
// Runner ties Header, Progress and Result together for multi-step work
// such as macros:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Macro plex-resume",
//	    Command:   "roku-macro --macro plex-resume",
//	    StepNames: names,
//	})
//	err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    ...
//	})
//
// Logging stays silent unless ROKU_REMOTE_LOG_LEVEL is set, so this output
// is not interleaved with log lines.
package ui
