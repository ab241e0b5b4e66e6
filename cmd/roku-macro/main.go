// Roku-macro plays a scripted sequence of remote commands on a Roku player.
//
// A macro launches an app, waits for it to come to the foreground and
// then presses keys to reach and play content. Macros are YAML files; a
// set of them is built in (see 'roku-macro list').
//
// Usage:
//
//	roku-macro [--macro name | --file path] [flags]
//
// Running without arguments plays the built-in plex-resume macro.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/rokuremote/internal/logging"
	"github.com/muurk/rokuremote/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "roku-macro",
	Short: "Roku Macro Player",
	Long: `Play a macro of remote commands on a Roku player.

Each step launches an app, presses a key (optionally repeated) or types
text. Launch steps wait until the device reports the app in the foreground;
other steps may pause afterwards for the app to catch up. The run stops at
the first failing step.

The device is taken from --device, then from the macro file, then from the
remote's saved settings.`,
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Example: `  # Resume the last item in Plex (default macro)
  roku-macro

  # Play a macro from a file on a specific device
  roku-macro --file ./netflix.yaml --device 192.168.1.50

  # Check a macro without touching the device
  roku-macro --file ./netflix.yaml --dry-run`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runMacro,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off when unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stdout")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("roku-macro %s (commit: %s)\n", version.Version, version.Commit)
	},
}
