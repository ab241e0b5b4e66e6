// Roku-remote is a terminal remote control for Roku streaming players.
//
// Running without arguments opens the remote window: a grid of buttons
// that can be clicked or driven from the keyboard, a search entry that is
// typed onto the device as you type, and a device picker fed by network
// discovery. The subcommands expose the same device operations for
// scripting.
//
// Usage:
//
//	roku-remote [command] [flags]
//
// See 'roku-remote --help' for available commands.
package main

import (
	"context"
	"errors"
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
		var exit *exitCodeError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	deviceAddr   string
	settingsPath string
	logLevel     string
	logFile      string
)

var rootCmd = &cobra.Command{
	Use:   "roku-remote",
	Short: "Roku Remote Control",
	Long: `A terminal remote control for Roku streaming players.

Without a command the remote window opens. Click the buttons or use the
keyboard (arrows, enter, space, -/+, backspace); press tab to type into the
search entry, ^D to pick a device found on the network, ^R to restart and
^Q to quit. Window size and the chosen device are saved on exit.

The subcommands run single operations for scripting.`,
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runRemote,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&deviceAddr, "device", "", "Device address (ip, ip:port or URL); defaults to the last used device")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Settings file (default: <config dir>/roku-remote/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off when unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stdout")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("roku-remote %s (commit: %s)\n", version.Version, version.Commit)
	},
}

// exitCodeError makes the process exit with code without printing
// anything. It carries the exit status of a relaunched remote.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
