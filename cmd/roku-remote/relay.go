package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/logging"
	"github.com/muurk/rokuremote/internal/relay"
	"github.com/muurk/rokuremote/internal/remote"
	"github.com/muurk/rokuremote/internal/ui"
)

// Relay command flags
var (
	relayListen     string
	relayPath       string
	relayCaptureDir string
	relayTimeout    time.Duration
	relayYes        bool
)

func init() {
	rootCmd.AddCommand(relayCmd)

	relayCmd.Flags().StringVar(&relayListen, "listen", relay.DefaultListen, "Address to listen on")
	relayCmd.Flags().StringVar(&relayPath, "path", relay.DefaultPath, "WebSocket endpoint path")
	relayCmd.Flags().StringVar(&relayCaptureDir, "capture-dir", "", "Directory to write relayed messages to as JSON Lines (disabled if not specified)")
	relayCmd.Flags().DurationVar(&relayTimeout, "timeout", relay.DefaultCommandTimeout, "Timeout for a single relayed command")
	relayCmd.Flags().BoolVar(&relayYes, "yes", false, "Do not ask before listening on a non-loopback address")
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Accept remote commands over WebSocket",
	Long: `Start a WebSocket endpoint that forwards JSON commands to the device.

Each message is one command:

  {"id":"1","action":"up"}
  {"action":"literal","text":"abc"}
  {"action":"launch","app":"plex"}

and is answered with {"type":"result","id":"1","action":"up","ok":true}
or an "error" field. Commands from all connections reach the device in the
order they arrive. GET /healthz reports the relay status.

The relay has no authentication; by default it only listens on loopback.`,
	Example: `  # Listen on localhost:8765
  roku-remote relay --device 192.168.1.107

  # Listen on all interfaces and capture traffic
  roku-remote relay --listen :8765 --capture-dir ./captures`,
	RunE: runRelay,
}

func runRelay(cmd *cobra.Command, args []string) error {
	if relayCaptureDir != "" {
		info, err := os.Stat(relayCaptureDir)
		if os.IsNotExist(err) {
			return fmt.Errorf("capture directory does not exist: %s", relayCaptureDir)
		}
		if err != nil {
			return fmt.Errorf("cannot access capture directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("capture path is not a directory: %s", relayCaptureDir)
		}
	}

	if !relay.IsLoopback(relayListen) && !relayYes {
		ok := ui.Confirm(os.Stdin, cmd.OutOrStdout(), "Relay reachable from the network", []string{
			"The relay has no authentication",
			"Anyone who can reach " + relayListen + " can control the device",
		}, "yes")
		if !ok {
			return fmt.Errorf("relay not started")
		}
	}

	client, err := openDevice(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	dispatcher := remote.NewDispatcher(client, 0)
	go func() {
		if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
			logging.Error("Dispatcher stopped", zap.Error(err))
		}
	}()

	srv := relay.New(relay.Config{
		Listen:         relayListen,
		Path:           relayPath,
		CommandTimeout: relayTimeout,
		DeviceName:     client.Address(),
		CaptureDir:     relayCaptureDir,
	}, dispatcher)

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Command Relay", "roku-remote relay",
		ui.Param{Key: "Listen", Value: "ws://" + relayListen + relayPath},
		ui.Param{Key: "Device", Value: client.Address()},
		ui.Param{Key: "Capture", Value: captureLabel(relayCaptureDir)},
	)
	p.Println("Press Ctrl+C to stop.")

	return srv.ListenAndServe(ctx)
}

func captureLabel(dir string) string {
	if dir == "" {
		return "off"
	}
	return dir
}
