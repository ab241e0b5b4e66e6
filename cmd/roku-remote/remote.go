package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/device"
	"github.com/muurk/rokuremote/internal/discovery"
	"github.com/muurk/rokuremote/internal/logging"
	"github.com/muurk/rokuremote/internal/remote"
	"github.com/muurk/rokuremote/internal/settings"
	"github.com/muurk/rokuremote/internal/tui"
	"github.com/muurk/rokuremote/internal/ui"
)

// runRemote opens the remote window. Settings are saved when it closes,
// and a restart request relaunches the program.
func runRemote(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return errors.New("the remote window needs an interactive terminal (use 'roku-remote send' from scripts)")
	}

	path, err := settings.ResolvePath(settingsPath)
	if err != nil {
		return err
	}
	s, err := settings.Load(path)
	if err != nil {
		return err
	}

	addr := deviceAddr
	if addr == "" {
		addr = s.Device
	}

	var (
		dev  remote.Device
		name string
	)
	if addr != "" {
		client, err := device.NewClient(addr)
		if err != nil {
			return err
		}
		dev, name = client, client.Address()
		s.Device = client.Address()
	}

	logging.Info("Starting remote",
		zap.String("settings", path),
		zap.String("device", name),
		zap.String("geometry", s.Geometry()),
	)

	outcome, err := tui.Run(cmd.Context(), tui.Config{
		Settings:   s,
		Dispatcher: remote.NewDispatcher(dev, 0),
		DeviceName: name,
		Discover: func(ctx context.Context) ([]*discovery.Device, error) {
			return discovery.DiscoverDevices(ctx, tui.DefaultScanTimeout)
		},
		Connect: connectDevice,
	})
	if err != nil && cmd.Context().Err() == nil {
		return err
	}

	final := outcome.Model.Settings()
	if err := final.Save(path); err != nil {
		return err
	}
	logging.Info("Settings saved",
		zap.String("path", path),
		zap.String("geometry", final.Geometry()),
		zap.String("device", final.Device),
	)

	if !outcome.Restart {
		return nil
	}

	logging.Sync()
	code, err := relaunch()
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

func connectDevice(addr string) (remote.Device, error) {
	client, err := device.NewClient(addr)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// relaunch runs a fresh copy of this executable with the same arguments
// and returns its exit code.
func relaunch() (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 1, fmt.Errorf("failed to locate executable: %w", err)
	}

	logging.Info("Restarting", zap.String("exe", exe), zap.Strings("args", os.Args[1:]))

	child := exec.Command(exe, os.Args[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.Env = os.Environ()

	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("failed to restart: %w", err)
	}
	return 0, nil
}
