package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/device"
	"github.com/muurk/rokuremote/internal/logging"
	"github.com/muurk/rokuremote/internal/macro"
	"github.com/muurk/rokuremote/internal/settings"
	"github.com/muurk/rokuremote/internal/ui"
)

// Run flags
var (
	macroName    string
	macroFile    string
	deviceAddr   string
	settingsPath string
	dryRun       bool
)

func init() {
	rootCmd.Flags().StringVar(&macroName, "macro", "plex-resume", "Built-in macro to play")
	rootCmd.Flags().StringVar(&macroFile, "file", "", "Play the macro in this YAML file instead of a built-in one")
	rootCmd.Flags().StringVar(&deviceAddr, "device", "", "Device address (ip, ip:port or URL)")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "Remote settings file used for the default device")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and list the steps without contacting the device")

	rootCmd.AddCommand(listCmd)
}

func runMacro(cmd *cobra.Command, args []string) error {
	m, err := loadMacro()
	if err != nil {
		return err
	}

	addr, err := resolveDevice(m)
	if err != nil && !dryRun {
		return err
	}

	var dev macro.Device
	if !dryRun {
		client, err := device.NewClient(addr)
		if err != nil {
			return err
		}
		dev, addr = client, client.Address()
	}

	params := []ui.Param{
		{Key: "Device", Value: addrLabel(addr)},
		{Key: "Steps", Value: strconv.Itoa(len(m.Steps))},
		{Key: "Duration", Value: m.DurationLabel()},
	}
	if m.Description != "" {
		params = append([]ui.Param{{Key: "About", Value: m.Description}}, params...)
	}
	if dryRun {
		params = append(params, ui.Param{Key: "Mode", Value: "dry run"})
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:        "Macro " + m.Name,
		Command:      commandLine(),
		Params:       params,
		StepNames:    m.StepNames(),
		Output:       cmd.OutOrStdout(),
		Troubleshoot: troubleshoot,
	})

	return runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
		r := macro.NewRunner(dev)
		r.DryRun = dryRun
		if err := r.Run(ctx, m, onStep); err != nil {
			return nil, err
		}
		return []ui.Param{{Key: "Steps", Value: strconv.Itoa(len(m.Steps))}}, nil
	})
}

func loadMacro() (*macro.Macro, error) {
	if macroFile != "" {
		return macro.LoadFile(macroFile)
	}
	return macro.Get(macroName)
}

// resolveDevice picks the address from --device, the macro, or the
// remote's settings, in that order.
func resolveDevice(m *macro.Macro) (string, error) {
	if deviceAddr != "" {
		return deviceAddr, nil
	}
	if m.Device != "" {
		return m.Device, nil
	}

	path, err := settings.ResolvePath(settingsPath)
	if err != nil {
		return "", err
	}
	s, err := settings.Load(path)
	if err != nil {
		return "", err
	}
	if s.Device != "" {
		logging.Debug("Using device from settings", zap.String("path", path), zap.String("device", s.Device))
		return s.Device, nil
	}
	return "", errors.New("no device address: use --device, set \"device\" in the macro, or pick a device in roku-remote")
}

func troubleshoot(err error) []string {
	hints := device.GetTroubleshootingHint(err)
	if errors.Is(err, macro.ErrLaunchTimeout) {
		hints = append([]string{
			"The app may need longer to start: raise the step's wait",
			"Check that the app is installed ('roku-remote apps')",
		}, hints...)
	}
	return hints
}

func commandLine() string {
	parts := []string{"roku-macro"}
	if macroFile != "" {
		parts = append(parts, "--file", macroFile)
	} else {
		parts = append(parts, "--macro", macroName)
	}
	if dryRun {
		parts = append(parts, "--dry-run")
	}
	return strings.Join(parts, " ")
}

func addrLabel(addr string) string {
	if addr == "" {
		return "(none)"
	}
	return addr
}

// listCmd shows the built-in macros
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in macros",
	RunE: func(cmd *cobra.Command, args []string) error {
		macros, err := macro.Builtin()
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(macros))
		for _, m := range macros {
			rows = append(rows, []string{m.Name, strconv.Itoa(len(m.Steps)), m.DurationLabel(), m.Description})
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintTable([]string{"Name", "Steps", "Max. duration", "Description"}, rows)
		return nil
	},
}
