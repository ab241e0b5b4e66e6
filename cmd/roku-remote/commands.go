package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/rokuremote/internal/device"
	"github.com/muurk/rokuremote/internal/discovery"
	"github.com/muurk/rokuremote/internal/remote"
	"github.com/muurk/rokuremote/internal/settings"
	"github.com/muurk/rokuremote/internal/ui"
	"github.com/muurk/rokuremote/internal/urls"
)

// Command flags
var (
	scanTimeout time.Duration
	repeat      int
	rawOutput   bool
)

func init() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(appsCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(infoCmd)
}

// discoverCmd scans the network for devices
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Roku devices on the network",
	Long: `Find Roku devices using SSDP (roku:ecp) and mDNS.

Results from both methods are merged by address and printed with their
serial number, model and the way they were found.`,
	Example: `  # Scan for 5 seconds (default)
  roku-remote discover

  # Longer scan for slow networks
  roku-remote discover --timeout 15s`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&scanTimeout, "timeout", 5*time.Second, "How long to listen for devices")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Device Discovery", "roku-remote discover",
		ui.Param{Key: "Timeout", Value: scanTimeout.String()},
		ui.Param{Key: "Methods", Value: "SSDP, mDNS"},
	)

	devices, err := discovery.DiscoverDevices(cmd.Context(), scanTimeout)
	if err != nil {
		p.PrintFailure("Discovery failed", err, []string{
			"Check that this computer is on the same network as the device",
			"Multicast traffic may be blocked by a firewall or the router",
			"Use --device to give the address directly",
		})
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		p.PrintWarning("No devices found",
			ui.Param{Key: "Hint", Value: "Ensure the device is powered on and on this network"},
			ui.Param{Key: "Hint", Value: "Try a longer --timeout"},
		)
		return nil
	}

	rows := make([][]string, 0, len(devices))
	for i, d := range devices {
		sources := make([]string, len(d.Sources))
		for j, s := range d.Sources {
			sources[j] = string(s)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			d.Name,
			d.Serial,
			d.Model,
			d.Address(),
			strings.Join(sources, ", "),
		})
	}
	p.PrintTable([]string{"#", "Name", "Serial", "Model", "Address", "Found by"}, rows)
	p.Newline()
	p.Println("Use 'roku-remote --device <address>' to open the remote for a device")
	return nil
}

// sendCmd presses remote buttons
var sendCmd = &cobra.Command{
	Use:   "send <action>...",
	Short: "Press remote buttons",
	Long: `Press one or more remote buttons in order.

Actions are the remote's button names (power, back, up, home, left, select,
right, replay, down, info, reverse, play, forward, mute, volume_down,
volume_up, search, backspace, enter) or ECP key names (VolumeUp, Rev, ...).
ECP key names are listed at ` + urls.ECPReference + `.`,
	Example: `  # Open the home screen and move down twice
  roku-remote send home down down

  # Turn the volume down by ten
  roku-remote send volume-down --repeat 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().IntVar(&repeat, "repeat", 1, "Send each action this many times")
}

func runSend(cmd *cobra.Command, args []string) error {
	if repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1")
	}

	cmds := make([]remote.Command, 0, len(args))
	for _, a := range args {
		c, err := remote.ParseCommand(a, "")
		if err != nil {
			return err
		}
		cmds = append(cmds, c)
	}

	client, err := openDevice(cmd.Context())
	if err != nil {
		return err
	}

	for _, c := range cmds {
		for i := 0; i < repeat; i++ {
			if err := c.Execute(cmd.Context(), client); err != nil {
				return fmt.Errorf("%s: %w", c, err)
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ sent %d command(s) to %s\n", len(cmds)*repeat, client.Address())
	return nil
}

// typeCmd types text into the focused field
var typeCmd = &cobra.Command{
	Use:   "type <text>",
	Short: "Type text on the device",
	Long: `Type text into the field that has focus on the device, such as a
search box. Each character is sent as its own keypress.`,
	Example: `  roku-remote type "the expanse"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openDevice(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.Literal(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ typed %d character(s)\n", len([]rune(args[0])))
		return nil
	},
}

// appsCmd lists installed channels
var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed apps",
	Long:  `List the apps (channels) installed on the device. The app in the foreground is marked with *.`,
	RunE:  runApps,
}

func runApps(cmd *cobra.Command, args []string) error {
	client, err := openDevice(cmd.Context())
	if err != nil {
		return err
	}

	apps, err := client.Apps(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list apps: %w", err)
	}

	// The active app is decoration; a failure here is not worth failing over.
	active, _ := client.ActiveApp(cmd.Context())

	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		mark := ""
		if !active.IsHome() && a.ID == active.ID {
			mark = "*"
		}
		rows = append(rows, []string{mark, a.ID, a.Name, a.Type, a.Version})
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintTable([]string{"", "ID", "Name", "Type", "Version"}, rows)
	return nil
}

// launchCmd starts an app by name
var launchCmd = &cobra.Command{
	Use:   "launch <app>",
	Short: "Launch an app",
	Long: `Launch the first installed app whose name contains <app>, ignoring
case. An exact app ID also works.`,
	Example: `  roku-remote launch plex
  roku-remote launch 12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openDevice(cmd.Context())
		if err != nil {
			return err
		}
		app, err := client.LaunchMatching(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ launched %s\n", app)
		return nil
	},
}

// infoCmd shows device information
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show device information",
	Example: `  roku-remote info --device 192.168.1.107
  roku-remote info --raw`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&rawOutput, "raw", false, "Print the device information as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	client, err := openDevice(cmd.Context())
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	info, err := client.DeviceInfo(cmd.Context())
	if err != nil {
		p.PrintFailure("Device unreachable", err, device.GetTroubleshootingHint(err))
		return err
	}

	if rawOutput {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		p.PrintRaw("device-info "+client.Address(), string(data))
		return nil
	}

	p.PrintSuccess(info.DisplayName(),
		ui.Param{Key: "Address", Value: client.Address()},
		ui.Param{Key: "Model", Value: strings.TrimSpace(info.ModelName + " " + info.ModelNumber)},
		ui.Param{Key: "Serial", Value: info.SerialNumber},
		ui.Param{Key: "Software", Value: strings.TrimSpace(info.SoftwareVersion + " " + info.SoftwareBuild)},
		ui.Param{Key: "Power", Value: info.PowerMode},
		ui.Param{Key: "Network", Value: strings.TrimSpace(info.NetworkType + " " + info.NetworkName)},
	)
	return nil
}

// openDevice resolves the device address from --device, then the saved
// settings, then a short discovery scan that must find exactly one device.
func openDevice(ctx context.Context) (*device.Client, error) {
	addr := deviceAddr
	if addr == "" {
		path, err := settings.ResolvePath(settingsPath)
		if err != nil {
			return nil, err
		}
		s, err := settings.Load(path)
		if err != nil {
			return nil, err
		}
		addr = s.Device
	}
	if addr != "" {
		return device.NewClient(addr)
	}

	fmt.Println("No device address given, attempting auto-discovery...")
	devices, err := discovery.DiscoverDevices(ctx, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	switch len(devices) {
	case 0:
		return nil, fmt.Errorf("no devices found. Use --device flag to specify the address manually")
	case 1:
		fmt.Printf("Found device: %s\n\n", devices[0])
		return device.NewClient(devices[0].Address())
	}

	fmt.Printf("Found %d devices:\n", len(devices))
	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, d)
	}
	return nil, fmt.Errorf("multiple devices found. Use --device flag to specify which one")
}
