package tui

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/rokuremote/internal/device"
	"github.com/muurk/rokuremote/internal/discovery"
)

// DiscoverFunc scans the network for devices.
type DiscoverFunc func(ctx context.Context) ([]*discovery.Device, error)

// Messages for async operations
type scanCompleteMsg struct {
	id      int
	devices []*discovery.Device
	err     error
}

// discoveryKeyMap defines key bindings for the device list
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Rescan key.Binding
	Manual key.Binding
	Close  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Choose, k.Rescan, k.Manual, k.Close}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Choose},
		{k.Rescan, k.Manual, k.Close},
	}
}

// manualModeKeyMap defines key bindings for manual address entry
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// deviceItem wraps a Device for use with bubbles/list
type deviceItem struct {
	device *discovery.Device
}

// FilterValue implements list.Item
func (d deviceItem) FilterValue() string {
	return d.device.Name + " " + d.device.Serial + " " + d.device.IP
}

// deviceDelegate renders a device as two lines: name, then address and
// details.
type deviceDelegate struct {
	styles Styles
}

func (d deviceDelegate) Height() int                             { return 2 }
func (d deviceDelegate) Spacing() int                            { return 1 }
func (d deviceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d deviceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(deviceItem)
	if !ok {
		return
	}
	dev := it.device

	name := dev.Name
	if name == "" {
		name = "Roku"
	}
	if dev.Serial != "" {
		name += " [" + dev.Serial + "]"
	}

	details := []string{dev.Address()}
	if dev.Model != "" {
		details = append(details, dev.Model)
	}
	if len(dev.Sources) > 0 {
		sources := make([]string, len(dev.Sources))
		for i, s := range dev.Sources {
			sources[i] = string(s)
		}
		details = append(details, "via "+strings.Join(sources, ", "))
	}

	if index == m.Index() {
		_, _ = fmt.Fprintf(w, "%s\n    %s", d.styles.Selected.Render("→ "+name), d.styles.Status.Render(strings.Join(details, " • ")))
		return
	}
	_, _ = fmt.Fprintf(w, "  %s\n    %s", name, d.styles.Status.Render(strings.Join(details, " • ")))
}

// DiscoveryModel is the add-device panel: a network scan followed by a
// pick list, with manual address entry as a fallback.
type DiscoveryModel struct {
	Scanning   bool
	ManualMode bool
	Err        error

	DeviceList  list.Model
	AddrInput   textinput.Model
	Spinner     spinner.Model
	ProgressBar progress.Model

	ScanStartTime time.Time
	ScanTimeout   time.Duration

	Width  int
	Height int

	Help       help.Model
	Keys       discoveryKeyMap
	ManualKeys manualModeKeyMap

	discover DiscoverFunc
	styles   Styles
	scanID   int
	chosen   *discovery.Device
	closed   bool
}

// NewDiscoveryModel creates the panel. scanTimeout only drives the progress
// bar; discover enforces its own timeout.
func NewDiscoveryModel(discover DiscoverFunc, styles Styles, scanTimeout time.Duration) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	addrInput := textinput.New()
	addrInput.Placeholder = "192.168.1.144"
	addrInput.CharLimit = 64
	addrInput.Width = 30

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 30

	deviceList := list.New([]list.Item{}, deviceDelegate{styles: styles}, 0, 0)
	deviceList.Title = "Devices"
	deviceList.SetShowStatusBar(false)
	deviceList.SetFilteringEnabled(false)
	deviceList.SetShowHelp(false)
	deviceList.Styles.Title = styles.Title

	return DiscoveryModel{
		DeviceList:  deviceList,
		AddrInput:   addrInput,
		Spinner:     s,
		ProgressBar: progressBar,
		ScanTimeout: scanTimeout,
		Help:        help.New(),
		Keys: discoveryKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "down"),
			),
			Choose: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "use device"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter address"),
			),
			Close: key.NewBinding(
				key.WithKeys("esc", "q"),
				key.WithHelp("esc", "close"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "use address"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		discover: discover,
		styles:   styles,
	}
}

// Start begins a scan. Results of earlier scans are ignored from then on.
func (m *DiscoveryModel) Start() tea.Cmd {
	m.scanID++
	m.Scanning = true
	m.Err = nil
	m.ScanStartTime = time.Now()
	return tea.Batch(
		scanDevices(m.discover, m.scanID),
		m.Spinner.Tick,
	)
}

// SetSize sets the area the panel may use.
func (m *DiscoveryModel) SetSize(width, height int) {
	m.Width = width
	m.Height = height
	m.DeviceList.SetSize(width, max(height-2, 3))
	m.Help.Width = width
	if width > 10 {
		m.ProgressBar.Width = min(width-4, 40)
	}
}

// Chosen returns the device picked by the user, if any.
func (m DiscoveryModel) Chosen() *discovery.Device {
	return m.chosen
}

// Closed reports whether the user dismissed the panel.
func (m DiscoveryModel) Closed() bool {
	return m.closed
}

// Devices returns the devices currently listed.
func (m DiscoveryModel) Devices() []*discovery.Device {
	items := m.DeviceList.Items()
	devices := make([]*discovery.Device, 0, len(items))
	for _, it := range items {
		if d, ok := it.(deviceItem); ok {
			devices = append(devices, d.device)
		}
	}
	return devices
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (DiscoveryModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case scanCompleteMsg:
		if msg.id != m.scanID {
			return m, nil
		}
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.devices))
		for i, dev := range msg.devices {
			items[i] = deviceItem{device: dev}
		}
		cmd = m.DeviceList.SetItems(items)
		return m, cmd

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if m.ManualMode {
		m.AddrInput, cmd = m.AddrInput.Update(msg)
	}
	return m, cmd
}

// updateNormalMode handles keyboard input while scanning or in the list
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (DiscoveryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Close):
		m.closed = true
		return m, nil

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.AddrInput.SetValue("")
		cmd := m.AddrInput.Focus()
		return m, cmd

	case m.Scanning:
		return m, nil

	case key.Matches(msg, m.Keys.Choose):
		if it, ok := m.DeviceList.SelectedItem().(deviceItem); ok {
			m.chosen = it.device
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		reset := m.DeviceList.SetItems(nil)
		scan := m.Start()
		return m, tea.Batch(reset, scan)
	}

	var cmd tea.Cmd
	m.DeviceList, cmd = m.DeviceList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual address entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (DiscoveryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.AddrInput.SetValue("")
		m.AddrInput.Blur()
		m.Err = nil
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		dev, err := manualDevice(m.AddrInput.Value())
		if err != nil {
			m.Err = err
			return m, nil
		}
		m.chosen = dev
		m.ManualMode = false
		m.AddrInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.AddrInput, cmd = m.AddrInput.Update(msg)
	return m, cmd
}

// manualDevice turns a typed address into a device entry.
func manualDevice(value string) (*discovery.Device, error) {
	value = strings.TrimSpace(value)
	if _, err := device.NormalizeAddress(value); err != nil {
		return nil, err
	}

	host, port := value, discovery.DefaultPort
	if h, p, err := net.SplitHostPort(value); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", p)
		}
		host, port = h, n
	}
	if strings.Contains(host, "://") {
		return nil, fmt.Errorf("enter an address, not a URL")
	}

	return &discovery.Device{
		Name:         host,
		IP:           host,
		Port:         port,
		DiscoveredAt: time.Now(),
	}, nil
}

// View renders the panel
func (m DiscoveryModel) View() string {
	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning()
		helpText = m.Help.View(m.Keys)
	default:
		content = m.renderDeviceResults()
		helpText = m.Help.View(m.Keys)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, helpText)
}

func (m DiscoveryModel) renderScanning() string {
	elapsed := time.Since(m.ScanStartTime)

	var pct float64
	if m.ScanTimeout > 0 {
		pct = min(1, elapsed.Seconds()/m.ScanTimeout.Seconds())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(m.Spinner.View()+" Searching for devices"),
		"",
		m.ProgressBar.ViewAs(pct),
		m.styles.Subtitle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
	)
}

func (m DiscoveryModel) renderDeviceResults() string {
	var b strings.Builder

	if m.Err != nil {
		b.WriteString(m.styles.StatusErr.Render("Scan failed: " + m.Err.Error()))
		b.WriteString("\n\n")
	}

	if len(m.DeviceList.Items()) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render("⚠ No devices found"))
		b.WriteString("\n")
		b.WriteString("  • Check the device is powered on and on this network\n")
		b.WriteString("  • Press m to enter its address, r to scan again\n")
		return b.String()
	}

	b.WriteString(m.DeviceList.View())
	return b.String()
}

func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Enter device address"))
	b.WriteString("\n\n  Address: ")
	b.WriteString(m.AddrInput.View())
	b.WriteString("\n")
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.StatusErr.Render(m.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// scanDevices is a command that performs device discovery
func scanDevices(discover DiscoverFunc, id int) tea.Cmd {
	return func() tea.Msg {
		if discover == nil {
			return scanCompleteMsg{id: id, err: fmt.Errorf("discovery is not available")}
		}
		devices, err := discover(context.Background())
		return scanCompleteMsg{id: id, devices: devices, err: err}
	}
}
