package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/device"
	"github.com/muurk/rokuremote/internal/discovery"
	"github.com/muurk/rokuremote/internal/logging"
	"github.com/muurk/rokuremote/internal/remote"
	"github.com/muurk/rokuremote/internal/settings"
	"github.com/muurk/rokuremote/internal/textsync"
)

const (
	// flashDuration is how long a pressed button stays inverted
	flashDuration = 150 * time.Millisecond

	// DefaultScanTimeout is the expected length of a discovery scan
	DefaultScanTimeout = 5 * time.Second
)

// ConnectFunc opens a device proxy for addr.
type ConnectFunc func(addr string) (remote.Device, error)

// Config wires the window to the rest of the program.
type Config struct {
	Settings    *settings.Settings
	Dispatcher  *remote.Dispatcher
	DeviceName  string
	Bindings    remote.Bindings // nil uses remote.DefaultBindings
	Discover    DiscoverFunc
	Connect     ConnectFunc
	ScanTimeout time.Duration
}

// Messages
type resultMsg remote.Result
type flashDoneMsg struct{ seq int }

// Model is the remote window.
type Model struct {
	settings   *settings.Settings
	dispatcher *remote.Dispatcher
	layout     *remote.Layout
	bindings   remote.Bindings
	binder     *remote.Binder
	tracker    *textsync.Tracker
	entry      textinput.Model
	styles     Styles
	keys       keyMap
	help       help.Model

	discover      DiscoverFunc
	connect       ConnectFunc
	scanTimeout   time.Duration
	discovery     DiscoveryModel
	showDiscovery bool

	width      int
	height     int
	deviceName string
	status     string
	statusErr  bool
	flash      int // index into layout.Buttons, -1 when nothing is flashing
	flashSeq   int
	restart    bool
	quitting   bool
}

// New creates the window model. The settings are copied; read the final
// values with Settings after the program exits.
func New(cfg Config) Model {
	s := cfg.Settings
	if s == nil {
		s = settings.Defaults()
	}
	s = s.Clone()

	bindings := cfg.Bindings
	if bindings == nil {
		bindings = remote.DefaultBindings()
	}
	scanTimeout := cfg.ScanTimeout
	if scanTimeout <= 0 {
		scanTimeout = DefaultScanTimeout
	}

	entry := textinput.New()
	entry.Prompt = ""
	entry.Placeholder = "search"

	m := Model{
		settings:    s,
		dispatcher:  cfg.Dispatcher,
		layout:      remote.NewLayout(s.Apps),
		bindings:    bindings,
		binder:      remote.NewBinder(true),
		tracker:     textsync.NewTracker(),
		entry:       entry,
		styles:      NewStyles(s.Colors),
		keys:        newKeyMap(bindings),
		help:        help.New(),
		discover:    cfg.Discover,
		connect:     cfg.Connect,
		scanTimeout: scanTimeout,
		width:       s.Width,
		height:      s.Height,
		deviceName:  cfg.DeviceName,
		flash:       -1,
	}
	m.help.Width = m.width
	m.resizeEntry()
	return m
}

// Settings returns the settings as they should be saved: the ones passed
// in, updated with the final window size and any device picked.
func (m Model) Settings() *settings.Settings {
	return m.settings
}

// RestartRequested reports whether the user asked for a restart.
func (m Model) RestartRequested() bool {
	return m.restart
}

// Bound reports whether the remote key bindings are live.
func (m Model) Bound() bool {
	return m.binder.Bound()
}

// Init starts listening for command results.
func (m Model) Init() tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	return waitForResult(m.dispatcher.Results())
}

// waitForResult delivers the next dispatcher result as a message.
func waitForResult(results <-chan remote.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return nil
		}
		return resultMsg(r)
	}
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.settings.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.discovery.SetSize(msg.Width, m.gridFrame().Height)
		m.resizeEntry()
		return m, nil

	case tea.FocusMsg:
		m.setFocus(remote.WindowFocusIn)
		return m, nil

	case tea.BlurMsg:
		m.setFocus(remote.WindowFocusOut)
		return m, nil

	case resultMsg:
		m.showResult(remote.Result(msg))
		return m, waitForResult(m.dispatcher.Results())

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = -1
		}
		return m, nil

	case tea.MouseMsg:
		if m.showDiscovery {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Remaining messages belong to the discovery panel or the entry
	// (spinner ticks, scan results, cursor blink).
	var cmd tea.Cmd
	if m.showDiscovery {
		return m.updateDiscovery(msg)
	}
	if m.binder.EntryFocused() {
		m.entry, cmd = m.entry.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Restart):
		logging.Info("Restart requested")
		m.restart = true
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Discover):
		return m.openDiscovery()
	}

	if m.showDiscovery {
		return m.updateDiscovery(msg)
	}
	if m.binder.EntryFocused() {
		return m.handleEntryKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Entry):
		return m.focusEntry()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	trigger := msg.String()
	action, ok := m.bindings.Lookup(trigger)
	bound := m.binder.Bound()
	logging.LogKeyPress(trigger, string(action), ok && bound)
	if !ok || !bound {
		return m, nil
	}
	return m.press(remote.Key(action))
}

// handleEntryKey feeds a key to the search entry and sends the resulting
// edits to the device.
func (m Model) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		return m.blurEntry()

	case tea.KeyEsc:
		m.entry.SetValue("")
		m.tracker.Reset("")
		return m.blurEntry()

	case tea.KeyEnter:
		m.submit(remote.Key(remote.ActionEnter))
		return m, nil
	}

	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	m.syncEntry()
	return m, cmd
}

// syncEntry sends the edits that bring the device's search field in line
// with the entry. On the first rejected command the tracker is rewound to
// what was actually queued, so the next keystroke resends the rest.
func (m *Model) syncEntry() {
	sent := []rune(m.tracker.Text())

edits:
	for _, edit := range m.tracker.Update(m.entry.Value()) {
		switch edit.Kind {
		case textsync.Backspace:
			for i := 0; i < edit.Count; i++ {
				if !m.submit(remote.Key(remote.ActionBackspace)) {
					break edits
				}
				sent = sent[:len(sent)-1]
			}
		case textsync.Literal:
			if !m.submit(remote.Literal(edit.Text)) {
				break edits
			}
			sent = append(sent, []rune(edit.Text)...)
		}
	}

	if string(sent) != m.tracker.Text() {
		m.tracker.Reset(string(sent))
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	b, ok := m.layout.CellAt(m.gridFrame(), msg.X, msg.Y-headerLines)
	if !ok {
		return m, nil
	}
	if b.IsEntry() {
		if m.binder.EntryFocused() {
			return m, nil
		}
		return m.focusEntry()
	}
	logging.Debug("Button clicked", zap.String("label", b.Label), zap.Stringer("command", b.Command))
	return m.press(b.Command)
}

// press submits cmd and flashes the button that issues it.
func (m Model) press(cmd remote.Command) (tea.Model, tea.Cmd) {
	if !m.submit(cmd) {
		return m, nil
	}

	i := m.layout.Index(cmd)
	if i < 0 {
		return m, nil
	}
	m.flash = i
	m.flashSeq++
	seq := m.flashSeq
	return m, tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// submit queues cmd on the dispatcher and updates the status line.
func (m *Model) submit(cmd remote.Command) bool {
	if m.dispatcher == nil {
		m.setStatus("no device", true)
		return false
	}
	if _, err := m.dispatcher.Submit(cmd); err != nil {
		m.setStatus(err.Error(), true)
		return false
	}
	m.setStatus("→ "+cmd.String(), false)
	return true
}

func (m *Model) showResult(r remote.Result) {
	if r.Err != nil {
		m.setStatus("✗ "+r.Command.String()+": "+device.GetShortErrorMessage(r.Err), true)
		return
	}
	m.setStatus("✓ "+r.Command.String()+" ("+r.Duration.Round(time.Millisecond).String()+")", false)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) setFocus(ev remote.FocusEvent) {
	bound, changed := m.binder.Handle(ev)
	if changed {
		logging.Debug("Key bindings toggled",
			zap.Stringer("event", ev),
			zap.Bool("bound", bound),
		)
	}
}

func (m Model) focusEntry() (tea.Model, tea.Cmd) {
	m.setFocus(remote.EntryFocusIn)
	cmd := m.entry.Focus()
	return m, cmd
}

func (m Model) blurEntry() (tea.Model, tea.Cmd) {
	m.entry.Blur()
	m.setFocus(remote.EntryFocusOut)
	return m, nil
}

func (m Model) openDiscovery() (tea.Model, tea.Cmd) {
	if m.binder.EntryFocused() {
		m.entry.Blur()
		m.setFocus(remote.EntryFocusOut)
	}
	m.discovery = NewDiscoveryModel(m.discover, m.styles, m.scanTimeout)
	m.discovery.SetSize(m.width, m.gridFrame().Height)
	m.showDiscovery = true
	cmd := m.discovery.Start()
	return m, cmd
}

func (m Model) updateDiscovery(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.discovery, cmd = m.discovery.Update(msg)

	if dev := m.discovery.Chosen(); dev != nil {
		m.showDiscovery = false
		m.useDevice(dev)
		return m, nil
	}
	if m.discovery.Closed() {
		m.showDiscovery = false
		return m, nil
	}
	return m, cmd
}

// useDevice points the dispatcher at dev and remembers its address.
func (m *Model) useDevice(dev *discovery.Device) {
	addr := dev.Address()
	if m.connect == nil || m.dispatcher == nil {
		m.setStatus("cannot connect to "+addr, true)
		return
	}

	proxy, err := m.connect(addr)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}

	m.dispatcher.SetDevice(proxy)
	m.settings.Device = addr
	m.deviceName = dev.String()
	m.setStatus("Connected", false)

	logging.Info("Device selected",
		zap.String("name", dev.Name),
		zap.String("address", addr),
	)
}

func (m *Model) resizeEntry() {
	cw, _ := m.gridFrame().CellSize()
	w := m.layout.Entry().ColSpan*cw - 2
	if w < 1 {
		w = 1
	}
	m.entry.Width = w
}

// gridFrame is the area left for the button grid.
func (m Model) gridFrame() remote.Frame {
	return remote.Frame{
		Width:  max(m.width, MinWidth),
		Height: max(m.height-headerLines-footerLines, MinHeight-headerLines-footerLines),
	}
}

// View renders the window
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body, helpView string
	if m.showDiscovery {
		body = lipgloss.NewStyle().
			Width(m.gridFrame().Width).
			Height(m.gridFrame().Height).
			Render(m.discovery.View())
		helpView = ""
	} else {
		body = m.renderGrid()
		helpView = m.styles.Help.Render(m.help.View(m.keys))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderMenu(),
		m.renderStatus(),
		body,
		helpView,
	)
}
