package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/rokuremote/internal/device"
	"github.com/muurk/rokuremote/internal/discovery"
	"github.com/muurk/rokuremote/internal/remote"
	"github.com/muurk/rokuremote/internal/settings"
)

type fakeDevice struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeDevice) record(s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	return nil
}

func (f *fakeDevice) Keypress(_ context.Context, key device.Key) error {
	return f.record("key:" + string(key))
}

func (f *fakeDevice) Literal(_ context.Context, text string) error {
	return f.record("lit:" + text)
}

func (f *fakeDevice) LaunchMatching(_ context.Context, ident string) (device.App, error) {
	return device.App{ID: "1", Name: ident}, f.record("launch:" + ident)
}

func (f *fakeDevice) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// waitCalls waits for the dispatcher to deliver n calls to dev.
func waitCalls(t *testing.T, dev *fakeDevice, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if calls := dev.Calls(); len(calls) >= n {
			// Give stray extra calls a moment to show up.
			time.Sleep(20 * time.Millisecond)
			return dev.Calls()
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d calls, got %v", n, dev.Calls())
	return nil
}

func newTestModel(t *testing.T, cfg Config) (Model, *fakeDevice) {
	t.Helper()

	dev := &fakeDevice{}
	d := remote.NewDispatcher(dev, 0)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = d.Run(ctx) }()

	cfg.Dispatcher = d
	if cfg.Settings == nil {
		cfg.Settings = settings.Defaults()
	}
	m := New(cfg)
	m = update(m, tea.WindowSizeMsg{Width: 40, Height: 21})
	return m, dev
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = update(m, runes(string(r)))
	}
	return m
}

func TestKeyBindingsFollowWindowFocus(t *testing.T) {
	m, dev := newTestModel(t, Config{})

	if !m.Bound() {
		t.Fatal("bindings should start bound")
	}

	m = update(m, keyMsg(tea.KeyUp))
	m = update(m, tea.BlurMsg{})
	if m.Bound() {
		t.Error("bindings should be released when the window loses focus")
	}
	m = update(m, keyMsg(tea.KeyLeft))

	m = update(m, tea.FocusMsg{})
	if !m.Bound() {
		t.Error("bindings should return with window focus")
	}
	update(m, keyMsg(tea.KeyDown))

	want := []string{"key:Up", "key:Down"}
	if got := waitCalls(t, dev, 2); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestDefaultKeyBindings(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{name: "enter selects", msg: keyMsg(tea.KeyEnter), want: "key:Select"},
		{name: "minus", msg: runes("-"), want: "key:VolumeDown"},
		{name: "plus", msg: runes("+"), want: "key:VolumeUp"},
		{name: "equals", msg: runes("="), want: "key:VolumeUp"},
		{name: "space plays", msg: tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, want: "key:Play"},
		{name: "backspace goes back", msg: keyMsg(tea.KeyBackspace), want: "key:Back"},
		{name: "home", msg: runes("h"), want: "key:Home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, dev := newTestModel(t, Config{})
			update(m, tt.msg)

			got := waitCalls(t, dev, 1)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("calls = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestEntryTypingSendsEdits(t *testing.T) {
	m, dev := newTestModel(t, Config{})

	m = update(m, keyMsg(tea.KeyTab))
	if m.Bound() {
		t.Fatal("bindings should be released while the entry has focus")
	}

	m = typeText(m, "abc")
	m = update(m, keyMsg(tea.KeyBackspace))
	m = update(m, keyMsg(tea.KeyEnter))
	m = update(m, keyMsg(tea.KeyTab))
	if !m.Bound() {
		t.Fatal("bindings should return when the entry loses focus")
	}
	update(m, runes("h"))

	want := []string{"lit:a", "lit:b", "lit:c", "key:Backspace", "key:Enter", "key:Home"}
	if got := waitCalls(t, dev, len(want)); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v\nwant    %v", got, want)
	}
}

func TestEntryResendsEditsRejectedByFullQueue(t *testing.T) {
	dev := &fakeDevice{}
	d := remote.NewDispatcher(dev, 1)

	m := New(Config{Dispatcher: d, Settings: settings.Defaults()})
	m = update(m, tea.WindowSizeMsg{Width: 40, Height: 21})
	m = update(m, keyMsg(tea.KeyTab))

	// The queue holds one command and nothing is draining it yet.
	m = typeText(m, "ab")
	if m.entry.Value() != "ab" {
		t.Fatalf("entry = %q, want ab", m.entry.Value())
	}
	if m.tracker.Text() != "a" {
		t.Errorf("tracker = %q, want a (the rejected b was never sent)", m.tracker.Text())
	}
	if !m.statusErr {
		t.Error("a rejected edit should be reported in the status line")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = d.Run(ctx) }()
	waitCalls(t, dev, 1)

	m = typeText(m, "c")
	if m.tracker.Text() != "abc" {
		t.Errorf("tracker = %q, want abc", m.tracker.Text())
	}

	want := []string{"lit:a", "lit:bc"}
	if got := waitCalls(t, dev, len(want)); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestEscClearsEntryWithoutEdits(t *testing.T) {
	m, dev := newTestModel(t, Config{})

	m = update(m, keyMsg(tea.KeyTab))
	m = typeText(m, "x")
	m = update(m, keyMsg(tea.KeyEsc))

	if m.entry.Value() != "" {
		t.Errorf("entry = %q, want empty", m.entry.Value())
	}
	if m.tracker.Text() != "" {
		t.Errorf("tracker = %q, want empty", m.tracker.Text())
	}
	if !m.Bound() {
		t.Error("Esc should leave the entry")
	}

	if got := waitCalls(t, dev, 1); len(got) != 1 || got[0] != "lit:x" {
		t.Errorf("calls = %v, want [lit:x]", got)
	}
}

func TestMouseClickPressesButton(t *testing.T) {
	m, dev := newTestModel(t, Config{})

	// 40x21 leaves a 40x18 grid: cells are 10 wide and 3 high, starting
	// below the menu and status lines.
	click := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	m = update(m, click(25, headerLines+4))
	if m.flash < 0 || m.layout.Buttons[m.flash].Command != remote.Key(remote.ActionSelect) {
		t.Errorf("flash = %d, want the OK button", m.flash)
	}

	m = update(m, tea.MouseMsg{X: 25, Y: headerLines + 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = update(m, click(5, headerLines+7)) // app column, row 2: PC

	m = update(m, click(15, headerLines+16))
	if !m.binder.EntryFocused() {
		t.Error("clicking the entry should focus it")
	}

	want := []string{"key:Select", "launch:computer"}
	if got := waitCalls(t, dev, 2); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestFlashClears(t *testing.T) {
	m, _ := newTestModel(t, Config{})

	m = update(m, keyMsg(tea.KeyUp))
	if m.flash < 0 {
		t.Fatal("pressed button should flash")
	}
	seq := m.flashSeq

	m = update(m, flashDoneMsg{seq: seq - 1})
	if m.flash < 0 {
		t.Error("stale flashDoneMsg should not clear the flash")
	}
	m = update(m, flashDoneMsg{seq: seq})
	if m.flash >= 0 {
		t.Error("flash should clear")
	}
}

func TestQuitAndRestart(t *testing.T) {
	m, _ := newTestModel(t, Config{})

	next, cmd := m.Update(keyMsg(tea.KeyCtrlR))
	if cmd == nil || !next.(Model).RestartRequested() {
		t.Error("^R should quit with a restart request")
	}

	next, cmd = m.Update(keyMsg(tea.KeyCtrlQ))
	if cmd == nil || next.(Model).RestartRequested() {
		t.Error("^Q should quit without a restart request")
	}
	if next.(Model).View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestWindowSizeRecordedInSettings(t *testing.T) {
	s := settings.Defaults()
	m, _ := newTestModel(t, Config{Settings: s})

	m = update(m, tea.WindowSizeMsg{Width: 90, Height: 33})

	if got := m.Settings(); got.Width != 90 || got.Height != 33 {
		t.Errorf("Settings() size = %dx%d, want 90x33", got.Width, got.Height)
	}
	if s.Width != settings.DefaultWidth {
		t.Error("the caller's settings should not be modified")
	}
}

func TestResultUpdatesStatus(t *testing.T) {
	m, _ := newTestModel(t, Config{})

	m = update(m, resultMsg{Command: remote.Key(remote.ActionUp), Err: errors.New("boom")})
	if !m.statusErr || !strings.Contains(m.status, "boom") {
		t.Errorf("status = %q (err %v)", m.status, m.statusErr)
	}

	m = update(m, resultMsg{Command: remote.Key(remote.ActionUp), Duration: 12 * time.Millisecond})
	if m.statusErr || !strings.Contains(m.status, "12ms") {
		t.Errorf("status = %q (err %v)", m.status, m.statusErr)
	}
}

func TestDiscoveryPicksDevice(t *testing.T) {
	found := []*discovery.Device{
		{Name: "Bedroom", IP: "192.168.1.20", Port: 8060},
		{Name: "Den", IP: "192.168.1.30", Port: 8060},
	}
	picked := &fakeDevice{}
	var connected string

	m, old := newTestModel(t, Config{
		Discover: func(context.Context) ([]*discovery.Device, error) { return found, nil },
		Connect: func(addr string) (remote.Device, error) {
			connected = addr
			return picked, nil
		},
	})

	m = update(m, keyMsg(tea.KeyCtrlD))
	if !m.showDiscovery || !m.discovery.Scanning {
		t.Fatal("^D should open the discovery panel and scan")
	}

	m = update(m, scanCompleteMsg{id: m.discovery.scanID, devices: found})
	if len(m.discovery.Devices()) != 2 {
		t.Fatalf("listed %d devices, want 2", len(m.discovery.Devices()))
	}

	// Keys go to the panel, not the remote.
	m = update(m, keyMsg(tea.KeyDown))
	m = update(m, keyMsg(tea.KeyEnter))

	if m.showDiscovery {
		t.Error("panel should close after choosing a device")
	}
	if connected != "192.168.1.30:8060" {
		t.Errorf("connected to %q, want the second device", connected)
	}
	if m.Settings().Device != "192.168.1.30:8060" {
		t.Errorf("Settings().Device = %q", m.Settings().Device)
	}
	if !strings.Contains(m.deviceName, "Den") {
		t.Errorf("deviceName = %q", m.deviceName)
	}

	update(m, keyMsg(tea.KeyUp))
	if got := waitCalls(t, picked, 1); got[0] != "key:Up" {
		t.Errorf("new device calls = %v", got)
	}
	if calls := old.Calls(); len(calls) != 0 {
		t.Errorf("old device got %v", calls)
	}
}

func TestDiscoveryClose(t *testing.T) {
	m, _ := newTestModel(t, Config{
		Discover: func(context.Context) ([]*discovery.Device, error) { return nil, nil },
	})

	m = update(m, keyMsg(tea.KeyCtrlD))
	m = update(m, keyMsg(tea.KeyEsc))
	if m.showDiscovery {
		t.Error("Esc should close the discovery panel")
	}
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t, Config{DeviceName: "Living Room"})
	m = update(m, tea.WindowSizeMsg{Width: 72, Height: 26})

	view := m.View()
	for _, want := range []string{"^R", "restart", "^Q", "Living Room", "OK", "VOL+", "PLEX", "DEL"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestRenderGridLineCount(t *testing.T) {
	m, _ := newTestModel(t, Config{})

	lines := strings.Split(m.renderGrid(), "\n")
	_, ch := m.gridFrame().CellSize()
	if len(lines) != ch*remote.GridRows {
		t.Errorf("grid has %d lines, want %d", len(lines), ch*remote.GridRows)
	}
}
