package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/rokuremote/internal/discovery"
	"github.com/muurk/rokuremote/internal/settings"
)

func newDiscovery() DiscoveryModel {
	m := NewDiscoveryModel(func(context.Context) ([]*discovery.Device, error) { return nil, nil },
		NewStyles(settings.Defaults().Colors), DefaultScanTimeout)
	m.SetSize(60, 18)
	return m
}

func TestDiscoveryIgnoresStaleScan(t *testing.T) {
	m := newDiscovery()
	m.Start()
	stale := m.scanID
	m.Start()

	m, _ = m.Update(scanCompleteMsg{id: stale, devices: []*discovery.Device{{IP: "10.0.0.1"}}})
	if !m.Scanning || len(m.Devices()) != 0 {
		t.Error("results of an earlier scan should be ignored")
	}

	m, _ = m.Update(scanCompleteMsg{id: m.scanID, err: errors.New("no network")})
	if m.Scanning || m.Err == nil {
		t.Errorf("Scanning = %v, Err = %v", m.Scanning, m.Err)
	}
}

func TestDiscoveryManualEntry(t *testing.T) {
	m := newDiscovery()
	m, _ = m.Update(scanCompleteMsg{id: m.scanID})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if !m.ManualMode {
		t.Fatal("m should open manual entry")
	}
	for _, r := range "10.0.0.9:9000" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	dev := m.Chosen()
	if dev == nil {
		t.Fatalf("no device chosen (err %v)", m.Err)
	}
	if dev.Address() != "10.0.0.9:9000" {
		t.Errorf("Address() = %q", dev.Address())
	}
}

func TestManualDevice(t *testing.T) {
	tests := []struct {
		in       string
		wantAddr string
		wantErr  bool
	}{
		{in: "192.168.1.5", wantAddr: "192.168.1.5:8060"},
		{in: " 192.168.1.5:8061 ", wantAddr: "192.168.1.5:8061"},
		{in: "roku.local", wantAddr: "roku.local:8060"},
		{in: "", wantErr: true},
		{in: "10.0.0.1:abc", wantErr: true},
		{in: "http://10.0.0.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			dev, err := manualDevice(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("manualDevice(%q) = %v, want error", tt.in, dev)
				}
				return
			}
			if err != nil {
				t.Fatalf("manualDevice(%q) error = %v", tt.in, err)
			}
			if dev.Address() != tt.wantAddr {
				t.Errorf("Address() = %q, want %q", dev.Address(), tt.wantAddr)
			}
		})
	}
}
