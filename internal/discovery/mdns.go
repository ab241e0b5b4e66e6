package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// MDNSServiceType is the service Roku players advertise over mDNS.
	// Players with AirPlay support announce "_airplay._tcp"; ECP itself has
	// no mDNS service, so entries are filtered by their TXT records.
	MDNSServiceType = "_airplay._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the ECP port
	DefaultPort = 8060
)

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	// ServiceType is the mDNS service to browse
	ServiceType string
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:     DefaultScanTimeout,
		ServiceType: MDNSServiceType,
	}
}

// ScanForDevices discovers Roku players on the local network over mDNS.
func (s *Scanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)

	var mu sync.Mutex
	devices := make([]*Device, 0)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if device := s.parseServiceEntry(entry); device != nil {
					mu.Lock()
					devices = append(devices, device)
					mu.Unlock()
				}
			}
		}
	}()

	if err := resolver.Browse(ctx, s.ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Device(nil), devices...), nil
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil if the entry is not a Roku player.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	if !isRoku(entry, metadata) {
		return nil
	}

	// Prefer IPv4; ECP is reachable on either
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	name := entry.Instance
	if name == "" {
		name = strings.TrimSuffix(strings.TrimSuffix(entry.HostName, "."), ".local")
	}

	return &Device{
		Name:         unescapeInstance(name),
		Serial:       firstNonEmpty(metadata["serialNumber"], metadata["serialnumber"]),
		Model:        metadata["model"],
		IP:           ip,
		Port:         DefaultPort,
		Sources:      []Source{SourceMDNS},
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

func isRoku(entry *zeroconf.ServiceEntry, metadata map[string]string) bool {
	if strings.EqualFold(metadata["manufacturer"], "roku") {
		return true
	}
	return strings.Contains(strings.ToLower(entry.Instance), "roku") ||
		strings.Contains(strings.ToLower(entry.HostName), "roku")
}

// unescapeInstance undoes DNS-SD escaping of spaces and dots in instance names.
func unescapeInstance(name string) string {
	return strings.NewReplacer(`\ `, " ", `\.`, ".").Replace(name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
