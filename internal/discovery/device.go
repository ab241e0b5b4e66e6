package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Source records which protocol found a device.
type Source string

const (
	SourceSSDP Source = "ssdp"
	SourceMDNS Source = "mdns"
)

// Device represents a discovered Roku player on the network
type Device struct {
	// Name is a human-readable name (user device name, model or mDNS instance)
	Name string

	// Serial is the device serial number (e.g., "X004000AW3BD")
	Serial string

	// Model is the model name or number when known
	Model string

	// IP is the device address (e.g., "192.168.1.144")
	IP string

	// Port is the ECP port (8060)
	Port int

	// Location is the SSDP LOCATION URL, if found over SSDP
	Location string

	// Sources lists the protocols that reported the device
	Sources []Source

	// Metadata contains extra fields: mDNS TXT records or SSDP headers
	Metadata map[string]string

	// DiscoveredAt is when the device was first seen
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	name := d.Name
	if name == "" {
		name = "Roku"
	}
	if d.Serial != "" {
		return fmt.Sprintf("%s [%s] at %s", name, d.Serial, d.Address())
	}
	return fmt.Sprintf("%s at %s", name, d.Address())
}

// Address returns host:port suitable for device.NewClient
func (d *Device) Address() string {
	port := d.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(d.IP, strconv.Itoa(port))
}

// BaseURL returns the ECP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + d.Address()
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}

// HasSource reports whether src reported the device.
func (d *Device) HasSource(src Source) bool {
	for _, s := range d.Sources {
		if s == src {
			return true
		}
	}
	return false
}
