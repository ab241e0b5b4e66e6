package discovery

import (
	"context"
	"errors"
	"net"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/device"
	"github.com/muurk/rokuremote/internal/logging"
)

// Backend is one discovery protocol.
type Backend interface {
	ScanForDevices(ctx context.Context) ([]*Device, error)
}

// Discoverer runs several backends at once and merges what they find.
type Discoverer struct {
	Backends []Backend

	// Describe queries each device's /query/device-info to fill in its
	// name, model and serial.
	Describe bool

	// DescribeTimeout bounds each device-info query
	DescribeTimeout time.Duration
}

// NewDiscoverer returns a discoverer using SSDP and mDNS with the given
// scan timeout.
func NewDiscoverer(timeout time.Duration) *Discoverer {
	ssdpScanner := NewSSDPScanner()
	ssdpScanner.Timeout = timeout

	mdnsScanner := NewScanner()
	mdnsScanner.Timeout = timeout

	return &Discoverer{
		Backends:        []Backend{ssdpScanner, mdnsScanner},
		Describe:        true,
		DescribeTimeout: 2 * time.Second,
	}
}

// Discover runs all backends concurrently. It fails only when every
// backend fails; partial failures are logged.
func (d *Discoverer) Discover(ctx context.Context) ([]*Device, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results [][]*Device
		errs    []error
	)

	for _, b := range d.Backends {
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			found, err := b.ScanForDevices(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logging.Warn("Discovery backend failed", zap.Error(err))
				errs = append(errs, err)
				return
			}
			results = append(results, found)
		}(b)
	}
	wg.Wait()

	if len(d.Backends) > 0 && len(errs) == len(d.Backends) {
		return nil, errors.Join(errs...)
	}

	devices := Merge(results...)
	if d.Describe {
		d.describe(ctx, devices)
	}
	for _, dev := range devices {
		for _, src := range dev.Sources {
			logging.LogDiscovery(string(src), dev.Name, dev.Address())
		}
	}
	return devices, nil
}

func (d *Discoverer) describe(ctx context.Context, devices []*Device) {
	var wg sync.WaitGroup
	for _, dev := range devices {
		wg.Add(1)
		go func(dev *Device) {
			defer wg.Done()
			if err := Describe(ctx, dev, d.DescribeTimeout); err != nil {
				logging.Debug("Device info unavailable",
					zap.String("address", dev.Address()),
					zap.Error(err),
				)
			}
		}(dev)
	}
	wg.Wait()
}

// Describe fills in name, model and serial from the device itself.
func Describe(ctx context.Context, dev *Device, timeout time.Duration) error {
	client, err := device.NewClient(dev.Address())
	if err != nil {
		return err
	}
	client.SetRetry(0, 0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	info, err := client.DeviceInfo(ctx)
	if err != nil {
		return err
	}

	if name := info.DisplayName(); name != "" {
		dev.Name = name
	}
	if info.ModelName != "" {
		dev.Model = info.ModelName
	}
	if dev.Serial == "" {
		dev.Serial = info.SerialNumber
	}
	return nil
}

// Merge combines device lists, de-duplicating by IP. Fields missing from
// the first sighting are filled from later ones. The result is sorted by
// name, then IP.
func Merge(lists ...[]*Device) []*Device {
	byIP := map[string]*Device{}
	var order []string

	for _, list := range lists {
		for _, dev := range list {
			if dev == nil || dev.IP == "" {
				continue
			}
			existing, ok := byIP[dev.IP]
			if !ok {
				copied := *dev
				copied.Sources = append([]Source(nil), dev.Sources...)
				copied.Metadata = copyMetadata(dev.Metadata)
				byIP[dev.IP] = &copied
				order = append(order, dev.IP)
				continue
			}
			mergeInto(existing, dev)
		}
	}

	merged := make([]*Device, 0, len(order))
	for _, ip := range order {
		merged = append(merged, byIP[ip])
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Name != merged[j].Name {
			return merged[i].Name < merged[j].Name
		}
		return compareIP(merged[i].IP, merged[j].IP) < 0
	})
	return merged
}

func mergeInto(dst, src *Device) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Serial == "" {
		dst.Serial = src.Serial
	}
	if dst.Model == "" {
		dst.Model = src.Model
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if !src.DiscoveredAt.IsZero() && (dst.DiscoveredAt.IsZero() || src.DiscoveredAt.Before(dst.DiscoveredAt)) {
		dst.DiscoveredAt = src.DiscoveredAt
	}
	for _, s := range src.Sources {
		if !dst.HasSource(s) {
			dst.Sources = append(dst.Sources, s)
		}
	}
	for k, v := range src.Metadata {
		if dst.Metadata == nil {
			dst.Metadata = map[string]string{}
		}
		if _, ok := dst.Metadata[k]; !ok {
			dst.Metadata[k] = v
		}
	}
}

func copyMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func compareIP(a, b string) int {
	ia, ib := net.ParseIP(a), net.ParseIP(b)
	if ia == nil || ib == nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	ia, ib = ia.To16(), ib.To16()
	for i := range ia {
		if ia[i] != ib[i] {
			if ia[i] < ib[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// DiscoverDevices is a convenience function that scans with both protocols
// and describes each device found.
func DiscoverDevices(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	return NewDiscoverer(timeout).Discover(ctx)
}
