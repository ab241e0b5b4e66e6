package discovery

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/koron/go-ssdp"
)

// SearchTarget is the SSDP ST that Roku players answer.
const SearchTarget = "roku:ecp"

// SearchFunc performs an SSDP M-SEARCH. It matches ssdp.Search.
type SearchFunc func(searchType string, waitSec int, localAddr string) ([]ssdp.Service, error)

// SSDPScanner finds Roku players with an SSDP M-SEARCH.
type SSDPScanner struct {
	// Timeout is how long to collect responses. Rounded up to whole seconds.
	Timeout time.Duration

	// Target is the search target
	Target string

	// LocalAddr binds the search socket, empty for the default interface
	LocalAddr string

	search SearchFunc
}

// NewSSDPScanner creates an SSDP scanner with default settings
func NewSSDPScanner() *SSDPScanner {
	return &SSDPScanner{
		Timeout: DefaultScanTimeout,
		Target:  SearchTarget,
		search:  ssdp.Search,
	}
}

// ScanForDevices sends one M-SEARCH and returns the Roku players that answer.
// ssdp.Search blocks for the whole wait period, so cancelling ctx returns
// early and abandons the search.
func (s *SSDPScanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	waitSec := int((s.Timeout + time.Second - 1) / time.Second)
	if waitSec < 1 {
		waitSec = 1
	}

	type result struct {
		services []ssdp.Service
		err      error
	}
	done := make(chan result, 1)

	go func() {
		services, err := s.search(s.Target, waitSec, s.LocalAddr)
		done <- result{services, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("SSDP search failed: %w", r.err)
		}

		devices := make([]*Device, 0, len(r.services))
		for _, svc := range r.services {
			if d := parseSSDPService(svc); d != nil {
				devices = append(devices, d)
			}
		}
		return devices, nil
	}
}

// parseSSDPService converts a search response into a Device.
// Returns nil if the response is not from a Roku player.
//
//	ST: roku:ecp
//	USN: uuid:roku:ecp:P0A070000007
//	LOCATION: http://192.168.1.134:8060/
func parseSSDPService(svc ssdp.Service) *Device {
	if !strings.EqualFold(svc.Type, SearchTarget) && !strings.Contains(strings.ToLower(svc.USN), SearchTarget) {
		return nil
	}

	u, err := url.Parse(svc.Location)
	if err != nil || u.Hostname() == "" {
		return nil
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	ip := u.Hostname()
	if parsed := net.ParseIP(ip); parsed == nil {
		return nil
	}

	metadata := map[string]string{}
	if svc.Server != "" {
		metadata["server"] = svc.Server
	}
	metadata["usn"] = svc.USN

	return &Device{
		Serial:       serialFromUSN(svc.USN),
		IP:           ip,
		Port:         port,
		Location:     svc.Location,
		Sources:      []Source{SourceSSDP},
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

func serialFromUSN(usn string) string {
	idx := strings.LastIndex(strings.ToLower(usn), SearchTarget+":")
	if idx < 0 {
		return ""
	}
	return usn[idx+len(SearchTarget)+1:]
}
