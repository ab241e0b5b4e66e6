// Package discovery locates Roku players on the local network.
//
// Two protocols are used side by side:
//   - SSDP: an M-SEARCH for "roku:ecp". Every player answers with its
//     serial number in the USN header and its ECP base URL in LOCATION.
//   - mDNS: a browse for "_airplay._tcp" (configurable), filtered to
//     entries whose TXT records or names identify a Roku.
//
// Results are merged by IP address and, unless disabled, each device is
// asked for /query/device-info so the list shows its user-assigned name.
//
// # Usage Example
//
//	devices, err := discovery.DiscoverDevices(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// # Network Requirements
//
//   - Multicast must be allowed on the network interface
//   - The player must be on the same network segment
//   - Firewalls must allow UDP 1900 (SSDP) and UDP 5353 (mDNS)
package discovery
