package device

import (
	"encoding/xml"
	"strings"
)

// App is an installed channel as reported by /query/apps.
type App struct {
	ID      string `xml:"id,attr" json:"id"`
	Type    string `xml:"type,attr" json:"type,omitempty"`
	Version string `xml:"version,attr" json:"version,omitempty"`
	Name    string `xml:",chardata" json:"name"`
}

// IsHome reports whether the app is the home screen placeholder that
// /query/active-app returns when no channel is running.
func (a App) IsHome() bool {
	return a.ID == ""
}

// String implements fmt.Stringer
func (a App) String() string {
	if a.ID == "" {
		return a.Name
	}
	return a.Name + " (" + a.ID + ")"
}

// Info holds the subset of /query/device-info the tools display.
type Info struct {
	UDN             string `xml:"udn" json:"udn,omitempty"`
	SerialNumber    string `xml:"serial-number" json:"serial_number"`
	DeviceID        string `xml:"device-id" json:"device_id,omitempty"`
	VendorName      string `xml:"vendor-name" json:"vendor_name"`
	ModelName       string `xml:"model-name" json:"model_name"`
	ModelNumber     string `xml:"model-number" json:"model_number"`
	FriendlyName    string `xml:"friendly-device-name" json:"friendly_name,omitempty"`
	UserDeviceName  string `xml:"user-device-name" json:"user_device_name,omitempty"`
	SoftwareVersion string `xml:"software-version" json:"software_version"`
	SoftwareBuild   string `xml:"software-build" json:"software_build,omitempty"`
	PowerMode       string `xml:"power-mode" json:"power_mode,omitempty"`
	NetworkType     string `xml:"network-type" json:"network_type,omitempty"`
	NetworkName     string `xml:"network-name" json:"network_name,omitempty"`
	WifiMAC         string `xml:"wifi-mac" json:"wifi_mac,omitempty"`
	EthernetMAC     string `xml:"ethernet-mac" json:"ethernet_mac,omitempty"`
	IsTV            bool   `xml:"is-tv" json:"is_tv"`
	SearchEnabled   bool   `xml:"search-enabled" json:"search_enabled"`
}

// DisplayName picks the most descriptive name the device reports.
func (i *Info) DisplayName() string {
	switch {
	case i.UserDeviceName != "":
		return i.UserDeviceName
	case i.FriendlyName != "":
		return i.FriendlyName
	case i.ModelName != "":
		return i.ModelName
	default:
		return i.SerialNumber
	}
}

type appsDoc struct {
	XMLName xml.Name `xml:"apps"`
	Apps    []App    `xml:"app"`
}

type activeAppDoc struct {
	XMLName xml.Name `xml:"active-app"`
	App     App      `xml:"app"`
}

func parseApps(data []byte) ([]App, error) {
	var doc appsDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	apps := make([]App, 0, len(doc.Apps))
	for _, a := range doc.Apps {
		a.Name = strings.TrimSpace(a.Name)
		apps = append(apps, a)
	}
	return apps, nil
}

func parseActiveApp(data []byte) (App, error) {
	var doc activeAppDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return App{}, err
	}
	doc.App.Name = strings.TrimSpace(doc.App.Name)
	return doc.App, nil
}

func parseDeviceInfo(data []byte) (*Info, error) {
	var info Info
	if err := xml.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// MatchApp returns the first app whose ID equals ident or whose name
// contains ident, ignoring case. An exact ID match wins over a name match.
func MatchApp(apps []App, ident string) (App, bool) {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return App{}, false
	}

	for _, a := range apps {
		if a.ID == ident {
			return a, true
		}
	}

	needle := strings.ToLower(ident)
	for _, a := range apps {
		if strings.Contains(strings.ToLower(a.Name), needle) {
			return a, true
		}
	}
	return App{}, false
}
