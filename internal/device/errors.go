package device

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/muurk/rokuremote/internal/urls"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the device refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-2xx status code
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
	// ErrTypeNotFound indicates a requested app or key does not exist
	ErrTypeNotFound
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred during device communication
type DeviceError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	Device         string              // Device address (for context)
	Retryable      bool                // Whether the error is retryable
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// dialFailures maps the errno of a failed connection to its classification.
var dialFailures = []struct {
	errno   syscall.Errno
	typ     ErrorType
	subtype NetworkErrorSubtype
	message string
}{
	{syscall.ECONNREFUSED, ErrTypeConnectionRefused, NetworkErrorConnectionRefused, "Device refused connection on the ECP port"},
	{syscall.EHOSTUNREACH, ErrTypeNetwork, NetworkErrorHostUnreachable, "Host unreachable"},
	{syscall.ENETUNREACH, ErrTypeNetwork, NetworkErrorNetworkUnreachable, "Network unreachable"},
}

// ClassifyNetworkError turns a transport error into a DeviceError. Only DNS
// failures are treated as permanent.
func ClassifyNetworkError(err error, device string) *DeviceError {
	if err == nil {
		return nil
	}

	devErr := &DeviceError{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Device:         device,
		Retryable:      true,
	}

	var (
		timeout interface{ Timeout() bool }
		dnsErr  *net.DNSError
	)
	switch {
	case errors.As(err, &timeout) && timeout.Timeout():
		devErr.Type = ErrTypeTimeout
		devErr.NetworkSubtype = NetworkErrorTimeout
		devErr.Message = "Request timed out"

	case errors.As(err, &dnsErr):
		devErr.Type = ErrTypeDNS
		devErr.NetworkSubtype = NetworkErrorDNS
		devErr.Message = fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
		devErr.Retryable = false

	default:
		for _, f := range dialFailures {
			if errors.Is(err, f.errno) {
				devErr.Type = f.typ
				devErr.NetworkSubtype = f.subtype
				devErr.Message = f.message
				break
			}
		}
	}
	return devErr
}

// NewNetworkError classifies err and replaces its message.
func NewNetworkError(device, message string, err error) *DeviceError {
	devErr := ClassifyNetworkError(err, device)
	if devErr == nil {
		devErr = &DeviceError{Type: ErrTypeNetwork, Device: device, Retryable: true}
	}
	devErr.Message = message
	return devErr
}

// NewHTTPError creates an HTTP-level error. Server errors are retryable.
func NewHTTPError(device string, statusCode int, message string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Device:     device,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a parsing error
func NewParseError(device, message string, err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
		Device:  device,
	}
}

// NewNotFoundError reports a missing app or unknown key.
func NewNotFoundError(device, message string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Device:     device,
	}
}

func asDeviceError(err error) (*DeviceError, bool) {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	if devErr, ok := asDeviceError(err); ok {
		return devErr.Type == ErrTypeNetwork ||
			devErr.Type == ErrTypeTimeout ||
			devErr.Type == ErrTypeConnectionRefused ||
			devErr.Type == ErrTypeDNS
	}
	return false
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	if devErr, ok := asDeviceError(err); ok {
		return devErr.Type == ErrTypeHTTP
	}
	return false
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	if devErr, ok := asDeviceError(err); ok {
		return devErr.Type == ErrTypeParse
	}
	return false
}

// IsNotFound checks if an error reports a missing app or key
func IsNotFound(err error) bool {
	if devErr, ok := asDeviceError(err); ok {
		return devErr.Type == ErrTypeNotFound
	}
	return false
}

// NotDelivered reports whether err shows the request never reached the
// device: the connection was refused, the host or network was unreachable,
// or dialing failed.
func NotDelivered(err error) bool {
	if devErr, ok := asDeviceError(err); ok {
		switch {
		case devErr.Type == ErrTypeConnectionRefused, devErr.Type == ErrTypeDNS:
			return true
		case devErr.NetworkSubtype == NetworkErrorHostUnreachable,
			devErr.NetworkSubtype == NetworkErrorNetworkUnreachable:
			return true
		}
	}

	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	if devErr, ok := asDeviceError(err); ok {
		return devErr.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// GetShortErrorMessage returns a concise message suitable for a status line
func GetShortErrorMessage(err error) string {
	devErr, ok := asDeviceError(err)
	if !ok {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return "Device not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Device refused connection - is ECP enabled?"
	case ErrTypeDNS:
		return "Cannot resolve device hostname"
	case ErrTypeNetwork:
		switch devErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Device unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check WiFi connection"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		if devErr.StatusCode == http.StatusForbidden {
			return "Device rejected the command (HTTP 403) - enable control by mobile apps"
		}
		return fmt.Sprintf("Device error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse device response"
	default:
		return devErr.Message
	}
}

// GetTroubleshootingHint returns troubleshooting tips for an error
func GetTroubleshootingHint(err error) []string {
	devErr, ok := asDeviceError(err)
	if !ok {
		return []string{"An unexpected error occurred. Please try again."}
	}

	switch devErr.Type {
	case ErrTypeTimeout, ErrTypeConnectionRefused:
		return []string{
			"Check that the device is powered on and on the same network",
			"Verify the address with 'roku-remote discover'",
			"ECP listens on port 8060; make sure nothing blocks it",
		}
	case ErrTypeDNS:
		return []string{
			"Use the IP address instead of a hostname",
			"Check your network DNS settings",
		}
	case ErrTypeNetwork:
		tips := []string{"Check your network connection"}
		if devErr.NetworkSubtype == NetworkErrorHostUnreachable && devErr.Device != "" {
			tips = append(tips, "Try pinging the device: ping "+hostOnly(devErr.Device))
		}
		return append(tips, "Verify the device is powered on")
	case ErrTypeHTTP:
		if devErr.StatusCode == http.StatusForbidden {
			return []string{
				"Open Settings > System > Advanced system settings > Control by mobile apps",
				"Set Network access to Default or Permissive",
				"See " + urls.ECPReference,
			}
		}
		return []string{
			fmt.Sprintf("The device returned HTTP %d. Check the command name.", devErr.StatusCode),
			"Key names are listed at " + urls.ECPReference,
		}
	case ErrTypeNotFound:
		return []string{"List installed apps with 'roku-remote apps'"}
	default:
		return []string{"Run with --log-level debug for details"}
	}
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.TrimPrefix(addr, "http://")
}
