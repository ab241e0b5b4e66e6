package device

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/logging"
	"github.com/muurk/rokuremote/internal/version"
)

const (
	// DefaultPort is the ECP HTTP port
	DefaultPort = 8060

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the initial delay between retry attempts
	DefaultRetryDelay = 200 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 2 * time.Second

	// DefaultCacheDuration is how long the installed app list is cached
	DefaultCacheDuration = 30 * time.Second
)

// Client talks ECP to a single device.
type Client struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.1.144:8060")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// CacheDuration is how long to cache the app list (0 = no cache)
	CacheDuration time.Duration

	cachedApps []App
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

// NewClient creates a client for addr, which may be a bare host, host:port
// or a full URL. The ECP port is assumed when none is given.
func NewClient(addr string) (*Client, error) {
	baseURL, err := NormalizeAddress(addr)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseURL:       baseURL,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
		CacheDuration: DefaultCacheDuration,
	}, nil
}

// NormalizeAddress turns a user-supplied device address into a base URL
// without a trailing slash.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("device address is empty")
	}

	if strings.Contains(addr, "://") {
		u, err := url.Parse(addr)
		if err != nil {
			return "", fmt.Errorf("invalid device URL %q: %w", addr, err)
		}
		if u.Host == "" {
			return "", fmt.Errorf("invalid device URL %q: missing host", addr)
		}
		if u.Port() == "" {
			u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(DefaultPort))
		}
		return u.Scheme + "://" + u.Host, nil
	}

	if host, port, err := net.SplitHostPort(addr); err == nil {
		if _, err := strconv.Atoi(port); err != nil {
			return "", fmt.Errorf("invalid port in device address %q", addr)
		}
		return "http://" + net.JoinHostPort(host, port), nil
	}

	return "http://" + net.JoinHostPort(addr, strconv.Itoa(DefaultPort)), nil
}

// Address returns host:port of the device.
func (c *Client) Address() string {
	if u, err := url.Parse(c.BaseURL); err == nil {
		return u.Host
	}
	return c.BaseURL
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Keypress sends a single key.
func (c *Client) Keypress(ctx context.Context, key Key) error {
	_, err := c.do(ctx, http.MethodPost, "/keypress/"+string(key))
	return err
}

// Literal types text one character at a time. Each rune is its own request
// because ECP only accepts a single character per Lit_ keypress.
func (c *Client) Literal(ctx context.Context, text string) error {
	for _, r := range text {
		if _, err := c.do(ctx, http.MethodPost, "/keypress/"+literalPrefix+url.PathEscape(string(r))); err != nil {
			return err
		}
	}
	return nil
}

// Apps returns the installed channels. The list is cached for CacheDuration.
func (c *Client) Apps(ctx context.Context) ([]App, error) {
	if c.CacheDuration > 0 {
		c.cacheMutex.RLock()
		if c.cachedApps != nil && time.Since(c.cacheTime) < c.CacheDuration {
			apps := append([]App(nil), c.cachedApps...)
			c.cacheMutex.RUnlock()
			return apps, nil
		}
		c.cacheMutex.RUnlock()
	}

	body, err := c.do(ctx, http.MethodGet, "/query/apps")
	if err != nil {
		return nil, err
	}

	apps, err := parseApps(body)
	if err != nil {
		return nil, NewParseError(c.Address(), "failed to parse app list", err)
	}

	if c.CacheDuration > 0 {
		c.cacheMutex.Lock()
		c.cachedApps = apps
		c.cacheTime = time.Now()
		c.cacheMutex.Unlock()
	}

	return append([]App(nil), apps...), nil
}

// InvalidateCache forces the next Apps call to query the device.
func (c *Client) InvalidateCache() {
	c.cacheMutex.Lock()
	c.cachedApps = nil
	c.cacheMutex.Unlock()
}

// Launch starts the app with the given ID.
func (c *Client) Launch(ctx context.Context, appID string) error {
	_, err := c.do(ctx, http.MethodPost, "/launch/"+url.PathEscape(appID))
	return err
}

// FindApp returns the first installed app whose name contains ident,
// compared case-insensitively, or whose ID equals ident.
func (c *Client) FindApp(ctx context.Context, ident string) (App, error) {
	apps, err := c.Apps(ctx)
	if err != nil {
		return App{}, err
	}

	if app, ok := MatchApp(apps, ident); ok {
		return app, nil
	}
	return App{}, NewNotFoundError(c.Address(), fmt.Sprintf("no installed app matches %q", ident))
}

// LaunchMatching launches the first app matched by FindApp.
func (c *Client) LaunchMatching(ctx context.Context, ident string) (App, error) {
	app, err := c.FindApp(ctx, ident)
	if err != nil {
		return App{}, err
	}
	if err := c.Launch(ctx, app.ID); err != nil {
		return App{}, err
	}
	return app, nil
}

// ActiveApp returns the app in the foreground. On the home screen the
// device reports no app and the zero App is returned.
func (c *Client) ActiveApp(ctx context.Context) (App, error) {
	body, err := c.do(ctx, http.MethodGet, "/query/active-app")
	if err != nil {
		return App{}, err
	}

	app, err := parseActiveApp(body)
	if err != nil {
		return App{}, NewParseError(c.Address(), "failed to parse active app", err)
	}
	return app, nil
}

// DeviceInfo returns identifying information about the device.
func (c *Client) DeviceInfo(ctx context.Context) (*Info, error) {
	body, err := c.do(ctx, http.MethodGet, "/query/device-info")
	if err != nil {
		return nil, err
	}

	info, err := parseDeviceInfo(body)
	if err != nil {
		return nil, NewParseError(c.Address(), "failed to parse device info", err)
	}
	return info, nil
}

// Ping performs a simple health check on the device.
// Returns nil if the device is reachable and answering ECP queries.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doOnce(ctx, http.MethodGet, "/query/device-info")
	return err
}

// do performs a request with retries for transient failures.
func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	var body []byte

	operation := func() error {
		b, err := c.doOnce(ctx, method, path)
		if err != nil {
			if !retryable(method, err) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logging.Debug("Retrying device request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, c.backOff(ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

// retryable reports whether a failed request may be sent again. Queries
// are repeated on any transient failure. A POST is repeated only when it
// never reached the device: a keypress that timed out or drew a 5xx may
// already have been acted on.
func retryable(method string, err error) bool {
	if !IsRetryable(err) {
		return false
	}
	return method == http.MethodGet || NotDelivered(err)
}

func (c *Client) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.RetryDelay
	b.MaxInterval = c.MaxRetryDelay
	b.MaxElapsedTime = 0

	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

func (c *Client) doOnce(ctx context.Context, method, path string) ([]byte, error) {
	start := time.Now()
	device := c.Address()

	body, err := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
		if err != nil {
			return nil, &DeviceError{
				Type:    ErrTypeUnknown,
				Message: "failed to create request",
				Err:     err,
				Device:  device,
			}
		}
		req.Header.Set("User-Agent", version.UserAgent())

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, NewNetworkError(device, fmt.Sprintf("%s %s failed", method, path), err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, NewNetworkError(device, "failed to read response body", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, NewHTTPError(device, resp.StatusCode,
				fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode))
		}
		return data, nil
	}()

	logging.LogCommand(device, method, path, time.Since(start), err)
	return body, err
}
