package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/logging"
	"github.com/muurk/rokuremote/internal/remote"
)

const (
	// DefaultListen is the relay listen address
	DefaultListen = "127.0.0.1:8765"

	// DefaultPath is the WebSocket endpoint path
	DefaultPath = "/ws"

	// DefaultCommandTimeout bounds a single relayed command
	DefaultCommandTimeout = 15 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Commander runs a command and waits for its outcome. *remote.Dispatcher
// satisfies it.
type Commander interface {
	Do(ctx context.Context, cmd remote.Command) error
}

// Config holds the relay configuration
type Config struct {
	Listen         string
	Path           string
	CommandTimeout time.Duration
	DeviceName     string // reported to clients in the hello message
	CaptureDir     string // directory for JSON Lines traffic capture (empty = disabled)

	// CheckOrigin overrides the same-origin check for browser clients.
	CheckOrigin func(r *http.Request) bool
}

// Server is the WebSocket command relay.
type Server struct {
	config    Config
	commander Commander
	hub       *Hub
	capture   *capture
	upgrader  websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	http *http.Server
}

// New creates a relay that sends every command through commander.
func New(config Config, commander Commander) *Server {
	if config.Listen == "" {
		config.Listen = DefaultListen
	}
	if config.Path == "" {
		config.Path = DefaultPath
	}
	if config.CommandTimeout <= 0 {
		config.CommandTimeout = DefaultCommandTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config:    config,
		commander: commander,
		hub:       newHub(),
		capture:   newCapture(config.CaptureDir),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Handler returns the relay's HTTP routes: the WebSocket endpoint and a
// /healthz probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe listens on the configured address and serves until ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	logging.Info("Relay listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("path", s.config.Path),
		zap.String("device", s.config.DeviceName),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping relay...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops accepting connections, closes every client and waits
// for their goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	s.hub.closeAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All relay connections closed")
	case <-ctx.Done():
		logging.Warn("Relay shutdown timed out, forcing close")
	}

	logging.Sync()
	return err
}

// ActiveConnections returns the number of connected clients.
func (s *Server) ActiveConnections() int {
	return s.hub.Len()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := newClient(s, conn, r.RemoteAddr)
	n := s.hub.add(c)
	logging.LogConnection(c.remoteAddr, "connected")
	logging.Debug("Relay clients", zap.Int("clients", n))

	c.enqueue(c.hello())

	// The pumps outlive the request; their lifetime is the server's.
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		c.writePump()
	}()
	go func() {
		defer s.wg.Done()
		c.readPump(s.ctx)
		if n, ok := s.hub.remove(c); ok {
			logging.LogConnection(c.remoteAddr, "disconnected")
			logging.Debug("Relay clients", zap.Int("clients", n))
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":      true,
		"clients": s.hub.Len(),
		"device":  s.config.DeviceName,
	})
}

// IsLoopback reports whether addr only accepts connections from this host.
func IsLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
