package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/device"
	"github.com/muurk/rokuremote/internal/logging"
	"github.com/muurk/rokuremote/internal/version"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBuffer = 32
)

type client struct {
	srv        *Server
	conn       *websocket.Conn
	send       chan Response
	remoteAddr string

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(srv *Server, conn *websocket.Conn, remoteAddr string) *client {
	return &client{
		srv:        srv,
		conn:       conn,
		send:       make(chan Response, sendBuffer),
		remoteAddr: remoteAddr,
		done:       make(chan struct{}),
	}
}

// close sends a close frame and tears the connection down. Safe to call
// more than once and from any goroutine.
func (c *client) close(code int, text string) {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(code, text)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		close(c.done)
		_ = c.conn.Close()
	})
}

// enqueue hands r to the write pump. It returns false once the client is
// closed.
func (c *client) enqueue(r Response) bool {
	select {
	case c.send <- r:
		return true
	case <-c.done:
		return false
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case r := <-c.send:
			data, err := json.Marshal(r)
			if err != nil {
				logging.Error("Failed to marshal relay response", zap.Error(err))
				continue
			}
			logging.LogRelayMessage(c.remoteAddr, "sent", data)
			c.srv.capture.record(c.remoteAddr, "sent", data)

			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logging.Info("Relay write failed",
						zap.String("remote_addr", c.remoteAddr),
						zap.Error(err),
					)
				}
				c.close(websocket.CloseAbnormalClosure, "")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close(websocket.CloseAbnormalClosure, "")
				return
			}
		}
	}
}

// readPump handles requests one at a time, so a connection's commands
// reach the dispatcher in the order they were sent.
func (c *client) readPump(ctx context.Context) {
	defer c.close(websocket.CloseNormalClosure, "")

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Relay connection closed unexpectedly",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		logging.LogRelayMessage(c.remoteAddr, "received", data)
		c.srv.capture.record(c.remoteAddr, "received", data)

		if !c.enqueue(c.srv.handle(ctx, data)) {
			return
		}
	}
}

func (c *client) hello() Response {
	return Response{
		Type:    TypeHello,
		OK:      true,
		Device:  c.srv.config.DeviceName,
		Version: version.Version,
	}
}

// handle runs one request and builds its response.
func (s *Server) handle(ctx context.Context, data []byte) Response {
	req, err := parseRequest(data)
	if err != nil {
		return Response{Type: TypeError, ID: req.ID, Error: err.Error()}
	}

	resp := Response{Type: TypeResult, ID: req.ID, Action: req.Action}

	cmd, err := req.Command()
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Action = string(cmd.Action)

	cmdCtx, cancel := context.WithTimeout(ctx, s.config.CommandTimeout)
	defer cancel()

	if err := s.commander.Do(cmdCtx, cmd); err != nil {
		resp.Error = device.GetShortErrorMessage(err)
		return resp
	}
	resp.OK = true
	return resp
}
