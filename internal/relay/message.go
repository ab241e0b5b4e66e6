package relay

import (
	"encoding/json"
	"fmt"

	"github.com/muurk/rokuremote/internal/remote"
)

// Message types sent by the relay.
const (
	TypeHello  = "hello"
	TypeResult = "result"
	TypeError  = "error"
)

// Request is a command sent by a relay client.
//
//	{"action":"up"}
//	{"action":"literal","text":"abc"}
//	{"action":"launch","app":"plex"}
type Request struct {
	ID     string `json:"id,omitempty"`
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
	App    string `json:"app,omitempty"`
}

// Command converts the request into a remote command.
func (r Request) Command() (remote.Command, error) {
	action, err := remote.ParseAction(r.Action)
	if err != nil {
		return remote.Command{}, err
	}

	var arg string
	switch action {
	case remote.ActionLiteral:
		arg = r.Text
	case remote.ActionLaunch:
		arg = r.App
	}
	if action.NeedsArg() && arg == "" {
		field := "text"
		if action == remote.ActionLaunch {
			field = "app"
		}
		return remote.Command{}, fmt.Errorf("action %q requires %q", action, field)
	}
	return remote.Command{Action: action, Arg: arg}, nil
}

// Response answers a request, or greets a new connection.
type Response struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Action  string `json:"action,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Device  string `json:"device,omitempty"`
	Version string `json:"version,omitempty"`
}

func parseRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("invalid message: %w", err)
	}
	if req.Action == "" {
		return req, fmt.Errorf("message has no action")
	}
	return req, nil
}
