package relay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/logging"
)

// CaptureRecord is one relay message written to the capture file.
type CaptureRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	RemoteAddr string    `json:"remote_addr"`
	Direction  string    `json:"direction"`
	Length     int       `json:"length"`
	Payload    string    `json:"payload"`
}

// capture appends relay traffic to a JSON Lines file, one per day.
// A nil capture records nothing.
type capture struct {
	dir string
	mu  sync.Mutex
}

func newCapture(dir string) *capture {
	if dir == "" {
		return nil
	}
	return &capture{dir: dir}
}

func (c *capture) record(remoteAddr, direction string, payload []byte) {
	if c == nil {
		return
	}

	now := time.Now()
	filename := filepath.Join(c.dir, fmt.Sprintf("relay-%s.jsonl", now.Format("20060102")))

	data, err := json.Marshal(CaptureRecord{
		Timestamp:  now,
		RemoteAddr: remoteAddr,
		Direction:  direction,
		Length:     len(payload),
		Payload:    string(payload),
	})
	if err != nil {
		logging.Error("Failed to marshal capture record", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		logging.Error("Failed to create capture directory",
			zap.String("dir", c.dir),
			zap.Error(err),
		)
		return
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logging.Error("Failed to open capture file",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		logging.Error("Failed to write capture file",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}
