package remote

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/logging"
)

const (
	// DefaultQueueSize bounds the number of commands waiting for the device.
	DefaultQueueSize = 64

	// DefaultCommandTimeout bounds a single command including retries.
	DefaultCommandTimeout = 10 * time.Second
)

var (
	// ErrQueueFull is returned by Submit when the device is not keeping up.
	ErrQueueFull = errors.New("command queue is full")

	// ErrNoDevice is reported for commands submitted before a device is set.
	ErrNoDevice = errors.New("no device selected")
)

// Result is the outcome of one dispatched command.
type Result struct {
	Seq      uint64
	Command  Command
	Device   string
	Err      error
	Duration time.Duration
}

type job struct {
	seq   uint64
	cmd   Command
	reply chan Result
}

// Dispatcher runs commands against a device one at a time, in the order
// they were submitted, on its own goroutine.
type Dispatcher struct {
	mu      sync.RWMutex
	dev     Device
	timeout time.Duration

	seq     atomic.Uint64
	queue   chan job
	results chan Result
}

// NewDispatcher creates a dispatcher for dev, which may be nil until
// SetDevice is called. size bounds the queue; values below 1 use
// DefaultQueueSize.
func NewDispatcher(dev Device, size int) *Dispatcher {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Dispatcher{
		dev:     dev,
		timeout: DefaultCommandTimeout,
		queue:   make(chan job, size),
		results: make(chan Result, size),
	}
}

// SetTimeout sets the per-command timeout.
func (d *Dispatcher) SetTimeout(timeout time.Duration) {
	d.mu.Lock()
	d.timeout = timeout
	d.mu.Unlock()
}

// SetDevice swaps the target device. Commands already running finish
// against the previous device.
func (d *Dispatcher) SetDevice(dev Device) {
	d.mu.Lock()
	d.dev = dev
	d.mu.Unlock()
}

// Device returns the current target device.
func (d *Dispatcher) Device() Device {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dev
}

// Results delivers the outcome of every command accepted by Submit.
// Results are dropped when nobody reads them and the buffer is full.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Submit queues cmd without blocking and returns its sequence number.
func (d *Dispatcher) Submit(cmd Command) (uint64, error) {
	j := job{seq: d.seq.Add(1), cmd: cmd}
	select {
	case d.queue <- j:
		return j.seq, nil
	default:
		return 0, ErrQueueFull
	}
}

// Do queues cmd and waits for it to run. The result is returned to the
// caller only and is not published on Results.
func (d *Dispatcher) Do(ctx context.Context, cmd Command) error {
	j := job{seq: d.seq.Add(1), cmd: cmd, reply: make(chan Result, 1)}

	select {
	case d.queue <- j:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case r := <-j.reply:
		return r.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes the queue until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j := <-d.queue:
			r := d.execute(ctx, j)
			if j.reply != nil {
				j.reply <- r
				continue
			}
			select {
			case d.results <- r:
			default:
				logging.Warn("Dropping command result, nobody is reading",
					zap.Stringer("command", r.Command),
					zap.Uint64("seq", r.Seq),
				)
			}
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, j job) Result {
	d.mu.RLock()
	dev, timeout := d.dev, d.timeout
	d.mu.RUnlock()

	r := Result{Seq: j.seq, Command: j.cmd, Device: deviceName(dev)}
	if dev == nil {
		r.Err = ErrNoDevice
		return r
	}

	cmdCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	r.Err = j.cmd.Execute(cmdCtx, dev)
	r.Duration = time.Since(start)
	return r
}

func deviceName(dev Device) string {
	if a, ok := dev.(interface{ Address() string }); ok {
		return a.Address()
	}
	return ""
}
