package remote

import (
	"context"
	"errors"
	"testing"
	"time"
)

func startDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func waitResult(t *testing.T, d *Dispatcher) Result {
	t.Helper()
	select {
	case r := <-d.Results():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result{}
	}
}

func TestDispatcher_RunsInOrder(t *testing.T) {
	dev := &fakeDevice{}
	d := NewDispatcher(dev, 16)
	startDispatcher(t, d)

	cmds := []Command{Key(ActionUp), Literal("a"), Key(ActionDown), Literal("b")}
	for _, c := range cmds {
		if _, err := d.Submit(c); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	var prev uint64
	for range cmds {
		r := waitResult(t, d)
		if r.Err != nil {
			t.Errorf("result %v error = %v", r.Command, r.Err)
		}
		if r.Seq <= prev {
			t.Errorf("result seq %d after %d", r.Seq, prev)
		}
		if r.Device != "fake:8060" {
			t.Errorf("Device = %q", r.Device)
		}
		prev = r.Seq
	}

	want := []string{"key:Up", "lit:a", "key:Down", "lit:b"}
	got := dev.Calls()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(&fakeDevice{}, 2)

	// Not running, so nothing drains the queue.
	for i := 0; i < 2; i++ {
		if _, err := d.Submit(Key(ActionUp)); err != nil {
			t.Fatalf("Submit() %d error = %v", i, err)
		}
	}
	if _, err := d.Submit(Key(ActionUp)); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Submit() error = %v, want ErrQueueFull", err)
	}
}

func TestDispatcher_NoDevice(t *testing.T) {
	d := NewDispatcher(nil, 4)
	startDispatcher(t, d)

	if _, err := d.Submit(Key(ActionHome)); err != nil {
		t.Fatal(err)
	}
	if r := waitResult(t, d); !errors.Is(r.Err, ErrNoDevice) {
		t.Errorf("Err = %v, want ErrNoDevice", r.Err)
	}
}

func TestDispatcher_SetDevice(t *testing.T) {
	first, second := &fakeDevice{}, &fakeDevice{}
	d := NewDispatcher(first, 4)
	startDispatcher(t, d)

	if err := d.Do(context.Background(), Key(ActionHome)); err != nil {
		t.Fatal(err)
	}
	d.SetDevice(second)
	if d.Device() != second {
		t.Error("Device() did not return the new device")
	}
	if err := d.Do(context.Background(), Key(ActionBack)); err != nil {
		t.Fatal(err)
	}

	if len(first.Calls()) != 1 || len(second.Calls()) != 1 {
		t.Errorf("first=%v second=%v", first.Calls(), second.Calls())
	}
}

func TestDispatcher_DoReturnsDeviceError(t *testing.T) {
	boom := errors.New("boom")
	d := NewDispatcher(&fakeDevice{err: boom}, 4)
	startDispatcher(t, d)

	if err := d.Do(context.Background(), Key(ActionUp)); !errors.Is(err, boom) {
		t.Errorf("Do() error = %v, want boom", err)
	}

	select {
	case r := <-d.Results():
		t.Errorf("Do() result leaked onto Results(): %+v", r)
	default:
	}
}

func TestDispatcher_DoHonoursContext(t *testing.T) {
	dev := &fakeDevice{block: make(chan struct{})}
	d := NewDispatcher(dev, 4)
	startDispatcher(t, d)
	defer close(dev.block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := d.Do(ctx, Key(ActionUp)); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want deadline exceeded", err)
	}
}
