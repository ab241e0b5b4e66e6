package remote

import (
	"context"
	"errors"
	"sync"

	"github.com/muurk/rokuremote/internal/device"
)

// fakeDevice records the calls the remote makes.
type fakeDevice struct {
	mu    sync.Mutex
	calls []string
	apps  []device.App
	err   error
	block chan struct{}
}

func (f *fakeDevice) record(call string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeDevice) Keypress(ctx context.Context, key device.Key) error {
	return f.record("key:" + string(key))
}

func (f *fakeDevice) Literal(ctx context.Context, text string) error {
	return f.record("lit:" + text)
}

func (f *fakeDevice) LaunchMatching(ctx context.Context, ident string) (device.App, error) {
	if err := f.record("launch:" + ident); err != nil {
		return device.App{}, err
	}
	app, ok := device.MatchApp(f.apps, ident)
	if !ok {
		return device.App{}, errors.New("not found")
	}
	return app, nil
}

func (f *fakeDevice) Address() string { return "fake:8060" }

func (f *fakeDevice) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
