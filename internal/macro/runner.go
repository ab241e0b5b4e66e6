package macro

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/device"
	"github.com/muurk/rokuremote/internal/logging"
	"github.com/muurk/rokuremote/internal/remote"
	"github.com/muurk/rokuremote/internal/ui"
)

// DefaultPollInterval is how often a launch step checks the active app.
const DefaultPollInterval = 500 * time.Millisecond

// ErrLaunchTimeout is returned when a launched app never became active.
var ErrLaunchTimeout = errors.New("launched app did not become active")

// Device is what a macro needs from the device client.
type Device interface {
	remote.Device
	ActiveApp(ctx context.Context) (device.App, error)
}

// Runner plays macros against a device.
type Runner struct {
	Device       Device
	PollInterval time.Duration

	// DryRun reports every step as skipped without contacting the device.
	DryRun bool

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a runner for dev.
func NewRunner(dev Device) *Runner {
	return &Runner{
		Device:       dev,
		PollInterval: DefaultPollInterval,
		sleep:        sleepContext,
	}
}

// Run executes the steps of m in order and stops at the first failure.
// onStep may be nil.
func (r *Runner) Run(ctx context.Context, m *Macro, onStep ui.StepCallback) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if !r.DryRun && r.Device == nil {
		return errors.New("no device to run the macro against")
	}
	if onStep == nil {
		onStep = func(int, string, ui.StepStatus, string) {}
	}

	logging.Info("Running macro",
		zap.String("macro", m.Name),
		zap.Int("steps", len(m.Steps)),
		zap.Bool("dry_run", r.DryRun),
	)

	for i, step := range m.Steps {
		n := i + 1
		name := step.Name()

		if r.DryRun {
			onStep(n, name, ui.StepSkipped, dryRunNote(step))
			continue
		}

		if err := ctx.Err(); err != nil {
			onStep(n, name, ui.StepFailed, "interrupted")
			return err
		}

		onStep(n, name, ui.StepRunning, "")
		note, err := r.runStep(ctx, step)
		if err != nil {
			onStep(n, name, ui.StepFailed, device.GetShortErrorMessage(err))
			logging.Error("Macro step failed",
				zap.String("macro", m.Name),
				zap.Int("step", n),
				zap.String("name", name),
				zap.Error(err),
			)
			return fmt.Errorf("step %d (%s): %w", n, name, err)
		}

		if step.Pause > 0 {
			if err := r.sleep(ctx, step.Pause); err != nil {
				onStep(n, name, ui.StepFailed, "interrupted")
				return err
			}
		}
		onStep(n, name, ui.StepComplete, note)
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step) (string, error) {
	switch step.Kind() {
	case "launch":
		return r.launch(ctx, step)

	case "key":
		key, err := device.ParseKey(step.Key)
		if err != nil {
			return "", err
		}
		for i := 0; i < step.Presses(); i++ {
			if err := r.Device.Keypress(ctx, key); err != nil {
				return "", err
			}
		}
		return "", nil

	case "text":
		return "", r.Device.Literal(ctx, step.Text)
	}
	return "", fmt.Errorf("empty step")
}

// launch starts the app and, when the step has a Wait, polls until the
// device reports it in the foreground.
func (r *Runner) launch(ctx context.Context, step Step) (string, error) {
	app, err := r.Device.LaunchMatching(ctx, step.Launch)
	if err != nil {
		return "", err
	}
	if step.Wait <= 0 {
		return app.Name, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, step.Wait)
	defer cancel()

	start := time.Now()
	for {
		active, err := r.Device.ActiveApp(waitCtx)
		if err == nil && active.ID == app.ID {
			return fmt.Sprintf("%s active after %s", app.Name, time.Since(start).Round(100*time.Millisecond)), nil
		}
		if err != nil && !device.IsRetryable(err) && waitCtx.Err() == nil {
			return "", err
		}

		if err := r.sleep(waitCtx, r.interval()); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("%w: %s not in foreground after %s", ErrLaunchTimeout, app.Name, step.Wait)
		}
	}
}

func (r *Runner) interval() time.Duration {
	if r.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return r.PollInterval
}

func dryRunNote(step Step) string {
	switch {
	case step.Wait > 0 && step.Pause > 0:
		return fmt.Sprintf("dry run, wait up to %s then pause %s", step.Wait, step.Pause)
	case step.Wait > 0:
		return fmt.Sprintf("dry run, wait up to %s", step.Wait)
	case step.Pause > 0:
		return fmt.Sprintf("dry run, pause %s", step.Pause)
	default:
		return "dry run"
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
