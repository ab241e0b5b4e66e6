package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig describes a multi-step command run
type RunnerConfig struct {
	Title     string   // e.g., "Macro plex-resume"
	Command   string   // e.g., "roku-macro --macro plex-resume"
	Params    []Param  // shown in the header
	StepNames []string // one per step
	Output    io.Writer

	// Troubleshoot returns hints for the failure box. Optional.
	Troubleshoot func(error) []string
}

// Operation is the work a Runner wraps. It reports progress through onStep
// and may return extra details for the success box.
type Operation func(ctx context.Context, onStep StepCallback) ([]Param, error)

// Runner prints a header, one line per finished step, and a result box.
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	out      io.Writer
	width    int
}

// NewRunner creates a runner sized to the terminal
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := GetTerminalWidth()

	return &Runner{
		config:   config,
		header:   NewHeader(config.Title, config.Command, config.Params...).SetWidth(width),
		progress: NewProgress(config.StepNames).SetWidth(width),
		out:      config.Output,
		width:    width,
	}
}

// Progress returns the step tracker, mainly for tests.
func (r *Runner) Progress() *Progress {
	return r.progress
}

// Run executes op and prints its progress and outcome. The error from op
// is returned unchanged.
func (r *Runner) Run(ctx context.Context, op Operation) error {
	start := time.Now()

	_, _ = fmt.Fprintln(r.out, r.header.Render())
	_, _ = fmt.Fprintln(r.out)

	details, err := op(ctx, r.onStep)
	elapsed := time.Since(start).Round(time.Millisecond)

	_, _ = fmt.Fprintln(r.out)
	if err != nil {
		var hints []string
		if r.config.Troubleshoot != nil {
			hints = r.config.Troubleshoot(err)
		}
		result := NewFailureResult(r.config.Title+" failed", err, hints).SetWidth(r.width)
		_, _ = fmt.Fprintln(r.out, result.Render())
		return err
	}

	result := NewSuccessResult(r.config.Title+" complete", details...).
		SetWidth(r.width).
		AddDetail("Duration", elapsed.String())
	_, _ = fmt.Fprintln(r.out, result.Render())
	return nil
}

// onStep records the update and prints the step line. A running step is
// printed with a carriage return so its final state overwrites it.
func (r *Runner) onStep(stepNumber int, name string, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > r.progress.Total() {
		return
	}
	if name != "" {
		r.progress.Steps[stepNumber-1].Name = name
	}
	r.progress.UpdateStep(stepNumber, status, message)

	line := r.progress.RenderStep(r.progress.Steps[stepNumber-1])
	if status.Done() {
		_, _ = fmt.Fprintln(r.out, line)
	} else if status == StepRunning {
		_, _ = fmt.Fprint(r.out, line+"\r")
	}
}
