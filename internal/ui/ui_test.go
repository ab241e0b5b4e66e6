package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestHeaderRender(t *testing.T) {
	out := NewHeader("Device Discovery", "roku-remote discover",
		Param{Key: "Timeout", Value: "5s"},
		Param{Key: "Protocols", Value: "ssdp, mdns"},
	).SetWidth(80).Render()

	for _, want := range []string{"DEVICE DISCOVERY", "roku-remote discover", "Timeout:", "5s", "ssdp, mdns"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Timeout") > strings.Index(out, "Protocols") {
		t.Error("params should keep their order")
	}
}

func TestProgressUpdateStep(t *testing.T) {
	p := NewProgress([]string{"launch", "VolumeDown x100", "select"})

	p.UpdateStep(1, StepRunning, "")
	if p.Current != 1 || p.Percent != 0 {
		t.Errorf("Current = %d, Percent = %v", p.Current, p.Percent)
	}

	p.UpdateStep(1, StepComplete, "3.1s")
	p.UpdateStep(2, StepSkipped, "")
	if p.Percent < 0.66 || p.Percent > 0.67 {
		t.Errorf("Percent = %v, want 2/3", p.Percent)
	}

	// Out of range is ignored.
	p.UpdateStep(0, StepFailed, "")
	p.UpdateStep(4, StepFailed, "")

	if p.Steps[0].Message != "3.1s" || p.Steps[2].Status != StepPending {
		t.Errorf("steps = %+v", p.Steps)
	}

	line := p.RenderStep(p.Steps[0])
	for _, want := range []string{"[1/3]", "launch", StepMarkerComplete, "(3.1s)"} {
		if !strings.Contains(line, want) {
			t.Errorf("step line missing %q: %q", want, line)
		}
	}
}

func TestStepStatus(t *testing.T) {
	if StepRunning.Done() || StepPending.Done() {
		t.Error("running and pending are not final")
	}
	if !StepComplete.Done() || !StepFailed.Done() || !StepSkipped.Done() {
		t.Error("complete, failed and skipped are final")
	}
	if StepFailed.String() != "failed" {
		t.Errorf("String() = %q", StepFailed.String())
	}
}

func TestResultRender(t *testing.T) {
	ok := NewSuccessResult("Launched", Param{Key: "App", Value: "Plex"}).SetWidth(80).Render()
	if !strings.Contains(ok, "SUCCESS") || !strings.Contains(ok, "Plex") {
		t.Errorf("success box:\n%s", ok)
	}

	fail := NewFailureResult("Keypress failed", errors.New("timeout"), []string{"Check power"}).SetWidth(80).Render()
	for _, want := range []string{"FAILED", "Error: timeout", "Troubleshooting:", "Check power"} {
		if !strings.Contains(fail, want) {
			t.Errorf("failure box missing %q:\n%s", want, fail)
		}
	}

	warn := NewWarningResult("No devices found").SetWidth(80).Render()
	if !strings.Contains(warn, "WARNING") {
		t.Errorf("warning box:\n%s", warn)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"NAME", "ADDRESS"}, [][]string{
		{"Living Room", "192.168.1.144:8060"},
		{"Bedroom", "192.168.1.9:8060"},
	})
	for _, want := range []string{"NAME", "Living Room", "192.168.1.9:8060"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRawOutputMaxLines(t *testing.T) {
	out := NewRawOutput("device-info", "a\nb\nc\nd\n").SetWidth(80).SetMaxLines(2).Render()
	if !strings.Contains(out, "2 more lines") {
		t.Errorf("raw output:\n%s", out)
	}
	if strings.Contains(out, "\u2502 c") {
		t.Error("truncated line still shown")
	}
}

func TestRunner_Success(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerConfig{
		Title:     "Macro test",
		Command:   "roku-macro --macro test",
		StepNames: []string{"one", "two"},
		Output:    &buf,
	})

	err := r.Run(context.Background(), func(ctx context.Context, onStep StepCallback) ([]Param, error) {
		onStep(1, "", StepRunning, "")
		onStep(1, "", StepComplete, "")
		onStep(2, "renamed", StepComplete, "note")
		onStep(9, "ignored", StepComplete, "")
		return []Param{{Key: "Device", Value: "10.0.0.2:8060"}}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"MACRO TEST", "renamed", "(note)", "Macro test complete", "Duration", "10.0.0.2:8060"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if r.Progress().Percent != 1 {
		t.Errorf("Percent = %v, want 1", r.Progress().Percent)
	}
}

func TestRunner_Failure(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("device went away")

	r := NewRunner(RunnerConfig{
		Title:        "Macro test",
		StepNames:    []string{"one"},
		Output:       &buf,
		Troubleshoot: func(error) []string { return []string{"Is it on?"} },
	})

	err := r.Run(context.Background(), func(ctx context.Context, onStep StepCallback) ([]Param, error) {
		onStep(1, "", StepFailed, "")
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if out := buf.String(); !strings.Contains(out, "Macro test failed") || !strings.Contains(out, "Is it on?") {
		t.Errorf("output:\n%s", out)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"I AGREE\n", true},
		{"  I AGREE  \n", true},
		{"i agree\n", false},
		{"", false},
		{"I AGREE", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tt.input), &out, "Open relay", []string{"Anyone on the network can press buttons"}, "I AGREE")
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintHeader("Apps", "roku-remote apps")
	p.PrintTable([]string{"ID"}, [][]string{{"12"}})
	p.PrintFailure("nope", errors.New("x"), nil)

	out := buf.String()
	if !strings.Contains(out, "APPS") || !strings.Contains(out, "12") || !strings.Contains(out, "FAILED") {
		t.Errorf("printer output:\n%s", out)
	}
}
