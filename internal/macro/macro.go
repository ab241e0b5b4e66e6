package macro

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/muurk/rokuremote/internal/device"
)

// Macro is a named sequence of remote steps.
type Macro struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Device      string `yaml:"device,omitempty"` // default device address
	Steps       []Step `yaml:"steps"`
}

// Step is one entry of a macro. Exactly one of Launch, Key and Text is set.
type Step struct {
	// Launch starts the first app whose name contains this string.
	Launch string `yaml:"launch,omitempty"`
	// Wait bounds how long to poll for the launched app to become active.
	// Zero skips the check.
	Wait time.Duration `yaml:"wait,omitempty"`

	// Key is an ECP key name, pressed Repeat times (default once).
	Key    string `yaml:"key,omitempty"`
	Repeat int    `yaml:"repeat,omitempty"`

	// Text is typed with literal keypresses.
	Text string `yaml:"text,omitempty"`

	// Pause is slept after the step. Used where the device gives no
	// acknowledgement, such as navigation inside an app.
	Pause time.Duration `yaml:"pause,omitempty"`
}

// Kind names the step's action: "launch", "key" or "text".
func (s Step) Kind() string {
	switch {
	case s.Launch != "":
		return "launch"
	case s.Key != "":
		return "key"
	case s.Text != "":
		return "text"
	default:
		return ""
	}
}

// Presses returns how many times a key step presses its key.
func (s Step) Presses() int {
	if s.Repeat < 1 {
		return 1
	}
	return s.Repeat
}

// Name returns a short description for progress output.
func (s Step) Name() string {
	switch s.Kind() {
	case "launch":
		return "Launch " + s.Launch
	case "key":
		if s.Presses() > 1 {
			return fmt.Sprintf("%s x%d", s.Key, s.Presses())
		}
		return s.Key
	case "text":
		return fmt.Sprintf("Type %q", s.Text)
	default:
		return "(empty step)"
	}
}

// Validate checks the step in isolation.
func (s Step) Validate() error {
	set := 0
	for _, v := range []string{s.Launch, s.Key, s.Text} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return errors.New("step must set exactly one of launch, key or text")
	}

	if s.Key != "" {
		if _, err := device.ParseKey(s.Key); err != nil {
			return err
		}
	}
	if s.Repeat < 0 {
		return fmt.Errorf("repeat must not be negative, got %d", s.Repeat)
	}
	if s.Repeat > 0 && s.Key == "" {
		return errors.New("repeat only applies to key steps")
	}
	if s.Wait < 0 || s.Pause < 0 {
		return errors.New("wait and pause must not be negative")
	}
	if s.Wait > 0 && s.Launch == "" {
		return errors.New("wait only applies to launch steps")
	}
	return nil
}

// Validate checks the whole macro.
func (m *Macro) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("macro has no name")
	}
	if len(m.Steps) == 0 {
		return fmt.Errorf("macro %q has no steps", m.Name)
	}
	for i, s := range m.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("macro %q step %d: %w", m.Name, i+1, err)
		}
	}
	return nil
}

// StepNames returns the progress label of every step.
func (m *Macro) StepNames() []string {
	names := make([]string, len(m.Steps))
	for i, s := range m.Steps {
		names[i] = s.Name()
	}
	return names
}

// Duration returns the total of all pauses and launch waits, an upper
// bound on the time spent sleeping.
func (m *Macro) Duration() time.Duration {
	var d time.Duration
	for _, s := range m.Steps {
		d += s.Pause + s.Wait
	}
	return d
}

// DurationLabel formats Duration for display. Launch waits end as soon as
// the app is in the foreground, so the total is a ceiling.
func (m *Macro) DurationLabel() string {
	return "up to " + m.Duration().String()
}

// Parse decodes and validates a macro document.
func Parse(data []byte) (*Macro, error) {
	var m Macro
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse macro: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
