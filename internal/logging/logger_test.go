package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_SilentWithoutLevel(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	t.Setenv(LogFileEnvVar, "")

	if err := Initialize("", ""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("silent logger should not enable any level")
	}
}

func TestInitialize_LevelFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	t.Setenv(LogFileEnvVar, filepath.Join(t.TempDir(), "remote.log"))

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	defer SetLogger(zap.NewNop())

	core := GetLogger().Core()
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("warn logger should not enable info")
	}
	if !core.Enabled(zapcore.WarnLevel) {
		t.Error("warn logger should enable warn")
	}
}

func TestInitialize_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote.log")

	if err := Initialize("debug", path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer SetLogger(zap.NewNop())

	Info("hello from test")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogCommand(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	LogCommand("10.0.0.2:8060", "POST", "/keypress/Home", 12*time.Millisecond, nil)
	LogCommand("10.0.0.2:8060", "POST", "/keypress/Up", time.Millisecond, errors.New("boom"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Errorf("successful request logged at %v, want debug", entries[0].Level)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("failed request logged at %v, want warn", entries[1].Level)
	}
	if got := entries[1].ContextMap()["path"]; got != "/keypress/Up" {
		t.Errorf("path field = %v, want /keypress/Up", got)
	}
}

func TestTruncate(t *testing.T) {
	long := []byte(strings.Repeat("a", 300))
	got := truncate(long, 256)
	if len(got) != 259 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate() length = %d, want 259 with ellipsis", len(got))
	}

	if got := truncate([]byte("short"), 256); got != "short" {
		t.Errorf("truncate() = %q, want short", got)
	}
}
