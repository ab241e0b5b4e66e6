package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "ROKU_REMOTE_LOG_LEVEL"

// LogFileEnvVar names a file that receives log output instead of stdout.
// The remote draws a full-screen terminal UI, so logs written to stdout
// would corrupt the screen; point this at a file when debugging the TUI.
const LogFileEnvVar = "ROKU_REMOTE_LOG_FILE"

// Initialize creates a new logger with the specified level and output path.
// Empty arguments fall back to ROKU_REMOTE_LOG_LEVEL and ROKU_REMOTE_LOG_FILE.
// If no level is set anywhere, logging is disabled (silent mode).
func Initialize(level, path string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if path == "" {
		path = os.Getenv(LogFileEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	output := "stdout"
	if path != "" {
		output = path
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	// Color codes are only useful on a terminal.
	if path == "" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger purely from the environment.
func InitializeFromEnv() error {
	return Initialize("", "")
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogCommand logs a single request sent to a device.
func LogCommand(device, method, path string, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("device", device),
		zap.String("method", method),
		zap.String("path", path),
		zap.Duration("duration", duration),
	}
	if err != nil {
		Warn("Device request failed", append(fields, zap.Error(err))...)
		return
	}
	Debug("Device request", fields...)
}

// LogKeyPress traces a key event received by the remote window together
// with the action it resolved to (empty when unbound).
func LogKeyPress(key string, action string, bound bool) {
	Debug("Key press",
		zap.String("key", key),
		zap.String("action", action),
		zap.Bool("bound", bound),
	)
}

// LogDiscovery logs a device found during a network scan.
func LogDiscovery(source, name, address string) {
	Info("Device discovered",
		zap.String("source", source),
		zap.String("name", name),
		zap.String("address", address),
	)
}

// LogConnection logs a relay client connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogRelayMessage logs a relay message, truncating long payloads.
func LogRelayMessage(remoteAddr string, direction string, data []byte) {
	Debug("Relay message",
		zap.String("remote_addr", remoteAddr),
		zap.String("direction", direction),
		zap.Int("length", len(data)),
		zap.String("content", truncate(data, 256)),
	)
}

func truncate(data []byte, max int) string {
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
