package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies that parseLogLevel correctly parses log level
// strings from environment variables, handling case-insensitivity and whitespace.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		env    string
		expect zapcore.Level
	}{
		{"", zap.InfoLevel},
		{"INFO", zap.InfoLevel},
		{"DEBUG", zap.DebugLevel},
		{"WARN", zap.WarnLevel},
		{"ERROR", zap.ErrorLevel},
		{"debug", zap.DebugLevel},
		{"  warn  ", zap.WarnLevel},
		{"invalid", zap.InfoLevel},
	}
	for _, tt := range tests {
		level := parseLogLevel(tt.env)
		if got := level.Level(); got != tt.expect {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.env, got, tt.expect)
		}
	}
}

func TestLoggerConfig_Defaults(t *testing.T) {
	cfg := loggerConfig("", "", "")
	if cfg.Encoding != "json" {
		t.Errorf("Encoding = %q, want json", cfg.Encoding)
	}
	if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "stderr" {
		t.Errorf("OutputPaths = %v, want [stderr]", cfg.OutputPaths)
	}
	if cfg.EncoderConfig.TimeKey != "timestamp" {
		t.Errorf("TimeKey = %q, want timestamp", cfg.EncoderConfig.TimeKey)
	}
}

func TestLoggerConfig_ConsoleAndFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.log")
	cfg := loggerConfig("debug", "Console", path)
	if cfg.Encoding != "console" {
		t.Errorf("Encoding = %q, want console", cfg.Encoding)
	}
	if cfg.OutputPaths[0] != path {
		t.Errorf("OutputPaths = %v, want [%s]", cfg.OutputPaths, path)
	}

	logger, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	logger.Debug("written to file")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q, want debug line", data)
	}
}

// TestNewLogger verifies that NewLogger creates a valid logger instance
// that can be used for logging operations.
func TestNewLogger(t *testing.T) {
	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if logger == nil {
		t.Fatal("NewLogger() returned nil logger")
	}

	logger.Info("test message")
	_ = logger.Sync() // best-effort; can fail on /dev/stderr in test env
}
