package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewWithLevel_RespectsLevel(t *testing.T) {
	logger, err := NewWithLevel("production", "warn")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Errorf("info must be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Errorf("warn must be enabled at warn level")
	}
}

func TestNew_Development(t *testing.T) {
	logger, err := New("development")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("development logger must emit debug entries")
	}
}

// Production entries are JSON objects carrying level, timestamp, message and
// the structured fields passed by handlers.
func TestProperty_ProductionLogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("production entries decode as JSON with request fields", prop.ForAll(
		func(message string, path string) bool {
			var buf bytes.Buffer

			encoderConfig := zap.NewProductionEncoderConfig()
			encoderConfig.TimeKey = "timestamp"
			encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

			core := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(&buf),
				zapcore.DebugLevel,
			)
			logger := zap.New(core)
			defer logger.Sync()

			logger.Info(message, zap.String("path", path), zap.Int("status", 302))

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}

			return entry["level"] == "info" &&
				entry["timestamp"] != nil &&
				entry["msg"] == message &&
				entry["path"] == path &&
				entry["status"] == float64(302)
		},
		gen.AlphaString(),
		gen.RegexMatch(`/[a-z]{1,10}/`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
