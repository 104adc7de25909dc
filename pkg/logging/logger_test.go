package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	ResetForTest()
	if L() == nil {
		t.Fatal("expected non-nil default logger")
	}
	if L().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("default logger should not be enabled at any level")
	}
}

func TestInitializeJSON(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	logger := Initialize(Config{Level: "debug", Format: "json", Name: "sim"}, zapcore.AddSync(&buf))
	logger.Debug("pass complete", zap.Int("visible", 11))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "pass complete" {
		t.Errorf("msg = %v, want %q", entry["msg"], "pass complete")
	}
	if entry["logger"] != "sim" {
		t.Errorf("logger = %v, want %q", entry["logger"], "sim")
	}
	if entry["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", entry["level"])
	}
}

func TestInitializeOnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(Config{Level: "info"}, zapcore.AddSync(&first))
	Initialize(Config{Level: "info"}, zapcore.AddSync(&second))
	L().Info("hello")

	if !strings.Contains(first.String(), "hello") {
		t.Errorf("first writer should receive output, got %q", first.String())
	}
	if second.Len() != 0 {
		t.Errorf("second writer should be ignored, got %q", second.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(Config{Level: "loud"}, zapcore.AddSync(&buf))
	L().Debug("hidden")
	L().Info("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug entry should be filtered at info level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info entry should be written")
	}
}

func TestSetNilRestoresNop(t *testing.T) {
	t.Cleanup(ResetForTest)
	Set(zap.NewExample())
	Set(nil)
	if L().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("Set(nil) should restore the no-op logger")
	}
}
