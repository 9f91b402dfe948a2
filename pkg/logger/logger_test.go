package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, false)

	l.Info("test message %d", 123)
	l.Warning("warning message %s", "test")
	l.Error("error message: %v", "failed")
	l.Debug("hidden %s", "debug")

	output := buf.String()
	for _, want := range []string{"test message 123", "warning message test", "error message: failed"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if strings.Contains(output, "hidden debug") {
		t.Errorf("debug line should be dropped at info level, got: %s", output)
	}
}

func TestConsoleLogger_DebugEnabled(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, true)

	l.Debug("visible %s", "debug")

	if !strings.Contains(buf.String(), "visible debug") {
		t.Errorf("expected debug line, got: %s", buf.String())
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, false).With("bridge")

	l.Info("hello")

	if !strings.Contains(buf.String(), "component=bridge") {
		t.Errorf("expected component field, got: %s", buf.String())
	}
	if err := l.Close(); err != nil {
		t.Errorf("expected nil error from child Close, got: %v", err)
	}
}

func TestFileLogger_WritesAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "plugin.log")
	l, err := NewFileLogger(FileOptions{Path: path})
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	l.Info("authenticated as %s", "12345")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// second close is a no-op
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "authenticated as 12345") {
		t.Errorf("expected message in log file, got: %s", data)
	}
}

func TestFileLogger_EmptyPath(t *testing.T) {
	if _, err := NewFileLogger(FileOptions{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()

	// Should not panic
	logger.Info("test")
	logger.Warning("test")
	logger.Error("test")
	logger.Debug("test")

	err := logger.Close()
	if err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestMockLogger_RecordsCalls(t *testing.T) {
	logger := NewMockLogger()

	logger.Info("info %d", 1)
	logger.Info("info %d", 2)
	logger.Warning("warn %s", "test")
	logger.Error("err %v", "fail")
	logger.Debug("dbg")

	if len(logger.InfoCalls) != 2 {
		t.Errorf("expected 2 info calls, got %d", len(logger.InfoCalls))
	}
	if logger.InfoCalls[1] != "info 2" {
		t.Errorf("expected 'info 2', got %s", logger.InfoCalls[1])
	}
	if len(logger.WarningCalls) != 1 || logger.WarningCalls[0] != "warn test" {
		t.Errorf("unexpected warning calls: %v", logger.WarningCalls)
	}
	if len(logger.ErrorCalls) != 1 || logger.ErrorCalls[0] != "err fail" {
		t.Errorf("unexpected error calls: %v", logger.ErrorCalls)
	}
	if len(logger.DebugCalls) != 1 {
		t.Errorf("expected 1 debug call, got %d", len(logger.DebugCalls))
	}
}

func TestMockLogger_Close(t *testing.T) {
	logger := NewMockLogger()

	if logger.CloseCalled {
		t.Error("CloseCalled should be false initially")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
	if !logger.CloseCalled {
		t.Error("CloseCalled should be true after Close()")
	}
}
