package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize("", filepath.Join(t.TempDir(), "x.log")); err != nil {
		t.Fatal(err)
	}
	if GetLogger().Core().Enabled(-1) {
		t.Error("logger should be a no-op without a level")
	}
}

func TestInitializeWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldpad.log")
	if err := Initialize("debug", path); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logger = nil })

	Info("session started")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "session started") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestInitializeFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	path := filepath.Join(t.TempDir(), "env.log")
	if err := Initialize("", path); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logger = nil })

	Info("hidden")
	Warn("shown")
	Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("unexpected log contents: %q", data)
	}
}

func TestGetLoggerNeverNil(t *testing.T) {
	logger = nil
	if GetLogger() == nil {
		t.Fatal("GetLogger returned nil")
	}
}
