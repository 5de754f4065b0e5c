package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EscapeTimeout != 50*time.Millisecond {
		t.Errorf("EscapeTimeout = %v", cfg.EscapeTimeout)
	}
	if cfg.TabWidth != 4 || cfg.MaxLines != 16 || cfg.ColumnMargin != 2 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Layout()) == 0 {
		t.Error("default layout should not be empty")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
escape_timeout: 120ms
tab_width: 2
save:
  endpoint: http://localhost:8080/queries
  timeout: 3s
log:
  level: debug
form:
  - heading: Ticket
  - field: Title
  - multiline: Body
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EscapeTimeout != 120*time.Millisecond {
		t.Errorf("EscapeTimeout = %v", cfg.EscapeTimeout)
	}
	if cfg.TabWidth != 2 {
		t.Errorf("TabWidth = %d", cfg.TabWidth)
	}
	if cfg.MaxLines != 16 {
		t.Errorf("MaxLines should keep its default, got %d", cfg.MaxLines)
	}
	if cfg.Save.Endpoint != "http://localhost:8080/queries" || cfg.Save.Timeout != 3*time.Second {
		t.Errorf("Save = %+v", cfg.Save)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	layout := cfg.Layout()
	if len(layout) != 3 || layout[1].Field != "Title" || layout[2].Multiline != "Body" {
		t.Errorf("Layout = %+v", layout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "tab_width: 0\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "tab_width") {
		t.Errorf("expected tab_width error, got %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "tab_width: [\n")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetConfigDirHonoursXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/xdg/fieldpad" {
		t.Errorf("dir = %s", dir)
	}
	path, _ := DefaultPath()
	if path != "/tmp/xdg/fieldpad/config.yaml" {
		t.Errorf("path = %s", path)
	}
	if DefaultLogPath() != "/tmp/xdg/fieldpad/fieldpad.log" {
		t.Errorf("log path = %s", DefaultLogPath())
	}
}
