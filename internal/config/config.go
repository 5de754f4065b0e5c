package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/JackWReid/fieldpad/internal/form"
)

const (
	appName    = "fieldpad"
	configFile = "config.yaml"
	logFile    = "fieldpad.log"
)

// Config is the user configuration file.
type Config struct {
	// EscapeTimeout is how long a lone ESC waits for the rest of an escape
	// sequence before it counts as the Escape key.
	EscapeTimeout time.Duration `yaml:"escape_timeout"`
	TabWidth      int           `yaml:"tab_width"`
	MaxLines      int           `yaml:"max_lines"`
	ColumnMargin  int           `yaml:"column_margin"`

	Save SaveConfig  `yaml:"save"`
	Log  LogConfig   `yaml:"log"`
	Form []form.Item `yaml:"form,omitempty"`
}

// SaveConfig selects where records go.
type SaveConfig struct {
	Endpoint string        `yaml:"endpoint,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
	Output   string        `yaml:"output,omitempty"` // File path, or "-" for stdout after exit
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		EscapeTimeout: 50 * time.Millisecond,
		TabWidth:      4,
		MaxLines:      16,
		ColumnMargin:  2,
		Save: SaveConfig{
			Timeout: 10 * time.Second,
			Output:  "-",
		},
	}
}

// Layout returns the configured form layout, or the built-in one.
func (c *Config) Layout() []form.Item {
	if len(c.Form) > 0 {
		return c.Form
	}
	return form.SavedQueryLayout()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.EscapeTimeout <= 0:
		return fmt.Errorf("escape_timeout must be positive, got %s", c.EscapeTimeout)
	case c.TabWidth < 1:
		return fmt.Errorf("tab_width must be at least 1, got %d", c.TabWidth)
	case c.MaxLines < 1:
		return fmt.Errorf("max_lines must be at least 1, got %d", c.MaxLines)
	case c.ColumnMargin < 1:
		return fmt.Errorf("column_margin must be at least 1, got %d", c.ColumnMargin)
	}
	return nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/fieldpad or $HOME/.config/fieldpad
//   - macOS: $HOME/.config/fieldpad
//   - Windows: %LOCALAPPDATA%\fieldpad
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName), nil
		}
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine config directory: %w", err)
		}
		return filepath.Join(dir, appName), nil
	case "darwin":
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the full path to the configuration file.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// DefaultLogPath returns where logs go when log.file is unset.
func DefaultLogPath() string {
	dir, err := GetConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), logFile)
	}
	return filepath.Join(dir, logFile)
}
