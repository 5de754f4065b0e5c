package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/JackWReid/fieldpad/internal/config"
	"github.com/JackWReid/fieldpad/internal/editor"
	"github.com/JackWReid/fieldpad/internal/form"
	"github.com/JackWReid/fieldpad/internal/logging"
	"github.com/JackWReid/fieldpad/internal/save"
	"github.com/JackWReid/fieldpad/internal/terminal"
)

// Command flags
var (
	configPath    string
	endpoint      string
	outputPath    string
	logLevel      string
	escapeTimeout time.Duration
	presets       []string // key=value pairs applied before editing
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/fieldpad/config.yaml)")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "", "POST the saved record to this URL")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the saved record to this file (- for stdout)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from FIELDPAD_LOG_LEVEL)")
	rootCmd.Flags().DurationVar(&escapeTimeout, "escape-timeout", 0, "How long a lone Esc waits for the rest of a key sequence")
	rootCmd.Flags().StringArrayVar(&presets, "set", nil, "Pre-fill a field, e.g. --set query.name=nightly (repeatable)")
}

// loadConfig reads --config, or the default path when it is unset.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("escape-timeout") {
		if escapeTimeout <= 0 {
			return fmt.Errorf("--escape-timeout must be positive")
		}
		cfg.EscapeTimeout = escapeTimeout
	}
	if endpoint != "" {
		cfg.Save.Endpoint = endpoint
	}
	if outputPath != "" {
		cfg.Save.Output = outputPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	initLogging(cfg)
	defer logging.Sync()

	f, err := form.Build(cfg.Layout())
	if err != nil {
		return fmt.Errorf("invalid form layout: %w", err)
	}
	if err := applyPresets(f, presets); err != nil {
		return err
	}

	term, err := terminal.New()
	if err != nil {
		return err
	}
	defer term.Close()

	sess := editor.NewSession(term, f, newSaver(cfg), editor.Options{
		EscapeTimeout: cfg.EscapeTimeout,
		TabWidth:      cfg.TabWidth,
		MaxLines:      cfg.MaxLines,
		ColumnMargin:  cfg.ColumnMargin,
	})
	res, err := sess.Run(cmd.Context())
	if err != nil {
		return err
	}
	if !res.Saved {
		fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled, nothing saved.")
		return nil
	}
	if cfg.Save.Endpoint == "" && cfg.Save.Output == "-" {
		return writeRecord(cmd.OutOrStdout(), res.Record)
	}
	return nil
}

// initLogging starts the file logger. Logging problems never stop the editor.
func initLogging(cfg *config.Config) {
	path := cfg.Log.File
	if path == "" {
		path = config.DefaultLogPath()
	}
	level := cfg.Log.Level
	if level == "" {
		level = os.Getenv(logging.LogLevelEnvVar)
	}
	if level != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot create log directory: %v\n", err)
		}
	}
	if err := logging.Initialize(level, path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	logging.Debug("Configuration loaded",
		zap.Duration("escape_timeout", cfg.EscapeTimeout),
		zap.String("endpoint", cfg.Save.Endpoint),
		zap.String("output", cfg.Save.Output))
}

// newSaver picks the save target: endpoint, then output file, then stdout.
func newSaver(cfg *config.Config) save.Saver {
	switch {
	case cfg.Save.Endpoint != "":
		return save.NewHTTPSaver(cfg.Save.Endpoint, cfg.Save.Timeout)
	case cfg.Save.Output != "" && cfg.Save.Output != "-":
		return &save.FileSaver{Path: cfg.Save.Output}
	}
	return save.Accept
}

func applyPresets(f *form.Form, pairs []string) error {
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("--set %q: expected section.label=value", kv)
		}
		if err := f.Set(strings.TrimSpace(key), value); err != nil {
			return fmt.Errorf("--set %q: %w", kv, err)
		}
	}
	return nil
}

func writeRecord(w io.Writer, rec form.Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return enc.Close()
}

// layoutCmd prints the active form layout, ready to paste into a config file.
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the form layout as YAML",
	Long: `Print the form layout in config file format.

With no config file this is the built-in saved query layout. Copy it under
the form: key of your config to start a custom layout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := form.Build(cfg.Layout()); err != nil {
			return fmt.Errorf("invalid form layout: %w", err)
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(map[string][]form.Item{"form": cfg.Layout()}); err != nil {
			return err
		}
		return enc.Close()
	},
}
