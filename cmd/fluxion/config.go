package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/fluxion"
)

// Config is the command configuration. Values come from the file named by
// --config and are overridden by flags given on the command line.
type Config struct {
	Color     string `toml:"color" yaml:"color"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFile   string `toml:"log_file" yaml:"log_file"`
	MaxErrors int    `toml:"max_errors" yaml:"max_errors"`
	MaxDepth  int    `toml:"max_depth" yaml:"max_depth"`
	Strict    bool   `toml:"strict" yaml:"strict"`
	Jobs      int    `toml:"jobs" yaml:"jobs"`
}

func defaultConfig() Config {
	return Config{
		Color:     "auto",
		LogLevel:  "warn",
		MaxErrors: fluxion.DefaultMaxErrors,
		MaxDepth:  fluxion.DefaultMaxDepth,
	}
}

type configFormat int

const (
	formatAuto configFormat = iota
	formatTOML
	formatYAML
)

func (f configFormat) String() string {
	switch f {
	case formatTOML:
		return "toml"
	case formatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// detectFormat chooses a config format from a file extension.
func detectFormat(path string) configFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatAuto
	}
}

// loadConfig reads a config file over the defaults. An empty path gives the
// defaults. Files with an unrecognized extension are read as TOML.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	format := detectFormat(path)
	if format == formatAuto {
		format = formatTOML
	}
	switch format {
	case formatYAML:
		err = yaml.Unmarshal(b, &cfg)
	case formatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(b), &cfg)
		if err == nil {
			if u := md.Undecoded(); len(u) > 0 {
				err = fmt.Errorf("unknown key %q", u[0].String())
			}
		}
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s config %s: %w", format, path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("color must be auto, on, or off, not %q", c.Color)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxErrors <= 0 {
		return fmt.Errorf("max_errors must be positive, not %d", c.MaxErrors)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, not %d", c.MaxDepth)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, not %d", c.Jobs)
	}
	return nil
}

// overrideFlags replaces values with those of flags set on the command line.
func (c *Config) overrideFlags(cmd *cobra.Command) error {
	fs := cmd.Flags()
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetInt(name)
		}
	}
	str("color", &c.Color)
	str("log-level", &c.LogLevel)
	str("log-file", &c.LogFile)
	num("max-errors", &c.MaxErrors)
	num("max-depth", &c.MaxDepth)
	num("jobs", &c.Jobs)
	if err == nil && fs.Changed("strict") {
		c.Strict, err = fs.GetBool("strict")
	}
	if err != nil {
		return fmt.Errorf("failed to get flags: %w", err)
	}
	return c.validate()
}

// parseOptions converts the configuration to parse options.
func (c *Config) parseOptions(log *slog.Logger) fluxion.ParseOption {
	opts := []fluxion.ParseOption{
		fluxion.MaxErrors(c.MaxErrors),
		fluxion.MaxDepth(c.MaxDepth),
		fluxion.Logger(log),
	}
	if c.Strict {
		opts = append(opts, fluxion.StrictNumbers())
	}
	return fluxion.ParsingPreset(opts...)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("bad log level %q: %w", s, err)
	}
	return l, nil
}
