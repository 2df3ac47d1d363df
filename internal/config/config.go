// Package config loads vpc settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/vpc/internal/codegen"
)

// Config holds every setting a compile run can take from a file.
type Config struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Entry    string `yaml:"entry"`
	DivGuard bool   `yaml:"div_guard"`
	Comments bool   `yaml:"comments"`
	Log      Log    `yaml:"log"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Entry:    codegen.DefaultEntry,
		DivGuard: true,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the file at path on top of the defaults and validates the
// result. Keys the file does not set keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of the defaults. Unknown keys are
// an error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var symbolPattern = regexp.MustCompile(`^[A-Za-z_?][A-Za-z0-9_$#@~.?]*$`)

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if c.Entry == "" {
		return errors.New("entry: must not be empty")
	}
	if !symbolPattern.MatchString(c.Entry) {
		return fmt.Errorf("entry: %q is not a valid symbol", c.Entry)
	}
	if codegen.IsReserved(c.Entry) {
		return fmt.Errorf("entry: %q is reserved in generated code", c.Entry)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.Input != "" && filepath.Clean(c.Input) == filepath.Clean(c.OutputPath()) {
		return fmt.Errorf("output: %q would overwrite the input", c.OutputPath())
	}
	return nil
}

// Codegen returns the generator settings.
func (c *Config) Codegen() codegen.Config {
	return codegen.Config{
		Entry:    c.Entry,
		DivGuard: c.DivGuard,
		Comments: c.Comments,
	}
}

// OutputPath returns the output location: Output when set, otherwise the
// input with its extension replaced by .asm.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return strings.TrimSuffix(c.Input, filepath.Ext(c.Input)) + ".asm"
}

// SlogLevel converts Level to a slog.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("unknown level %q", l.Level)
	}
	return level, nil
}
