package logging

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Names of the programmatically configured log buffers.
const (
	BufferName      = "CYCLIC"
	ErrorBufferName = "CYCLICERROR"
)

// Console output formats.
const (
	FormatHuman = "human"
	FormatText  = "text"
	FormatJSON  = "json"
)

// Config describes the logging setup. It is read from a YAML file:
//
//	level: debug
//	format: human
//	console: true
//	file: logs/app.log
//	buffers:
//	  - name: CYCLIC
//	    size: 512
//	  - name: CYCLICERROR
//	    size: 512
//	    level: error
type Config struct {
	Level   string         `yaml:"level"`   // Minimum level for console and file output
	Format  string         `yaml:"format"`  // human, text or json
	Console bool           `yaml:"console"` // Write to standard output
	File    string         `yaml:"file"`    // Optional log file, relative to the home directory
	Buffers []BufferConfig `yaml:"buffers"` // In-memory circular buffers
}

// BufferConfig describes one circular log buffer.
type BufferConfig struct {
	Name  string `yaml:"name"`
	Size  int    `yaml:"size"`
	Level string `yaml:"level"`
}

// ProgrammaticConfig returns the configuration used when no configuration
// file is available: console output at debug level plus a general and an
// error-only buffer of DefaultBufferSize events each.
func ProgrammaticConfig() Config {
	return Config{
		Level:   "debug",
		Format:  FormatHuman,
		Console: true,
		Buffers: []BufferConfig{
			{Name: BufferName, Size: DefaultBufferSize, Level: "debug"},
			{Name: ErrorBufferName, Size: DefaultBufferSize, Level: "error"},
		},
	}
}

// LoadConfig reads a logging configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("can't read logging configuration: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML logging configuration. Unknown fields are errors.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("invalid logging configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks levels, format and buffer definitions.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", FormatHuman, FormatText, FormatJSON:
	default:
		return fmt.Errorf("invalid log format: %s (must be human, text or json)", c.Format)
	}
	seen := make(map[string]bool)
	for _, b := range c.Buffers {
		if strings.TrimSpace(b.Name) == "" {
			return errors.New("log buffer without name")
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate log buffer: %s", b.Name)
		}
		seen[b.Name] = true
		if b.Size < 0 {
			return fmt.Errorf("invalid size for log buffer %s: %d", b.Name, b.Size)
		}
		if _, err := ParseLevel(b.Level); err != nil {
			return fmt.Errorf("log buffer %s: %w", b.Name, err)
		}
	}
	return nil
}

// ParseLevel parses a level name such as "debug" or "WARN".
// An empty name means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
	return level, nil
}
