// Package app holds the application context: configuration, home
// directory, default encoding, base URL and the shared services handed to
// the request filter, the dispatcher and the controllers.
package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rampantspark/pagews/internal/charset"
	"github.com/rampantspark/pagews/internal/server"
)

// Config is the application configuration, read from
// <home>/conf/<basename>.yaml when present.
type Config struct {
	Name       string            `yaml:"name"`     // Display name, defaults to the base name
	Version    string            `yaml:"version"`  // Shown on the index page
	Env        string            `yaml:"env"`      // Environment name, e.g. "dev" or "prod"
	Encoding   string            `yaml:"encoding"` // Default response encoding
	BaseURL    string            `yaml:"baseUrl"`  // Defaults to /<basename>/
	Server     ServerConfig      `yaml:"server"`
	RateLimit  RateLimitConfig   `yaml:"rateLimit"`
	Stats      StatsConfig       `yaml:"stats"`
	Sessions   SessionConfig     `yaml:"sessions"`
	Admin      AdminConfig       `yaml:"admin"`
	Properties map[string]string `yaml:"properties"` // Free-form application properties
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxHeaderBytes  int           `yaml:"maxHeaderBytes"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
	TrustProxy      bool          `yaml:"trustProxy"` // Use X-Forwarded-For / X-Real-IP for the remote host
	HTTPS           bool          `yaml:"https"`      // Served behind TLS; marks cookies Secure
}

// HTTP returns the settings of the HTTP server.
func (c ServerConfig) HTTP() *server.Config {
	return &server.Config{
		Port:           c.Port,
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
		IdleTimeout:    c.IdleTimeout,
		MaxHeaderBytes: c.MaxHeaderBytes,
	}
}

// RateLimitConfig configures per-host rate limiting. A zero rate disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// StatsConfig configures statistics persistence. An empty database path
// keeps statistics in memory only.
type StatsConfig struct {
	Database     string        `yaml:"database"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

// SessionConfig configures sessions.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// AdminConfig configures the admin token that guards restricted pages.
type AdminConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"` // Generated at startup when empty
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Encoding: charset.Default,
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxHeaderBytes:  1 << 20,
			MaxBodyBytes:    1 << 20,
		},
		RateLimit: RateLimitConfig{Burst: 20},
		Stats:     StatsConfig{SaveInterval: time.Minute},
		Sessions:  SessionConfig{TTL: 30 * time.Minute},
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses YAML over the defaults. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration. An unsupported encoding is an error:
// responses could not be written.
func (c *Config) Validate() error {
	if err := charset.Validate(c.Encoding); err != nil {
		return fmt.Errorf("invalid default encoding %q: %w", c.Encoding, err)
	}
	if err := c.Server.HTTP().Validate(); err != nil {
		return err
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid rate limit: %v (must not be negative)", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("invalid rate burst: %d (must be at least 1)", c.RateLimit.Burst)
	}
	if c.Stats.Database != "" && c.Stats.SaveInterval <= 0 {
		return fmt.Errorf("invalid stats save interval: %s", c.Stats.SaveInterval)
	}
	return nil
}
