package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Programmatic is the configuration file name that forces the
// programmatic configuration.
const Programmatic = "programmatic"

const statusOrigin = "logging"

// Options control where Setup looks for its configuration.
type Options struct {
	HomeDir    string    // Application home directory; configuration lives in <home>/conf
	BaseName   string    // Default configuration file is <home>/conf/<base>-logging.yaml
	ConfigFile string    // Override: Programmatic, an absolute path or a file name in <home>/conf
	Stdout     io.Writer // Console output, os.Stdout when nil
}

// Logging is the configured logging system.
type Logging struct {
	Logger  *slog.Logger
	Status  *StatusLog
	Source  string // Configuration file used, or Programmatic
	buffers map[string]*RingBuffer
	closers []io.Closer
}

// Setup configures logging.
//
// The configuration file is looked up in this order: the ConfigFile
// override (Programmatic skips the lookup), then <home>/conf/<base>-logging.yaml.
// When no file exists or the file is invalid, the programmatic
// configuration is used. Problems are recorded in the status log rather
// than returned: logging always ends up configured.
func Setup(opts Options) *Logging {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	status := NewStatusLog()

	path := configPath(opts)
	if path == "" {
		return build(ProgrammaticConfig(), Programmatic, opts, status)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		status.Error(statusOrigin, "Failed to load logging configuration from "+path, err)
		return build(ProgrammaticConfig(), Programmatic, opts, status)
	}
	return build(cfg, path, opts, status)
}

// configPath returns the configuration file to load, or "" for the
// programmatic configuration.
func configPath(opts Options) string {
	override := strings.TrimSpace(opts.ConfigFile)
	if override == Programmatic {
		return ""
	}
	confDir := filepath.Join(opts.HomeDir, "conf")
	if override != "" {
		if !filepath.IsAbs(override) {
			override = filepath.Join(confDir, override)
		}
		if fileExists(override) {
			return override
		}
	}
	if opts.BaseName == "" {
		return ""
	}
	path := filepath.Join(confDir, opts.BaseName+"-logging.yaml")
	if fileExists(path) {
		return path
	}
	return ""
}

func build(cfg Config, source string, opts Options, status *StatusLog) *Logging {
	l := &Logging{
		Status:  status,
		Source:  source,
		buffers: make(map[string]*RingBuffer),
	}

	level, _ := ParseLevel(cfg.Level)
	var handlers []slog.Handler
	if cfg.Console {
		handlers = append(handlers, outputHandler(opts.Stdout, cfg.Format, level))
	}
	if cfg.File != "" {
		path := cfg.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.HomeDir, path)
		}
		f, err := openLogFile(path)
		if err != nil {
			status.Error(statusOrigin, "Cannot open log file "+path, err)
		} else {
			l.closers = append(l.closers, f)
			handlers = append(handlers, outputHandler(f, cfg.Format, level))
		}
	}
	for _, b := range cfg.Buffers {
		bufLevel := slog.LevelDebug
		if b.Level != "" {
			bufLevel, _ = ParseLevel(b.Level)
		}
		buf := NewRingBuffer(b.Name, b.Size)
		l.buffers[b.Name] = buf
		handlers = append(handlers, NewBufferHandler(buf, bufLevel))
	}

	l.Logger = slog.New(NewFanout(handlers...))

	logger := Named(l.Logger, statusOrigin)
	if source == Programmatic {
		status.Info(statusOrigin, "Logging configured programmatically, printing log messages to console")
		logger.Info("Logging configured programmatically, printing log messages to console")
	} else {
		status.Info(statusOrigin, "Logging configured from "+source)
		logger.Info("Logging configured", "file", source)
	}
	return l
}

func outputHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)
	case FormatText:
		return slog.NewTextHandler(w, opts)
	default:
		return NewHumanReadableHandler(w, opts)
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Buffer returns the named log buffer, or nil when no such buffer is configured.
func (l *Logging) Buffer(name string) *RingBuffer {
	return l.buffers[name]
}

// Close closes log files. The logger must not be used afterwards.
func (l *Logging) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}
