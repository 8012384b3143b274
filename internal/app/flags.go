package app

import (
	"github.com/spf13/pflag"
)

// DefaultBaseName is the base name used when none is given.
const DefaultBaseName = "pagews"

// Flags are the command line options. Flags that were set on the command
// line override the configuration file.
type Flags struct {
	Port       string
	Home       string
	BaseName   string
	AppName    string
	ConfigFile string
	LogConfig  string
	StatsDB    string
	RateLimit  float64
	RateBurst  int
	AdminToken string
	Admin      bool

	fs *pflag.FlagSet
}

// AddFlags registers the options on fs.
func (f *Flags) AddFlags(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVarP(&f.Port, "port", "p", "8080", "Port to run the server on")
	fs.StringVar(&f.Home, "home", "", "Application home directory (default: $<BASENAME>_HOME, $SERVER_BASE, $SERVER_HOME or the working directory)")
	fs.StringVar(&f.BaseName, "base-name", DefaultBaseName, "Base name used for configuration files, environment variables and the base URL")
	fs.StringVar(&f.AppName, "app-name", "", "Application display name (default: the base name)")
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "Application configuration file (default: <home>/conf/<basename>.yaml)")
	fs.StringVar(&f.LogConfig, "log-config", "", "Logging configuration file, or \"programmatic\" (default: <home>/conf/<basename>-logging.yaml)")
	fs.StringVar(&f.StatsDB, "stats-db", "", "SQLite database that keeps statistics across restarts")
	fs.Float64Var(&f.RateLimit, "rate-limit", 0, "Requests per second allowed per remote host (0 disables)")
	fs.IntVar(&f.RateBurst, "rate-burst", 20, "Burst size per remote host")
	fs.StringVar(&f.AdminToken, "admin-token", "", "Admin token for restricted pages (generated when empty)")
	fs.BoolVar(&f.Admin, "admin", false, "Require the admin token for restricted pages")
}

// Apply copies the flags that were set on the command line into cfg.
func (f *Flags) Apply(cfg *Config) {
	changed := func(name string) bool {
		return f.fs != nil && f.fs.Changed(name)
	}
	if changed("port") {
		cfg.Server.Port = f.Port
	}
	if changed("app-name") {
		cfg.Name = f.AppName
	}
	if changed("stats-db") {
		cfg.Stats.Database = f.StatsDB
	}
	if changed("rate-limit") {
		cfg.RateLimit.RequestsPerSecond = f.RateLimit
	}
	if changed("rate-burst") {
		cfg.RateLimit.Burst = f.RateBurst
	}
	if changed("admin-token") {
		cfg.Admin.Token = f.AdminToken
		cfg.Admin.Enabled = true
	}
	if changed("admin") {
		cfg.Admin.Enabled = f.Admin
	}
}
