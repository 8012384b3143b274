// Package main implements pagews, a small page-serving web application:
// a request filter and dispatcher routing requests to page controllers,
// request and session statistics, and pages showing the statistics, the
// system environment and the in-memory log buffers.
//
// Usage:
//
//	pagews --port 8080 --home /srv/pagews
//	pagews --base-name shop --stats-db stats.db --admin
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/rampantspark/pagews/internal/app"
	"github.com/rampantspark/pagews/internal/controllers"
	"github.com/rampantspark/pagews/internal/handler"
	"github.com/rampantspark/pagews/internal/logging"
	"github.com/rampantspark/pagews/internal/metrics"
	"github.com/rampantspark/pagews/internal/middleware"
	"github.com/rampantspark/pagews/internal/ratelimit"
	"github.com/rampantspark/pagews/internal/registry"
	"github.com/rampantspark/pagews/internal/server"
	"github.com/rampantspark/pagews/internal/session"
	"github.com/rampantspark/pagews/internal/stats"
	"github.com/rampantspark/pagews/internal/sysprops"
	"github.com/rampantspark/pagews/internal/ui"
)

func main() {
	var flags app.Flags
	fs := pflag.NewFlagSet(filepath.Base(os.Args[0]), pflag.ExitOnError)
	flags.AddFlags(fs)
	fs.Parse(os.Args[1:])

	if err := run(&flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *app.Flags) error {
	baseName := flags.BaseName
	if baseName == "" {
		baseName = app.DefaultBaseName
	}
	homeDir, err := app.ResolveHomeDir(flags.Home, baseName, os.Getenv)
	if err != nil {
		return err
	}

	lg := logging.Setup(logging.Options{
		HomeDir:    homeDir,
		BaseName:   baseName,
		ConfigFile: flags.LogConfig,
	})
	defer lg.Close()
	logger := lg.Logger
	slog.SetDefault(logger)
	log := logging.Named(logger, "main")

	cfg := app.Defaults()
	if path := app.ConfigFile(flags.ConfigFile, homeDir, baseName); path != "" {
		if cfg, err = app.LoadConfig(path); err != nil {
			log.Error("Cannot load application configuration", "error", err)
			return err
		}
		log.Info("Application configuration loaded", "file", path)
	}
	flags.Apply(&cfg)

	appCtx, err := app.New(cfg, homeDir, baseName, lg)
	if err != nil {
		log.Error("Cannot initialize application", "error", err)
		return err
	}
	if err := controllers.Register(appCtx); err != nil {
		return err
	}
	sysprops.Log(logging.Named(logger, "sysprops"), true, true)
	metrics.Register()

	// Statistics survive restarts when a database is configured.
	statsStore := "memory"
	var persister *stats.Persister
	var db *stats.Database
	if cfg.Stats.Database != "" {
		dbPath := cfg.Stats.Database
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(homeDir, dbPath)
		}
		db, err = stats.NewDatabase(dbPath, logging.Named(logger, "stats.db"))
		if err != nil {
			log.Error("Cannot open statistics database", "path", dbPath, "error", err)
			return err
		}
		persister = stats.NewPersister(db, appCtx.Stats, cfg.Stats.SaveInterval, logging.Named(logger, "stats.persister"))
		if err := persister.Restore(context.Background()); err != nil {
			log.Warn("Cannot restore statistics", "error", err)
		}
		persister.Start()
		statsStore = dbPath
	}

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})
	sessions := session.NewManager(appCtx.Stats, appCtx.Hosts.RemoteHost, cfg.Sessions.TTL,
		cfg.Server.HTTPS, logging.Named(logger, "session"))

	opts := handler.Options{
		Registry:  appCtx.Registry,
		Views:     appCtx.Views,
		Sessions:  sessions,
		LoginPath: appCtx.URL(registry.LoginPage),
		Encoding:  appCtx.DefaultEncoding,
		Logger:    logging.Named(logger, "dispatcher"),
	}
	if appCtx.Auth != nil {
		opts.Auth = appCtx.Auth
	}
	h := middleware.Chain(handler.New(opts),
		middleware.RecoverPanic(logging.Named(logger, "recovery")),
		middleware.LimitRequestBody(cfg.Server.MaxBodyBytes),
		middleware.RateLimit(limiter, appCtx.Hosts.RemoteHost, logging.Named(logger, "ratelimit")),
		middleware.Filter(appCtx.Stats, logging.Named(logger, "filter")),
	)

	srv := server.New(cfg.Server.HTTP(), h, logging.Named(logger, "server"))

	ui.PrintBanner(os.Stdout)
	ui.PrintStartupInfo(os.Stdout, startupInfo(appCtx, limiter, statsStore, lg.Source))
	log.Info("Application started", "name", appCtx.Name, "port", cfg.Server.Port, "base_url", appCtx.BaseURL)

	ctx, stop := server.SignalContext(context.Background())
	defer stop()

	cleanup := func() {
		limiter.Stop()
		sessions.Stop()
		if persister != nil {
			saveCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			if err := persister.Stop(saveCtx); err != nil {
				log.Error("Failed to save statistics", "error", err)
			}
			cancel()
		}
		if db != nil {
			if err := db.Close(); err != nil {
				log.Warn("Failed to close statistics database", "error", err)
			}
		}
		log.Info("Application stopped", "stats", appCtx.Stats.Describe())
	}
	return srv.Run(ctx, cfg.Server.ShutdownTimeout, cleanup)
}

func startupInfo(c *app.Context, limiter *ratelimit.Limiter, statsStore, logSource string) ui.StartupInfo {
	rateLimit := "Disabled"
	if limiter.Enabled() {
		rateLimit = strconv.FormatFloat(c.Config.RateLimit.RequestsPerSecond, 'f', -1, 64) +
			" req/s per host, burst " + strconv.Itoa(c.Config.RateLimit.Burst)
	}

	info := ui.StartupInfo{
		Name:       c.Name,
		Version:    c.Version,
		Port:       c.Config.Server.Port,
		HomeDir:    c.HomeDir,
		BaseURL:    c.BaseURL,
		Encoding:   c.DefaultEncoding,
		LogConfig:  logSource,
		StatsStore: statsStore,
		RateLimit:  rateLimit,
	}
	for _, b := range c.Registry.Bindings() {
		if b.Path == "" || b.Controller == nil || b.Name == registry.BaseURL || b.Name == registry.LoginPage {
			continue
		}
		info.Pages = append(info.Pages, ui.Page{Title: b.Name, URL: b.Path, Restricted: b.Restricted})
	}
	if c.Auth != nil {
		host := net.JoinHostPort("localhost", c.Config.Server.Port)
		if c.Auth.Generated() {
			info.AdminLoginURL = c.Auth.LoginURL(host, c.URL(registry.LoginPage))
			info.TokenShown = true
		} else {
			scheme := "http"
			if c.Config.Server.HTTPS {
				scheme = "https"
			}
			info.AdminLoginURL = scheme + "://" + host + c.URL(registry.LoginPage) + "?token=..."
		}
	}
	return info
}
