package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rampantspark/pagews/internal/admin"
	"github.com/rampantspark/pagews/internal/charset"
	"github.com/rampantspark/pagews/internal/logging"
	"github.com/rampantspark/pagews/internal/registry"
	"github.com/rampantspark/pagews/internal/stats"
	"github.com/rampantspark/pagews/internal/view"
)

// Context is the application instance. It is created once at startup and
// passed to everything that needs application wide state.
type Context struct {
	Name            string
	BaseName        string
	Version         string
	Env             string
	BaseURL         string // Always starts and ends with "/"
	HomeDir         string
	DefaultEncoding string
	Props           map[string]string
	Config          Config

	Logger   *slog.Logger
	Logging  *logging.Logging
	Stats    *stats.Stats
	Hosts    *stats.HostResolver
	Registry *registry.Registry
	Views    *view.Set
	Auth     *admin.Authenticator // nil when restricted pages are open
}

// New creates the application context and registers the default bindings.
// Controllers are bound afterwards, see controllers.Register.
func New(cfg Config, homeDir, baseName string, lg *logging.Logging) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	encoding, err := charset.CanonicalName(cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("invalid default encoding %q: %w", cfg.Encoding, err)
	}

	name := cfg.Name
	if name == "" {
		name = baseName
	}
	logger := logging.Named(lg.Logger, "app")

	views, err := view.New()
	if err != nil {
		return nil, err
	}

	c := &Context{
		Name:            name,
		BaseName:        baseName,
		Version:         cfg.Version,
		Env:             cfg.Env,
		BaseURL:         NormalizeBaseURL(cfg.BaseURL, baseName),
		HomeDir:         homeDir,
		DefaultEncoding: encoding,
		Props:           cfg.Properties,
		Config:          cfg,
		Logger:          lg.Logger,
		Logging:         lg,
		Stats:           stats.New(logging.Named(lg.Logger, "stats")),
		Hosts:           stats.NewHostResolver(cfg.Server.TrustProxy),
		Registry:        registry.New(),
		Views:           views,
	}
	if c.Props == nil {
		c.Props = make(map[string]string)
	}

	if cfg.Admin.Enabled {
		c.Auth, err = admin.NewAuthenticator(cfg.Admin.Token, cfg.Server.HTTPS)
		if err != nil {
			return nil, err
		}
	}

	for _, b := range DefaultBindings(c.BaseURL) {
		if err := c.Registry.Register(b); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", b.Name, err)
		}
	}

	logger.Debug("Application context created",
		"name", c.Name, "base_url", c.BaseURL, "home", c.HomeDir, "encoding", c.DefaultEncoding)
	return c, nil
}

// NormalizeBaseURL returns baseURL with a leading and trailing slash, or
// "/<baseName>/" when baseURL is empty.
func NormalizeBaseURL(baseURL, baseName string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "/" + baseName + "/"
	}
	if !strings.HasPrefix(baseURL, "/") {
		baseURL = "/" + baseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL
}

// DefaultBindings returns the bindings of the built-in pages below baseURL.
// Pages are served from <baseURL>pages/<page>.
func DefaultBindings(baseURL string) []*registry.Binding {
	page := func(p string) string { return baseURL + "pages/" + p }
	return []*registry.Binding{
		{Name: registry.BaseURL, Path: baseURL},
		{Name: registry.ImagesURL},
		{Name: registry.IndexPage, Path: page("index"), View: view.Index},
		{Name: registry.StatsPage, Path: page("stats"), View: view.Stats},
		{Name: registry.SysEnvPage, Path: page("sysenv"), View: view.SysEnv, Restricted: true},
		{Name: registry.LogPage, Path: page("log"), View: view.Log, Restricted: true},
		{Name: registry.LogErrorPage, Path: page("logerror"), View: view.LogError, Restricted: true},
		{Name: registry.LogStatusPage, Path: page("logstatus"), Restricted: true},
		{Name: registry.MetricsPage, Path: page("metrics"), Restricted: true},
		{Name: registry.LoginPage, Path: page("login")},
	}
}

// URL returns the path of the named binding. The images binding has no
// page and resolves to <baseURL>images/.
func (c *Context) URL(name string) string {
	if name == registry.ImagesURL {
		return c.BaseURL + "images/"
	}
	return c.Registry.Path(name)
}
