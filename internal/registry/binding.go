// Package registry relates request paths to page controllers.
//
// A Binding ties a symbolic name (e.g. "statsPageUrl") to a request path
// (e.g. "/app/pages/stats"), the controller handling that path and the view
// the controller renders. The Registry keeps bindings by name and by path.
package registry

import "github.com/rampantspark/pagews/internal/web"

// Well-known binding names.
const (
	BaseURL       = "appBaseUrl"
	ImagesURL     = "appImagesUrl"
	IndexPage     = "indexPageUrl"
	StatsPage     = "statsPageUrl"
	SysEnvPage    = "sysEnvPageUrl"
	LogPage       = "logPageUrl"
	LogErrorPage  = "logErrorPageUrl"
	LogStatusPage = "logStatusPageUrl"
	MetricsPage   = "metricsPageUrl"
	LoginPage     = "loginPageUrl"
)

// Binding relates a name, a request path, a controller and a view.
type Binding struct {
	Name       string         // Unique name of the binding
	Path       string         // Request path handled by Controller; empty for bindings without a page
	Controller web.Controller // Set once during initialization, see Registry.Bind
	View       string         // View rendered by the controller, if any
	Restricted bool           // Requires admin authentication when enabled
}

// String returns "Binding-<name>".
func (b *Binding) String() string {
	return "Binding-" + b.Name
}
