package controllers

import (
	"net/http"

	"github.com/rampantspark/pagews/internal/admin"
	"github.com/rampantspark/pagews/internal/app"
	"github.com/rampantspark/pagews/internal/registry"
	"github.com/rampantspark/pagews/internal/web"
)

// Login validates the admin token from the query, sets the admin cookie
// and redirects to the index page.
type Login struct {
	page
}

// NewLogin creates the login controller.
func NewLogin(c *app.Context) *Login {
	return &Login{page: newPage(c, registry.LoginPage)}
}

// HandleRequest implements web.Controller. It writes the response itself.
func (ctrl *Login) HandleRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	auth := ctrl.app.Auth
	if auth == nil {
		web.SendRedirect(w, r, ctrl.app.URL(registry.IndexPage))
		return "", nil
	}

	if !auth.ValidateToken(web.ParamTrimmed(r, admin.TokenParam)) {
		ctrl.logger.Warn("Failed admin login attempt",
			"host", ctrl.app.Hosts.RemoteHost(r),
			"user_agent", r.Header.Get("User-Agent"))
		admin.Forbid(w, ctrl.app.URL(registry.LoginPage))
		return "", nil
	}

	ctrl.logger.Info("Successful admin login", "host", ctrl.app.Hosts.RemoteHost(r))
	auth.SetCookie(w)
	web.SendRedirect(w, r, ctrl.app.URL(registry.IndexPage))
	return "", nil
}
