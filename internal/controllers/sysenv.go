package controllers

import (
	"net/http"

	"github.com/rampantspark/pagews/internal/app"
	"github.com/rampantspark/pagews/internal/registry"
	"github.com/rampantspark/pagews/internal/sysprops"
)

// SysEnv shows the process properties and the environment.
type SysEnv struct {
	page
}

// NewSysEnv creates the system environment controller.
func NewSysEnv(c *app.Context) *SysEnv {
	return &SysEnv{page: newPage(c, registry.SysEnvPage)}
}

// HandleRequest implements web.Controller.
func (ctrl *SysEnv) HandleRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	attrs := ctrl.start(r, "System environment")
	attrs.Set("sysProps", sysprops.SystemProps(ctrl.app.Props))
	attrs.Set("sysEnv", sysprops.SystemEnv())
	return ctrl.view(), nil
}
