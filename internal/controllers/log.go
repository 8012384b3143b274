package controllers

import (
	"fmt"
	"net/http"

	"github.com/rampantspark/pagews/internal/app"
	"github.com/rampantspark/pagews/internal/logging"
	"github.com/rampantspark/pagews/internal/registry"
)

// Log shows the events of a circular log buffer, newest first.
type Log struct {
	page
	buffer   string
	layout   logging.Layout
	title    string
	noun     string // "log" or "log error"
	infoName string
}

// NewLog creates the controller for registry.LogPage (buffer CYCLIC) or
// registry.LogErrorPage (buffer CYCLICERROR).
func NewLog(c *app.Context, name string) *Log {
	ctrl := &Log{
		page:     newPage(c, name),
		buffer:   logging.BufferName,
		layout:   logging.ShortLayout,
		title:    "Log",
		noun:     "log",
		infoName: "controllers." + name,
	}
	if name == registry.LogErrorPage {
		ctrl.buffer = logging.ErrorBufferName
		ctrl.layout = logging.FullLayout
		ctrl.title = "Log error"
		ctrl.noun = "log error"
	}
	return ctrl
}

// HandleRequest implements web.Controller.
func (ctrl *Log) HandleRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	attrs := ctrl.start(r, ctrl.title)
	attrs.Set("logEvents", "")

	buf := ctrl.app.Logging.Buffer(ctrl.buffer)
	switch {
	case buf == nil:
		attrs.Set("logInfo", fmt.Sprintf("Log buffer %s is not available (please check the logging configuration).", ctrl.buffer))
	case buf.Len() == 0:
		attrs.Set("logInfo", fmt.Sprintf("No %s events available, log buffer is empty.", ctrl.noun))
	default:
		events := buf.Recent(buf.Len())
		attrs.Set("logInfo", ctrl.layout.Info(ctrl.infoName,
			fmt.Sprintf("Showing %d %s events, last event first.", len(events), ctrl.noun)))
		attrs.Set("logEvents", ctrl.layout.FormatAll(events))
		ctrl.logger.Debug("Returning log events as text", "buffer", ctrl.buffer, "count", len(events))
	}
	return ctrl.view(), nil
}
