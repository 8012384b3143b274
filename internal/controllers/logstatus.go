package controllers

import (
	"html"
	"net/http"
	"strings"

	"github.com/rampantspark/pagews/internal/admin"
	"github.com/rampantspark/pagews/internal/app"
	"github.com/rampantspark/pagews/internal/logging"
	"github.com/rampantspark/pagews/internal/registry"
	"github.com/rampantspark/pagews/internal/web"
)

// LogStatus writes the status messages of the logging system as HTML.
type LogStatus struct {
	page
}

// NewLogStatus creates the log status controller.
func NewLogStatus(c *app.Context) *LogStatus {
	return &LogStatus{page: newPage(c, registry.LogStatusPage)}
}

// HandleRequest implements web.Controller. It writes the response itself.
func (ctrl *LogStatus) HandleRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	lg := ctrl.app.Logging
	admin.SetSecurityHeaders(w)
	out := renderStatus(ctrl.app.Name+" Log status", lg.Source, lg.Status.Entries(), ctrl.app.URL(registry.IndexPage))
	return "", web.WriteResponse(w, "text/html", ctrl.app.DefaultEncoding, out)
}

// renderStatus generates the status page.
func renderStatus(title, source string, entries []logging.Status, indexURL string) string {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	sb.WriteString("<style>\n")
	sb.WriteString("body { font-family: monospace; margin: 20px; background: #f5f5f5; }\n")
	sb.WriteString("table { width: 100%; border-collapse: collapse; margin-top: 10px; background: white; }\n")
	sb.WriteString("th, td { padding: 8px; text-align: left; border-bottom: 1px solid #ddd; }\n")
	sb.WriteString("th { background-color: #4CAF50; color: white; }\n")
	sb.WriteString(".WARN { background-color: #fff3cd; }\n")
	sb.WriteString(".ERROR { background-color: #f8d7da; }\n")
	sb.WriteString("</style>\n</head>\n<body>\n")
	sb.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")
	if indexURL != "" {
		sb.WriteString("<p><a href=\"" + html.EscapeString(indexURL) + "\">Index</a></p>\n")
	}
	sb.WriteString("<p>Configuration: " + html.EscapeString(source) + "</p>\n")

	sb.WriteString("<table>\n<tr><th>Time</th><th>Level</th><th>Origin</th><th>Message</th></tr>\n")
	for _, e := range entries {
		msg := e.Message
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		sb.WriteString("<tr class=\"" + e.Level.String() + "\">")
		sb.WriteString("<td>" + e.Time.Format("2006-01-02 15:04:05.000") + "</td>")
		sb.WriteString("<td>" + e.Level.String() + "</td>")
		sb.WriteString("<td>" + html.EscapeString(e.Origin) + "</td>")
		sb.WriteString("<td>" + html.EscapeString(msg) + "</td>")
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n</body>\n</html>")
	return sb.String()
}
