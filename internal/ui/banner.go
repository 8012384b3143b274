// Package ui prints the startup summary.
package ui

import (
	"fmt"
	"io"
	"time"
)

// Banner is the ASCII art banner for pagews
const Banner = `
  _ __   __ _  __ _  _____      _____
 | '_ \ / _' |/ _' |/ _ \ \ /\ / / __|
 | |_) | (_| | (_| |  __/\ V  V /\__ \
 | .__/ \__,_|\__, |\___| \_/\_/ |___/
 |_|          |___/
`

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Page is a page listed in the startup summary.
type Page struct {
	Title      string
	URL        string
	Restricted bool
}

// StartupInfo holds configuration information to display at startup
type StartupInfo struct {
	Name          string
	Version       string
	Port          string
	HomeDir       string
	BaseURL       string
	Encoding      string
	LogConfig     string
	StatsStore    string
	RateLimit     string
	AdminLoginURL string // Empty when restricted pages are open
	TokenShown    bool   // The login URL contains a generated token
	Pages         []Page
}

// PrintBanner prints the ASCII banner
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, Banner)
}

// PrintStartupInfo prints a summary of the server configuration
func PrintStartupInfo(w io.Writer, info StartupInfo) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s %s started at %s\n", info.Name, info.Version, time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  SERVER")
	fmt.Fprintf(w, "     Port:            %s\n", info.Port)
	fmt.Fprintf(w, "     Base URL:        %s\n", info.BaseURL)
	fmt.Fprintf(w, "     Encoding:        %s\n", info.Encoding)
	fmt.Fprintf(w, "     Rate Limiting:   %s\n", info.RateLimit)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  APPLICATION")
	fmt.Fprintf(w, "     Home:            %s\n", info.HomeDir)
	fmt.Fprintf(w, "     Logging:         %s\n", info.LogConfig)
	fmt.Fprintf(w, "     Statistics:      %s\n", info.StatsStore)
	fmt.Fprintln(w)

	if len(info.Pages) > 0 {
		fmt.Fprintln(w, "  PAGES")
		for _, p := range info.Pages {
			marker := ""
			if p.Restricted && info.AdminLoginURL != "" {
				marker = " (admin)"
			}
			fmt.Fprintf(w, "     %-17s%s%s\n", p.Title+":", p.URL, marker)
		}
		fmt.Fprintln(w)
	}

	if info.AdminLoginURL != "" {
		fmt.Fprintln(w, "  ADMIN ACCESS")
		fmt.Fprintf(w, "     Login URL:       %s\n", info.AdminLoginURL)
		if info.TokenShown {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "  ⚠️  SECURITY WARNING:")
			fmt.Fprintln(w, "     The login URL above contains the generated admin token.")
			fmt.Fprintln(w, "     Keep it secure and rotate logs containing this token.")
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  Press Ctrl+C to stop the server")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}
