package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveHomeDir returns the application home directory: the override when
// given, else the first of $<BASENAME>_HOME, $SERVER_BASE and $SERVER_HOME
// that is set, else the working directory. Surrounding quotes are removed.
func ResolveHomeDir(override, baseName string, getenv func(string) string) (string, error) {
	candidates := []string{
		override,
		getenv(envName(baseName) + "_HOME"),
		getenv("SERVER_BASE"),
		getenv("SERVER_HOME"),
	}
	for _, c := range candidates {
		if dir := strings.TrimSpace(StripQuotes(strings.TrimSpace(c))); dir != "" {
			return filepath.Clean(dir), nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return wd, nil
}

// envName turns a base name into an environment variable prefix,
// e.g. "my-app" becomes "MY_APP".
func envName(baseName string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, baseName)
}

// StripQuotes removes a leading and trailing ' or " when both are present.
func StripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	isQuote := func(b byte) bool { return b == '"' || b == '\'' }
	if isQuote(s[0]) && isQuote(s[len(s)-1]) {
		return s[1 : len(s)-1]
	}
	return s
}

// ConfigFile returns the application configuration file to load: the
// override when given, else <home>/conf/<basename>.yaml when it exists,
// else "".
func ConfigFile(override, homeDir, baseName string) string {
	if override = StripQuotes(strings.TrimSpace(override)); override != "" {
		return override
	}
	path := filepath.Join(homeDir, "conf", baseName+".yaml")
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}
