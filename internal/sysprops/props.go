package sysprops

import (
	"context"
	"log/slog"
	"os"
	"os/user"
	"runtime"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"
)

// Format lists props sorted by key, one escaped key=value pair per line.
func Format(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(Key(k))
		sb.WriteByte('=')
		sb.WriteString(Value(props[k]))
	}
	return sb.String()
}

// Environment returns the environment variables of the process.
func Environment() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		// Windows has per-drive variables like "=C:"
		if k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// Properties returns descriptive properties of the running process:
// runtime, operating system, user and build information.
func Properties() map[string]string {
	props := map[string]string{
		"go.version":     runtime.Version(),
		"go.compiler":    runtime.Compiler,
		"go.maxprocs":    strconv.Itoa(runtime.GOMAXPROCS(0)),
		"os.name":        runtime.GOOS,
		"os.arch":        runtime.GOARCH,
		"os.tempdir":     os.TempDir(),
		"num.cpu":        strconv.Itoa(runtime.NumCPU()),
		"process.pid":    strconv.Itoa(os.Getpid()),
		"process.args":   strings.Join(os.Args, " "),
		"file.separator": string(os.PathSeparator),
		"path.separator": string(os.PathListSeparator),
		"line.separator": "\n",
	}
	if exe, err := os.Executable(); err == nil {
		props["process.executable"] = exe
	}
	if dir, err := os.Getwd(); err == nil {
		props["user.dir"] = dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		props["user.home"] = home
	}
	if u, err := user.Current(); err == nil {
		props["user.name"] = u.Username
	}
	if host, err := os.Hostname(); err == nil {
		props["os.hostname"] = host
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		props["module.path"] = info.Main.Path
		props["module.version"] = info.Main.Version
	}
	return props
}

// SystemEnv returns the formatted environment variables.
func SystemEnv() string {
	return Format(Environment())
}

// SystemProps returns the formatted process properties merged with extra
// (application) properties. Extra properties win on key collisions.
func SystemProps(extra map[string]string) string {
	props := Properties()
	for k, v := range extra {
		props[k] = v
	}
	return Format(props)
}

// Log writes the process properties (and optionally the environment) to
// logger in one statement each, at debug or info level.
func Log(logger *slog.Logger, includeEnv, debugLevel bool) {
	level := slog.LevelInfo
	if debugLevel {
		level = slog.LevelDebug
	}
	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}
	if includeEnv {
		logger.Log(ctx, level, "System environment properties:\n"+SystemEnv())
	}
	logger.Log(ctx, level, "System properties:\n"+SystemProps(nil))
}
