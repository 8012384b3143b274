package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home, name, content string) string {
	t.Helper()
	dir := filepath.Join(home, "conf")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetup_Programmatic(t *testing.T) {
	var out bytes.Buffer
	l := Setup(Options{HomeDir: t.TempDir(), BaseName: "app", Stdout: &out})
	defer l.Close()

	assert.Equal(t, Programmatic, l.Source)
	require.NotNil(t, l.Buffer(BufferName))
	require.NotNil(t, l.Buffer(ErrorBufferName))
	assert.Nil(t, l.Buffer("OTHER"))
	assert.Equal(t, DefaultBufferSize, l.Buffer(BufferName).Cap())

	l.Logger.Debug("debug event")
	l.Logger.Error("error event")

	// One startup message plus the two events above
	assert.Equal(t, 3, l.Buffer(BufferName).Len())
	assert.Equal(t, 1, l.Buffer(ErrorBufferName).Len())
	assert.Contains(t, out.String(), "debug event")
	assert.NotEmpty(t, l.Status.Entries())
}

func TestSetup_FromDefaultFile(t *testing.T) {
	home := t.TempDir()
	path := writeConfig(t, home, "app-logging.yaml", `
level: warn
format: text
console: true
file: logs/app.log
buffers:
  - name: RECENT
    size: 4
`)

	var out bytes.Buffer
	l := Setup(Options{HomeDir: home, BaseName: "app", Stdout: &out})
	defer l.Close()

	assert.Equal(t, path, l.Source)
	assert.Nil(t, l.Buffer(BufferName))
	require.NotNil(t, l.Buffer("RECENT"))
	assert.Equal(t, 4, l.Buffer("RECENT").Cap())

	l.Logger.Info("info event")
	l.Logger.Warn("warn event")

	assert.NotContains(t, out.String(), "info event")
	assert.Contains(t, out.String(), "warn event")

	require.NoError(t, l.Close())
	data, err := os.ReadFile(filepath.Join(home, "logs", "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "warn event")
}

func TestSetup_OverrideFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "app-logging.yaml", "level: error\nconsole: true\n")
	path := writeConfig(t, home, "dev.yaml", "level: debug\nconsole: true\n")

	l := Setup(Options{HomeDir: home, BaseName: "app", ConfigFile: "dev.yaml", Stdout: &bytes.Buffer{}})
	assert.Equal(t, path, l.Source)

	// A missing override falls back to the default file
	l = Setup(Options{HomeDir: home, BaseName: "app", ConfigFile: "missing.yaml", Stdout: &bytes.Buffer{}})
	assert.Equal(t, filepath.Join(home, "conf", "app-logging.yaml"), l.Source)

	l = Setup(Options{HomeDir: home, BaseName: "app", ConfigFile: Programmatic, Stdout: &bytes.Buffer{}})
	assert.Equal(t, Programmatic, l.Source)
}

func TestSetup_InvalidFileFallsBack(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "app-logging.yaml", "level: loud\n")

	l := Setup(Options{HomeDir: home, BaseName: "app", Stdout: &bytes.Buffer{}})

	assert.Equal(t, Programmatic, l.Source)
	assert.Equal(t, slog.LevelError, l.Status.HighestLevel())
	assert.NotNil(t, l.Buffer(BufferName))
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"empty", "", false},
		{"valid", "level: info\nformat: json\nbuffers:\n  - name: A\n    size: 10\n", false},
		{"unknown field", "colour: red\n", true},
		{"bad format", "format: xml\n", true},
		{"duplicate buffer", "buffers:\n  - name: A\n  - name: A\n", true},
		{"unnamed buffer", "buffers:\n  - size: 3\n", true},
		{"negative size", "buffers:\n  - name: A\n    size: -1\n", true},
		{"bad buffer level", "buffers:\n  - name: A\n    level: nope\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
