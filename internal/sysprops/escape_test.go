package sysprops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a b=c", `a\ b\=c`},
		{"plain.key", "plain.key"},
		{"tab\there", `tab\there`},
		{"line\nbreak\r", `line\nbreak\r`},
		{"form\ffeed", `form\ffeed`},
		{"sep:#!", `sep\:\#\!`},
		{`back\slash`, `back\\slash`},
		{"é", `\u00E9`},
		{"\x01", `\u0001`},
		{"€", `\u20AC`},
		{"😀", `\uD83D\uDE00`},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.in))
		})
	}
}

func TestValue_Spaces(t *testing.T) {
	// Only a leading space is escaped in values
	assert.Equal(t, `\ lead and inner`, Value(" lead and inner"))
	assert.Equal(t, `a b`, Value("a b"))
	assert.Equal(t, `x\=y`, Value("x=y"))
}

func TestEscape_NoUnicode(t *testing.T) {
	assert.Equal(t, "é\\=", Escape("é=", false, false))
}

func TestFormat(t *testing.T) {
	got := Format(map[string]string{
		"b key": "two",
		"a":     "one=1",
	})
	assert.Equal(t, "a=one\\=1\nb\\ key=two", got)
	assert.Equal(t, "", Format(nil))
}

func TestSystemProps_ExtraWins(t *testing.T) {
	got := SystemProps(map[string]string{"go.version": "custom", "pagews.base.url": "/app/"})
	assert.Contains(t, got, "go.version=custom")
	assert.Contains(t, got, "pagews.base.url=/app/")
	assert.Contains(t, got, "os.name=")
}
