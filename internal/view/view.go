// Package view resolves view identifiers returned by controllers to page
// templates and renders them with the request attributes.
package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/rampantspark/pagews/internal/charset"
	"github.com/rampantspark/pagews/internal/web"
)

// Known views.
const (
	Index    = "index"
	Stats    = "stats"
	SysEnv   = "sysenv"
	Log      = "log"
	LogError = "logerror"
)

// ErrUnknownView is returned when a view identifier has no template.
var ErrUnknownView = errors.New("unknown view")

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "templates/base.html"

// Link is an entry in the index page.
type Link struct {
	Title string
	URL   string
}

// Set holds one parsed template per view.
type Set struct {
	templates map[string]*template.Template
}

// New parses all embedded views.
func New() (*Set, error) {
	return NewFromFS(templateFS, "templates")
}

// NewFromFS parses every *.html file in dir except base.html, each combined
// with dir/base.html. The view identifier is the file name without extension.
func NewFromFS(fsys fs.FS, dir string) (*Set, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	base := path.Join(dir, "base.html")

	s := &Set{templates: make(map[string]*template.Template)}
	for _, f := range files {
		if f == base {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.ParseFS(fsys, base, f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse view %s: %w", name, err)
		}
		s.templates[name] = t
	}
	return s, nil
}

// Lookup returns the template of a view.
func (s *Set) Lookup(name string) (*template.Template, bool) {
	t, ok := s.templates[name]
	return t, ok
}

// Has reports whether the view exists.
func (s *Set) Has(name string) bool {
	_, ok := s.templates[name]
	return ok
}

// Names returns the sorted view identifiers.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.templates))
	for n := range s.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render executes the view with the attributes into a string.
func (s *Set) Render(name string, attrs *web.Attributes) (string, error) {
	t, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", attrs.Map()); err != nil {
		return "", fmt.Errorf("failed to render view %s: %w", name, err)
	}
	return buf.String(), nil
}

// Forward renders the view and writes it as text/html in the given
// encoding. Nothing is written when rendering fails.
func (s *Set) Forward(w http.ResponseWriter, name string, attrs *web.Attributes, encoding string) error {
	if encoding == "" {
		encoding = charset.Default
	}
	if attrs.Get("charset") == nil {
		attrs.Set("charset", encoding)
	}
	out, err := s.Render(name, attrs)
	if err != nil {
		return err
	}
	return web.WriteResponse(w, "text/html", encoding, out)
}
