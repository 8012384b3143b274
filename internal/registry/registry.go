package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rampantspark/pagews/internal/web"
)

var (
	// ErrDuplicatePath is returned when a path is already bound under another name.
	ErrDuplicatePath = errors.New("path already registered")
	// ErrUnknownName is returned when no binding exists for a name.
	ErrUnknownName = errors.New("unknown binding")
	// ErrAlreadyBound is returned when a binding already has a controller.
	ErrAlreadyBound = errors.New("controller already bound")
)

// Registry maintains all bindings by name and by request path.
//
// The registry is not safe for concurrent modification. All bindings are
// registered during startup; afterwards the registry is only read, which
// is safe from any number of goroutines.
type Registry struct {
	byName map[string]*Binding
	byPath map[string]*Binding
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*Binding),
		byPath: make(map[string]*Binding),
	}
}

// Register adds the binding, replacing any binding with the same name.
//
// Returns ErrDuplicatePath when the binding's path is already registered
// under a different name.
func (reg *Registry) Register(b *Binding) error {
	if b == nil || strings.TrimSpace(b.Name) == "" {
		return errors.New("binding without name")
	}
	if b.Path != "" {
		if other, ok := reg.byPath[b.Path]; ok && other.Name != b.Name {
			return fmt.Errorf("%w: %s is bound to %s", ErrDuplicatePath, b.Path, other.Name)
		}
	}
	reg.Unregister(b.Name)
	reg.byName[b.Name] = b
	if b.Path != "" {
		reg.byPath[b.Path] = b
	}
	return nil
}

// Unregister removes the named binding. Returns false if it did not exist.
func (reg *Registry) Unregister(name string) bool {
	b, ok := reg.byName[name]
	if !ok {
		return false
	}
	if b.Path != "" {
		delete(reg.byPath, b.Path)
	}
	delete(reg.byName, name)
	return true
}

// Bind sets the controller of the named binding.
func (reg *Registry) Bind(name string, c web.Controller) error {
	b, ok := reg.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownName, name)
	}
	if b.Controller != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyBound, name)
	}
	b.Controller = c
	return nil
}

// LookupByName returns the named binding.
func (reg *Registry) LookupByName(name string) (*Binding, bool) {
	b, ok := reg.byName[name]
	return b, ok
}

// BindingByPath returns the binding for a request path.
func (reg *Registry) BindingByPath(path string) (*Binding, bool) {
	b, ok := reg.byPath[path]
	return b, ok
}

// LookupByPath returns the controller bound to a request path.
// Returns false when the path is unknown or has no controller yet.
func (reg *Registry) LookupByPath(path string) (web.Controller, bool) {
	b, ok := reg.byPath[path]
	if !ok || b.Controller == nil {
		return nil, false
	}
	return b.Controller, true
}

// Path returns the request path of the named binding, or "".
func (reg *Registry) Path(name string) string {
	if b, ok := reg.byName[name]; ok {
		return b.Path
	}
	return ""
}

// View returns the view of the named binding, or "".
func (reg *Registry) View(name string) string {
	if b, ok := reg.byName[name]; ok {
		return b.View
	}
	return ""
}

// Bindings returns all bindings sorted by name.
func (reg *Registry) Bindings() []*Binding {
	out := make([]*Binding, 0, len(reg.byName))
	for _, b := range reg.byName {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of bindings.
func (reg *Registry) Len() int {
	return len(reg.byName)
}
