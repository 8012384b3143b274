// Package charset looks up character encodings by name and caches the
// result, so response writers can resolve the configured encoding cheaply
// on every request.
package charset

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnsupported is returned for encoding names that are not known.
var ErrUnsupported = errors.New("unsupported encoding")

// Default is the encoding used when none is configured.
const Default = "UTF-8"

var cache sync.Map // lower-cased alias -> encoding.Encoding

// Find returns the encoding for the given alias (e.g. "UTF-8", "latin1").
func Find(alias string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(alias))
	if key == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnsupported)
	}
	if enc, ok := cache.Load(key); ok {
		return enc.(encoding.Encoding), nil
	}
	enc, err := htmlindex.Get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, alias)
	}
	actual, _ := cache.LoadOrStore(key, enc)
	return actual.(encoding.Encoding), nil
}

// Validate reports whether alias names a supported encoding.
func Validate(alias string) error {
	_, err := Find(alias)
	return err
}

// CanonicalName returns the canonical (IANA/WHATWG) name for alias,
// e.g. "utf-8" for "UTF8".
func CanonicalName(alias string) (string, error) {
	enc, err := Find(alias)
	if err != nil {
		return "", err
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, alias)
	}
	return name, nil
}

// IsUTF8 reports whether alias names UTF-8.
func IsUTF8(alias string) bool {
	enc, err := Find(alias)
	return err == nil && enc == unicode.UTF8
}

// Encode converts s to bytes in the encoding named by alias.
// Characters that cannot be represented are replaced.
func Encode(s, alias string) ([]byte, error) {
	enc, err := Find(alias)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return []byte(s), nil
	}
	b, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode to %s: %w", alias, err)
	}
	return b, nil
}

// Decode converts b from the encoding named by alias to a string.
func Decode(b []byte, alias string) (string, error) {
	enc, err := Find(alias)
	if err != nil {
		return "", err
	}
	if enc == unicode.UTF8 {
		return string(b), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("failed to decode from %s: %w", alias, err)
	}
	return string(out), nil
}
