package web

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/rampantspark/pagews/internal/charset"
)

// WriteResponse writes output with the given content type and encoding.
// The output is converted to the encoding before it is written.
func WriteResponse(w http.ResponseWriter, contentType, encoding, output string) error {
	b, err := charset.Encode(output, encoding)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", withCharset(contentType, encoding))
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("could not write text response: %w", err)
	}
	return nil
}

// WriteReader copies text from r to the response, converting it from UTF-8
// to the given encoding.
func WriteReader(w http.ResponseWriter, contentType, encoding string, r io.Reader) error {
	enc, err := charset.Find(encoding)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", withCharset(contentType, encoding))
	ew := enc.NewEncoder().Writer(w)
	if _, err := io.Copy(ew, r); err != nil {
		return fmt.Errorf("could not write text response from reader: %w", err)
	}
	return nil
}

// WriteDownload sends bytes from r as an attachment named fileName.
// An empty contentType means "application/octet-stream".
func WriteDownload(w http.ResponseWriter, contentType, fileName string, r io.Reader) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("could not write byte response: %w", err)
	}
	return nil
}

// SendError replies with the status code and a plain-text message.
func SendError(w http.ResponseWriter, code int, msg string) {
	http.Error(w, msg, code)
}

// SendRedirect redirects the client to location (303 See Other).
func SendRedirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func withCharset(contentType, encoding string) string {
	if name, err := charset.CanonicalName(encoding); err == nil {
		encoding = name
	}
	return contentType + "; charset=" + encoding
}

// LogRequestDetails logs the headers, parameters and query string of the
// request at debug level.
func LogRequestDetails(logger *slog.Logger, r *http.Request) {
	if !logger.Enabled(r.Context(), slog.LevelDebug) {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s request details:", r.RemoteAddr, r.Method)

	if len(r.Header) == 0 {
		sb.WriteString("\nNo headers.")
	}
	for _, name := range sortedKeys(r.Header) {
		fmt.Fprintf(&sb, "\nHeader %s: %s", name, strings.Join(r.Header[name], ", "))
	}

	params := r.URL.Query()
	if len(params) == 0 {
		sb.WriteString("\nNo parameters.")
	}
	for _, name := range sortedKeys(params) {
		fmt.Fprintf(&sb, "\nParam %s: %v", name, params[name])
	}

	if r.URL.RawQuery == "" {
		sb.WriteString("\nNo query string.")
	} else {
		q, err := url.QueryUnescape(r.URL.RawQuery)
		if err != nil {
			q = r.URL.RawQuery
		}
		sb.WriteString("\nQuery string:\n")
		sb.WriteString(q)
	}
	logger.Debug(sb.String())
}

func sortedKeys[M ~map[string][]string](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
