package web

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteResponse(rec, "text/plain", "ISO-8859-1", "café"))

	assert.Equal(t, "text/plain; charset=windows-1252", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9}, rec.Body.Bytes())
}

func TestWriteResponse_UnknownEncoding(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Error(t, WriteResponse(rec, "text/plain", "bogus", "x"))
	assert.Empty(t, rec.Body.Bytes())
}

func TestWriteReader(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteReader(rec, "text/html", "UTF-8", strings.NewReader("<p>ok</p>")))

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<p>ok</p>", rec.Body.String())
}

func TestWriteDownload(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteDownload(rec, "", "report.txt", bytes.NewReader([]byte{1, 2, 3})))

	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=report.txt", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte{1, 2, 3}, rec.Body.Bytes())
}

func TestSendErrorAndRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	SendError(rec, http.StatusNotFound, "Could not find page x")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not find page x")

	rec = httptest.NewRecorder()
	SendRedirect(rec, httptest.NewRequest(http.MethodGet, "/a", nil), "/app/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/app/", rec.Header().Get("Location"))
}

func TestLogRequestDetails(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := httptest.NewRequest(http.MethodGet, "/a?name=a%20b", nil)
	r.Header.Set("X-Test", "1")
	LogRequestDetails(logger, r)

	assert.Contains(t, out.String(), "Header X-Test: 1")
	assert.Contains(t, out.String(), "Param name: [a b]")
	assert.Contains(t, out.String(), "name=a b")

	out.Reset()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	LogRequestDetails(quiet, r)
	assert.Empty(t, out.String())
}
