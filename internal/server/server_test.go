package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunListener_GracefulShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	s := New(&Config{Port: "0"}, handler, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	var cleanups atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- s.RunListener(ctx, l, time.Second, func() { cleanups.Add(1) })
	}()

	resp, err := http.Get("http://" + l.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunListener() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	if got := cleanups.Load(); got != 1 {
		t.Errorf("cleanup called %d times, want 1", got)
	}
}

func TestRunListener_ServeError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	l.Close()

	s := New(&Config{Port: "0"}, http.NotFoundHandler(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	var cleaned bool
	err = s.RunListener(context.Background(), l, time.Second, func() { cleaned = true })
	if err == nil {
		t.Error("RunListener() on closed listener should fail")
	}
	if !cleaned {
		t.Error("cleanup should run when serving fails")
	}
}
