package httpx_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/k1networth/servicedesk-cli/internal/shared/httpx"
)

func testLogger() *slog.Logger {
	h := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h).With(
		slog.String("app", "test"),
		slog.String("env", "test"),
	)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "tickets_created_total", Help: "Tickets created."})
	reg.MustRegister(c)
	c.Add(3)
	return reg
}

func TestHealthzReturns200AndBodyOK(t *testing.T) {
	srv := httptest.NewServer(httpx.NewRouter(testLogger(), newRegistry()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if string(b) != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", string(b))
	}
}

func TestMetricsExposesRegistry(t *testing.T) {
	srv := httptest.NewServer(httpx.NewRouter(testLogger(), newRegistry()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "tickets_created_total 3") {
		t.Fatalf("expected counter in body, got %s", string(b))
	}
}

func TestMetricsRejectsPost(t *testing.T) {
	srv := httptest.NewServer(httpx.NewRouter(testLogger(), newRegistry()))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/metrics", "text/plain", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected %d, got %d", http.StatusMethodNotAllowed, resp.StatusCode)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done, err := httpx.Serve(ctx, testLogger(), "127.0.0.1:0", httpx.NewRouter(testLogger(), newRegistry()), time.Second)
	if err != nil {
		t.Fatalf("serve: %v", err)
	}

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop after cancel")
	}
}

func TestServeReportsListenError(t *testing.T) {
	if _, err := httpx.Serve(context.Background(), testLogger(), "256.0.0.1:bad", http.NotFoundHandler(), time.Second); err == nil {
		t.Fatalf("expected listen error")
	}
}

func TestServeWaitsForInFlightRequests(t *testing.T) {
	var logBuf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	started := make(chan struct{})
	release := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = w.Write([]byte("late"))
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done, err := httpx.Serve(ctx, log, addr, h, 5*time.Second)
	if err != nil {
		t.Fatalf("serve: %v", err)
	}

	type result struct {
		body string
		err  error
	}
	got := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + addr + "/slow")
		if err != nil {
			got <- result{err: err}
			return
		}
		defer func() { _ = resp.Body.Close() }()
		b, err := io.ReadAll(resp.Body)
		got <- result{body: string(b), err: err}
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatalf("request never reached the handler")
	}

	cancel()

	select {
	case <-done:
		t.Fatalf("server reported stopped while a request was in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop after the request finished")
	}

	r := <-got
	if r.err != nil {
		t.Fatalf("request failed: %v", r.err)
	}
	if r.body != "late" {
		t.Fatalf("expected body %q, got %q", "late", r.body)
	}
	if !strings.Contains(logBuf.String(), "metrics_shutdown_done") {
		t.Fatalf("expected shutdown log, got %s", logBuf.String())
	}
}
