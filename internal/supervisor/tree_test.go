// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package supervisor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// signalService reports when it starts serving and blocks until canceled.
type signalService struct {
	started chan struct{}
}

func newSignalService() *signalService {
	return &signalService{started: make(chan struct{}, 8)}
}

func (s *signalService) Serve(ctx context.Context) error {
	s.started <- struct{}{}
	<-ctx.Done()
	return nil
}

func waitStarted(t *testing.T, svc *signalService) {
	t.Helper()
	select {
	case <-svc.started:
	case <-time.After(5 * time.Second):
		t.Fatal("service did not start within 5s")
	}
}

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	if cfg.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want 5.0", cfg.FailureThreshold)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestTreeServesAndStops(t *testing.T) {
	tree := NewTree(testLogger(), DefaultTreeConfig())

	ingestSvc := newSignalService()
	apiSvc := newSignalService()
	tree.AddIngestService(ingestSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(t.Context())
	errCh := tree.ServeBackground(ctx)

	waitStarted(t, ingestSvc)
	waitStarted(t, apiSvc)

	cancel()
	select {
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			t.Errorf("Serve returned %v, want nil or context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop within 5s")
	}
}

func TestTreeRestartsCrashedService(t *testing.T) {
	cfg := DefaultTreeConfig()
	cfg.FailureBackoff = 10 * time.Millisecond
	tree := NewTree(testLogger(), cfg)

	svc := &crashOnceService{signalService: newSignalService()}
	tree.AddIngestService(svc)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	tree.ServeBackground(ctx)

	// First start crashes immediately; the supervisor must bring it back.
	waitStarted(t, svc.signalService)
	waitStarted(t, svc.signalService)
}

type crashOnceService struct {
	*signalService
	crashed bool
}

func (s *crashOnceService) Serve(ctx context.Context) error {
	s.started <- struct{}{}
	if !s.crashed {
		s.crashed = true
		return fmt.Errorf("synthetic crash")
	}
	<-ctx.Done()
	return nil
}

func TestHTTPServiceServesAndDrains(t *testing.T) {
	srv := &http.Server{
		Addr: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	var addr string
	for i := 0; i < 100; i++ {
		if a := svc.ListenAddr(); a != nil {
			addr = a.String()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if addr == "" {
		t.Fatal("listener never bound")
	}

	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("HTTP service did not stop within 5s")
	}
}

func TestHTTPServiceBindFailure(t *testing.T) {
	first := &http.Server{Addr: "127.0.0.1:0", ReadHeaderTimeout: 5 * time.Second}
	firstSvc := NewHTTPService(first, time.Second)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go func() { _ = firstSvc.Serve(ctx) }()

	var addr string
	for i := 0; i < 100; i++ {
		if a := firstSvc.ListenAddr(); a != nil {
			addr = a.String()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if addr == "" {
		t.Fatal("first listener never bound")
	}

	second := &http.Server{Addr: addr, ReadHeaderTimeout: 5 * time.Second}
	if err := NewHTTPService(second, time.Second).Serve(t.Context()); err == nil {
		t.Error("Serve on an occupied port should fail")
	}
}
