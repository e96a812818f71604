// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package supervisor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/devatlas/devatlas/internal/ingest"
	"github.com/devatlas/devatlas/internal/logging"
)

// HTTPService adapts an *http.Server to suture.Service. Serve binds the
// listener itself so a port conflict surfaces as a supervised failure
// instead of a silent goroutine death.
type HTTPService struct {
	server          *http.Server
	shutdownTimeout time.Duration

	mu   sync.Mutex
	addr net.Addr
}

// NewHTTPService wraps srv for supervision. shutdownTimeout bounds the
// graceful drain on context cancellation; zero means 10s.
func NewHTTPService(srv *http.Server, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{server: srv, shutdownTimeout: shutdownTimeout}
}

// ListenAddr returns the bound address once Serve has started, or nil.
func (s *HTTPService) ListenAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Serve implements suture.Service. It blocks until the context is canceled
// or the server fails, then drains in-flight requests.
func (s *HTTPService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	logging.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("HTTP server shutdown incomplete")
	}
	<-errCh

	logging.Info().Msg("HTTP server stopped")
	return nil
}

// SyncService adapts the ingestion manager to suture.Service. The manager
// owns its own scheduler goroutine; the wrapper brackets its lifecycle with
// the supervisor context.
type SyncService struct {
	manager *ingest.Manager
}

// NewSyncService wraps the sync manager for supervision.
func NewSyncService(manager *ingest.Manager) *SyncService {
	return &SyncService{manager: manager}
}

// Serve implements suture.Service.
func (s *SyncService) Serve(ctx context.Context) error {
	logging.Info().Msg("Starting sync service")

	s.manager.Start(ctx)

	<-ctx.Done()

	s.manager.Stop()
	logging.Info().Msg("Sync service stopped")

	return nil
}
