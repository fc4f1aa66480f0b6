// Package server exposes the dashboard query API over HTTP plus a
// websocket channel that notifies connected clients when the underlying
// workbooks change and a new snapshot is swapped in.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"portfolio-stress-lab/internal/config"
	"portfolio-stress-lab/internal/dataset"
	"portfolio-stress-lab/internal/pipeline"
)

// Server wires the refresh pipeline, the snapshot store and the HTTP
// surface together.
type Server struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  *dataset.Store
	runner *pipeline.Runner
	hub    *Hub

	httpServer *http.Server
}

// New creates a Server.
func New(cfg *config.Config, runner *pipeline.Runner, log zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log.With().Str("component", "server").Logger(),
		store:  dataset.NewStore(),
		runner: runner,
		hub:    NewHub(log),
	}
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run performs the initial load, starts the refresh loop and serves
// HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	snap, err := s.runner.Run(ctx, nil)
	if err != nil {
		return err
	}
	s.store.Replace(snap)

	go s.refreshLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// refreshLoop re-checks the input fingerprints on the configured
// interval and swaps in a new snapshot when any file changed, then
// notifies websocket clients.
func (s *Server) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prev := s.store.Current()
			snap, err := s.runner.Run(ctx, prev)
			if err != nil {
				// A broken refresh keeps the last good snapshot in place.
				s.log.Error().Err(err).Msg("refresh failed, keeping current snapshot")
				continue
			}
			if snap == prev {
				continue
			}
			s.store.Replace(snap)
			s.hub.Broadcast(RefreshEvent{
				Event:    "refresh",
				LoadedAt: snap.LoadedAt,
			})
		}
	}
}
