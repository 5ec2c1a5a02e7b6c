package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/angelmondragon/stockpos/pkg/config"
	"github.com/angelmondragon/stockpos/pkg/logger"
)

const shutdownGrace = 10 * time.Second

// Server is the loopback HTTP facade over the engine.
type Server struct {
	http *http.Server
	logg *logger.Logger
}

// NewServer binds handler to the configured listen address.
func NewServer(cfg *config.Config, handler http.Handler, logg *logger.Logger) *Server {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Server{
		http: &http.Server{
			Addr:              cfg.App.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logg: logg,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logg.Info(s.logg.WithField(ctx, "addr", s.http.Addr), "http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	s.logg.Info(ctx, "http server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
