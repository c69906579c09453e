package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pmb/admissions/internal/bootstrap"
	"github.com/pmb/admissions/internal/config"
)

// Server owns the HTTP listener and the database pool for the lifetime of the process
type Server struct {
	cfg  *config.Config
	pool *pgxpool.Pool
	http *http.Server
	log  zerolog.Logger
}

// New loads configuration, migrates the database and wires the router
func New() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("prepare database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, pool, lgr)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("wire dependencies: %w", err)
	}

	return &Server{
		cfg:  cfg,
		pool: pool,
		log:  lgr,
		http: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           bootstrap.SetupRouter(cfg, deps, lgr),
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
	}, nil
}

// Run serves requests until ctx is cancelled or the listener fails.
// On cancellation in-flight requests get cfg.Server.ShutdownTimeout to finish.
func (s *Server) Run(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		s.log.Info().
			Str("addr", s.http.Addr).
			Str("mode", s.cfg.Server.Mode).
			Str("version", bootstrap.Version).
			Msg("PMB admissions API listening")
		listenErr <- s.http.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		s.pool.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	case <-ctx.Done():
		s.log.Info().Dur("timeout", s.cfg.Server.ShutdownTimeout).Msg("Shutdown requested, draining requests")
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	// the pool outlives the listener so draining handlers can still reach the database
	s.pool.Close()
	if err != nil {
		s.log.Error().Err(err).Msg("HTTP server did not drain in time")
		return fmt.Errorf("drain http server: %w", err)
	}

	s.log.Info().Msg("Server stopped, database pool closed")
	return nil
}
