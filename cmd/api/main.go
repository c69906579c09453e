package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pmb/admissions/internal/pkg/logger"
	"github.com/pmb/admissions/internal/server"
)

// @title PMB Admissions API
// @version 1.0
// @description Admissions backend: applicants, LOA publishing, student conversion and the study program catalog.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description Static API key issued through /api-keys

// @securityDefinitions.apikey AdminKeyAuth
// @in header
// @name x-admin-key
// @description Admin key, required for /api-keys when auth.admin_key_hash is configured

func main() {
	srv, err := server.New()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Server stopped with an error")
		stop()
		os.Exit(1)
	}
}
