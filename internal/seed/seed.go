package seed

import (
	"context"
	"fmt"

	"github.com/pmb/admissions/internal/app/models"
	"github.com/rs/zerolog"
)

// APIKeyProvisioner issues the first API key of an empty installation
type APIKeyProvisioner interface {
	EnsureDefault(ctx context.Context) (*models.APIKey, error)
}

// CreateDefaultData issues a default API key when none exists so that a fresh
// deployment can reach the protected routes. The token is logged exactly once.
func CreateDefaultData(ctx context.Context, keys APIKeyProvisioner, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking default data (API keys)...")

	key, err := keys.EnsureDefault(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure default API key: %w", err)
	}

	if key == nil {
		lgr.Info().Msg("API keys already exist, skipping default key creation")
		return nil
	}

	lgr.Warn().
		Str("id", key.ID).
		Str("name", key.Name).
		Str("apiKey", key.APIKey).
		Msg("Default API key created. Store it now, it will not be shown again")
	return nil
}
