package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/repositories"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/pmb/admissions/internal/pkg/dberrors"
	"github.com/pmb/admissions/internal/pkg/logger"
)

// DefaultAPIKeyName names the key seeded into an empty installation
const DefaultAPIKeyName = "Default Admin Key"

var ErrAPIKeyNotFound = apperrors.NewResourceNotFoundError("API key not found.")

// APIKeyService defines the interface for API key operations
type APIKeyService interface {
	Create(ctx context.Context, name string) (*models.APIKey, error)
	FindAll(ctx context.Context) ([]models.APIKey, error)
	FindByID(ctx context.Context, id string) (*models.APIKey, error)
	FindByKey(ctx context.Context, token string) (*models.APIKey, error)
	Disable(ctx context.Context, id string) (*models.APIKey, error)
	Enable(ctx context.Context, id string) (*models.APIKey, error)
	Delete(ctx context.Context, id string) error
	EnsureDefault(ctx context.Context) (*models.APIKey, error)
}

type apiKeyServiceImpl struct {
	store APIKeyStore
}

// NewAPIKeyService creates a new API key service instance
func NewAPIKeyService(store APIKeyStore) APIKeyService {
	return &apiKeyServiceImpl{store: store}
}

// GenerateAPIKeyToken returns pmb_ followed by 32 lowercase hex characters
func GenerateAPIKeyToken() string {
	return models.APIKeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func notFoundAs(err, replacement error) error {
	if errors.Is(dberrors.Translate(err), repositories.ErrNotFound) {
		return replacement
	}
	return err
}

// Create issues a new active key
func (s *apiKeyServiceImpl) Create(ctx context.Context, name string) (*models.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("Name is required.")
	}

	key, err := s.store.Create(ctx, &models.APIKey{
		ID:       uuid.NewString(),
		Name:     name,
		APIKey:   GenerateAPIKeyToken(),
		IsActive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating API key: %w", err)
	}

	logger.Info().Str("apiKeyID", key.ID).Str("name", key.Name).Msg("API key created")
	return key, nil
}

func (s *apiKeyServiceImpl) FindAll(ctx context.Context) ([]models.APIKey, error) {
	keys, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving API keys: %w", err)
	}
	return keys, nil
}

func (s *apiKeyServiceImpl) FindByID(ctx context.Context, id string) (*models.APIKey, error) {
	key, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrAPIKeyNotFound)
	}
	return key, nil
}

// FindByKey looks a key up by its token. Unknown tokens yield ErrAPIKeyNotFound.
func (s *apiKeyServiceImpl) FindByKey(ctx context.Context, token string) (*models.APIKey, error) {
	key, err := s.store.FindByKey(ctx, token)
	if err != nil {
		return nil, notFoundAs(err, ErrAPIKeyNotFound)
	}
	return key, nil
}

func (s *apiKeyServiceImpl) setActive(ctx context.Context, id string, active bool) (*models.APIKey, error) {
	key, err := s.store.SetActive(ctx, id, active)
	if err != nil {
		return nil, notFoundAs(err, ErrAPIKeyNotFound)
	}
	logger.Info().Str("apiKeyID", id).Bool("active", active).Msg("API key status changed")
	return key, nil
}

func (s *apiKeyServiceImpl) Disable(ctx context.Context, id string) (*models.APIKey, error) {
	return s.setActive(ctx, id, false)
}

func (s *apiKeyServiceImpl) Enable(ctx context.Context, id string) (*models.APIKey, error) {
	return s.setActive(ctx, id, true)
}

func (s *apiKeyServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrAPIKeyNotFound)
	}
	logger.Info().Str("apiKeyID", id).Msg("API key deleted")
	return nil
}

// EnsureDefault creates the default key when no key exists yet.
// It returns nil when keys are already present.
func (s *apiKeyServiceImpl) EnsureDefault(ctx context.Context) (*models.APIKey, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		return nil, nil
	}
	return s.Create(ctx, DefaultAPIKeyName)
}
