package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/pmb/admissions/internal/pkg/auth"
)

const (
	APIKeyHeader   = "x-api-key"
	AdminKeyHeader = "x-admin-key"

	// ContextAPIKey holds the authenticated *models.APIKey
	ContextAPIKey = "apiKey"
)

// APIKeyFinder resolves a token to its stored key
type APIKeyFinder interface {
	FindByKey(ctx context.Context, token string) (*models.APIKey, error)
}

// AuthMiddleware guards routes with the static API key and the optional admin key
type AuthMiddleware struct {
	keys         APIKeyFinder
	adminKeyHash string
}

// NewAuthMiddleware creates a new AuthMiddleware. An empty adminKeyHash leaves key management open.
func NewAuthMiddleware(keys APIKeyFinder, adminKeyHash string) *AuthMiddleware {
	return &AuthMiddleware{
		keys:         keys,
		adminKeyHash: adminKeyHash,
	}
}

// APIKeyAuth requires an active key in the x-api-key header
func (m *AuthMiddleware) APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(APIKeyHeader))
		if token == "" {
			HandleAPIError(c, apperrors.ErrAPIKeyMissing)
			return
		}

		key, err := m.keys.FindByKey(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				HandleAPIError(c, apperrors.ErrAPIKeyInvalid)
				return
			}
			HandleAPIError(c, fmt.Errorf("failed to validate API key: %w", err))
			return
		}

		if !key.IsActive {
			HandleAPIError(c, apperrors.ErrAPIKeyDisabled)
			return
		}

		c.Set(ContextAPIKey, key)
		c.Next()
	}
}

// AdminKeyAuth requires x-admin-key to match the configured bcrypt hash.
// It is a no-op when no hash is configured.
func (m *AuthMiddleware) AdminKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.adminKeyHash == "" {
			c.Next()
			return
		}

		if !auth.CheckKey(m.adminKeyHash, c.GetHeader(AdminKeyHeader)) {
			HandleAPIError(c, apperrors.ErrAdminKeyDenied)
			return
		}
		c.Next()
	}
}

// CurrentAPIKey returns the key authenticated by APIKeyAuth
func CurrentAPIKey(c *gin.Context) (*models.APIKey, bool) {
	value, exists := c.Get(ContextAPIKey)
	if !exists {
		return nil, false
	}
	key, ok := value.(*models.APIKey)
	return key, ok
}
