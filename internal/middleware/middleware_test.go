package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/models/dto"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/pmb/admissions/internal/pkg/auth"
	"github.com/pmb/admissions/internal/pkg/logger"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type finderFunc func(ctx context.Context, token string) (*models.APIKey, error)

func (f finderFunc) FindByKey(ctx context.Context, token string) (*models.APIKey, error) {
	return f(ctx, token)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newErrorRouter(production bool, err error) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(production))
	r.GET("/fail", func(c *gin.Context) {
		HandleAPIError(c, err)
	})
	return r
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		production  bool
		err         error
		wantStatus  int
		wantLabel   string
		wantMessage string
	}{
		{
			name:        "validation",
			err:         apperrors.NewBadRequestError("Missing required fields: fullName"),
			wantStatus:  http.StatusBadRequest,
			wantLabel:   "Bad Request",
			wantMessage: "Missing required fields: fullName",
		},
		{
			name:        "not found",
			err:         apperrors.NewResourceNotFoundError("Applicant not found."),
			wantStatus:  http.StatusNotFound,
			wantLabel:   "Not Found",
			wantMessage: "Applicant not found.",
		},
		{
			name:        "unique violation from the store",
			err:         &pgconn.PgError{Code: "23505", ConstraintName: "applicants_registration_number_key"},
			wantStatus:  http.StatusConflict,
			wantLabel:   "Conflict",
			wantMessage: "Registration number already exists.",
		},
		{
			name:        "value too long for a column",
			err:         fmt.Errorf("error converting applicant: %w", &pgconn.PgError{Code: "22001", ColumnName: "nim"}),
			wantStatus:  http.StatusBadRequest,
			wantLabel:   "Bad Request",
			wantMessage: "Value too long for nim.",
		},
		{
			name:        "unexpected error in development",
			err:         errors.New("connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantLabel:   "Internal Server Error",
			wantMessage: "connection reset",
		},
		{
			name:        "unexpected error in production",
			production:  true,
			err:         errors.New("connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantLabel:   "Internal Server Error",
			wantMessage: GenericErrorMessage,
		},
		{
			name:        "production keeps 4xx messages",
			production:  true,
			err:         apperrors.NewConflictError("NIM S1 already exists."),
			wantStatus:  http.StatusConflict,
			wantLabel:   "Conflict",
			wantMessage: "NIM S1 already exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newErrorRouter(tt.production, tt.err).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantLabel, resp.Error)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(true))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, GenericErrorMessage, decodeEnvelope(t, w).Message)
}

func TestNotFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/nowhere?x=1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route PATCH /api/v1/nowhere?x=1 not found.", decodeEnvelope(t, w).Message)
}

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]*models.APIKey{
		"pmb_active":   {ID: "k1", APIKey: "pmb_active", IsActive: true},
		"pmb_disabled": {ID: "k2", APIKey: "pmb_disabled", IsActive: false},
	}
	finder := finderFunc(func(_ context.Context, token string) (*models.APIKey, error) {
		if token == "pmb_broken" {
			return nil, errors.New("pool closed")
		}
		if k, ok := keys[token]; ok {
			return k, nil
		}
		return nil, apperrors.NewResourceNotFoundError("API key not found.")
	})

	r := gin.New()
	r.Use(ErrorHandler(false))
	r.GET("/protected", NewAuthMiddleware(finder, "").APIKeyAuth(), func(c *gin.Context) {
		key, ok := CurrentAPIKey(c)
		require.True(t, ok)
		c.String(http.StatusOK, key.ID)
	})

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{"missing header", "", http.StatusUnauthorized, "API key is required. Please provide x-api-key header."},
		{"unknown key", "pmb_unknown", http.StatusUnauthorized, "Invalid API key."},
		{"disabled key", "pmb_disabled", http.StatusUnauthorized, "API key has been disabled."},
		{"store failure", "pmb_broken", http.StatusInternalServerError, "failed to validate API key: pool closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decodeEnvelope(t, w).Message)
		})
	}

	t.Run("active key passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(APIKeyHeader, "pmb_active")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "k1", w.Body.String())
	})
}

func TestAdminKeyAuth(t *testing.T) {
	hash, err := auth.HashKey("root-secret")
	require.NoError(t, err)

	build := func(hash string) *gin.Engine {
		r := gin.New()
		r.Use(ErrorHandler(false))
		r.GET("/api-keys", NewAuthMiddleware(nil, hash).AdminKeyAuth(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("open when no hash is configured", func(t *testing.T) {
		w := httptest.NewRecorder()
		build("").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-keys", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api-keys", nil)
		req.Header.Set(AdminKeyHeader, "guess")
		w := httptest.NewRecorder()
		build(hash).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts the configured key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api-keys", nil)
		req.Header.Set(AdminKeyHeader, "root-secret")
		w := httptest.NewRecorder()
		build(hash).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://pmb.example.ac.id"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://pmb.example.ac.id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://pmb.example.ac.id", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), APIKeyHeader)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// captureLogs routes the process logger into a buffer for the duration of the test
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Configure(logger.Config{Level: logger.InfoLevel, Output: &buf})
	t.Cleanup(func() { logger.Configure(logger.Config{Level: logger.InfoLevel, Pretty: true, Output: os.Stdout}) })
	return &buf
}

func TestRequestLogger(t *testing.T) {
	logs := captureLogs(t)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ok", func(c *gin.Context) {
		c.Set(ContextAPIKey, &models.APIKey{ID: "k1", Name: "Registrar"})
		c.Status(http.StatusAccepted)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok?page=2", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "Registrar", entry["apiKey"])
	assert.Equal(t, "/ok", entry["path"])
	assert.Equal(t, "page=2", entry["query"])
	assert.EqualValues(t, http.StatusAccepted, entry["status"])
}

func TestErrorHandler_LogsStackForServerErrors(t *testing.T) {
	logs := captureLogs(t)

	err := fmt.Errorf("error retrieving applicants: %w", pkgerrors.Wrap(errors.New("connection reset"), "failed to query applicants"))
	w := httptest.NewRecorder()
	newErrorRouter(false, err).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.NotEmpty(t, entry["stack"])
}

func TestRecovery_LogsStack(t *testing.T) {
	logs := captureLogs(t)

	r := gin.New()
	r.Use(Recovery(false))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", decodeEnvelope(t, w).Message)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "boom", entry["panic"])
	assert.Contains(t, entry["stack"], "runtime/debug.Stack")
}

type bindTarget struct {
	RegistrationNumber string  `json:"registrationNumber" binding:"required,notblank"`
	FullName           string  `json:"fullName" binding:"required,notblank"`
	Email              *string `json:"email" binding:"omitempty,email"`
	GraduationYear     *int    `json:"graduationYear"`
}

func bindBody(t *testing.T, body string) error {
	t.Helper()
	RegisterValidators()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var target bindTarget
	return c.ShouldBindJSON(&target)
}

func TestBindingError(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"missing fields", `{"fullName": "  "}`, "Missing required fields: registrationNumber, fullName"},
		{"invalid email", `{"registrationNumber": "R", "fullName": "A", "email": "nope"}`, "email must be a valid email address."},
		{"wrong type", `{"registrationNumber": "R", "fullName": "A", "graduationYear": "soon"}`, "Invalid value for graduationYear."},
		{"malformed json", `{"registrationNumber": `, "Invalid request body."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BindingError(bindBody(t, tt.body))
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.EqualError(t, err, tt.wantMessage)
		})
	}
}
