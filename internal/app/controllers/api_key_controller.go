package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pmb/admissions/internal/app/models/dto"
	"github.com/pmb/admissions/internal/app/services"
	"github.com/pmb/admissions/internal/middleware"
	"github.com/pmb/admissions/internal/pkg/apperrors"
)

var errNameRequired = apperrors.NewBadRequestError("Name is required.")

// APIKeyController handles API key management
type APIKeyController struct {
	apiKeyService services.APIKeyService
}

// NewAPIKeyController creates a new APIKeyController
func NewAPIKeyController(apiKeyService services.APIKeyService) *APIKeyController {
	return &APIKeyController{apiKeyService: apiKeyService}
}

// Create issues a new API key
// @Summary Create an API key
// @Description Issues a new active key. The token is returned in apiKey.
// @Tags api-keys
// @Accept json
// @Produce json
// @Security AdminKeyAuth
// @Param request body dto.CreateAPIKeyRequest true "Key name"
// @Success 201 {object} dto.APIResponse{data=models.APIKey} "API key created successfully."
// @Failure 400 {object} dto.ErrorResponse "Name is required."
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api-keys [post]
func (c *APIKeyController) Create(ctx *gin.Context) {
	var req dto.CreateAPIKeyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if errors.As(err, new(validator.ValidationErrors)) {
			middleware.HandleAPIError(ctx, errNameRequired)
			return
		}
		middleware.HandleAPIError(ctx, middleware.BindingError(err))
		return
	}

	key, err := c.apiKeyService.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("API key created successfully.", key))
}

// FindAll lists every key, newest first
// @Summary List API keys
// @Tags api-keys
// @Produce json
// @Security AdminKeyAuth
// @Success 200 {object} dto.APIResponse{data=[]models.APIKey} "API keys retrieved successfully."
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api-keys [get]
func (c *APIKeyController) FindAll(ctx *gin.Context) {
	keys, err := c.apiKeyService.FindAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("API keys retrieved successfully.", keys))
}

// FindByID returns one key
// @Summary Get an API key
// @Tags api-keys
// @Produce json
// @Security AdminKeyAuth
// @Param id path string true "API key ID"
// @Success 200 {object} dto.APIResponse{data=models.APIKey} "API key retrieved successfully."
// @Failure 404 {object} dto.ErrorResponse "API key not found."
// @Router /api-keys/{id} [get]
func (c *APIKeyController) FindByID(ctx *gin.Context) {
	key, err := c.apiKeyService.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("API key retrieved successfully.", key))
}

// Disable blocks a key
// @Summary Disable an API key
// @Tags api-keys
// @Produce json
// @Security AdminKeyAuth
// @Param id path string true "API key ID"
// @Success 200 {object} dto.APIResponse{data=models.APIKey} "API key disabled successfully."
// @Failure 404 {object} dto.ErrorResponse "API key not found."
// @Router /api-keys/{id}/disable [put]
func (c *APIKeyController) Disable(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.apiKeyService.FindByID(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	key, err := c.apiKeyService.Disable(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("API key disabled successfully.", key))
}

// Enable reactivates a key
// @Summary Enable an API key
// @Tags api-keys
// @Produce json
// @Security AdminKeyAuth
// @Param id path string true "API key ID"
// @Success 200 {object} dto.APIResponse{data=models.APIKey} "API key enabled successfully."
// @Failure 404 {object} dto.ErrorResponse "API key not found."
// @Router /api-keys/{id}/enable [put]
func (c *APIKeyController) Enable(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.apiKeyService.FindByID(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	key, err := c.apiKeyService.Enable(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("API key enabled successfully.", key))
}

// Delete removes a key
// @Summary Delete an API key
// @Tags api-keys
// @Produce json
// @Security AdminKeyAuth
// @Param id path string true "API key ID"
// @Success 200 {object} dto.APIResponse "API key deleted successfully."
// @Failure 404 {object} dto.ErrorResponse "API key not found."
// @Router /api-keys/{id} [delete]
func (c *APIKeyController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.apiKeyService.FindByID(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.apiKeyService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("API key deleted successfully.", nil))
}
