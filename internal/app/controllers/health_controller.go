package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pmb/admissions/internal/app/models/dto"
)

// HealthController serves the liveness and service info endpoints
type HealthController struct {
	version string
}

// NewHealthController creates a new HealthController
func NewHealthController(version string) *HealthController {
	return &HealthController{version: version}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Success   bool      `json:"success" example:"true"`
	Message   string    `json:"message" example:"API is running"`
	Timestamp time.Time `json:"timestamp"`
}

// Health reports that the API is up
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{
		Success:   true,
		Message:   "API is running",
		Timestamp: time.Now(),
	})
}

// Root describes the service
func (h *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ServiceInfo{
		Success:       true,
		Message:       "PMB Service - Student Management API",
		Version:       h.version,
		Documentation: "/swagger/index.html",
		Health:        "/api/v1/health",
	})
}
