package controllers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/pmb/admissions/internal/app/models/dto"
	"github.com/pmb/admissions/internal/app/services"
	"github.com/pmb/admissions/internal/pkg/apperrors"
)

// Controllers holds all the HTTP handlers
type Controllers struct {
	APIKeyController       *APIKeyController
	ApplicantController    *ApplicantController
	StudyProgramController *StudyProgramController
	HealthController       *HealthController
}

// NewControllers builds every controller from the service set
func NewControllers(svc *services.Services, version string) *Controllers {
	return &Controllers{
		APIKeyController:       NewAPIKeyController(svc.APIKeyService),
		ApplicantController:    NewApplicantController(svc.ApplicantService),
		StudyProgramController: NewStudyProgramController(svc.StudyProgramService),
		HealthController:       NewHealthController(version),
	}
}

// bindSyncRecords reads the {"data": [...]} body shared by the sync endpoints
func bindSyncRecords(ctx *gin.Context, notArrayMessage string) ([]json.RawMessage, error) {
	var req dto.SyncRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, apperrors.NewBadRequestError(notArrayMessage)
	}
	records, err := req.Records()
	if err != nil {
		return nil, apperrors.NewBadRequestError(notArrayMessage)
	}
	return records, nil
}
