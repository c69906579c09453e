package services

import (
	"context"
	"time"

	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/repositories"
)

// Services defined in this package:
// - APIKeyService: issues and manages the static x-api-key credentials
// - ApplicantService: applicant intake, LOA publishing, NIM conversion and bulk sync
// - StudyProgramService: the study program catalog and its bulk sync

// APIKeyStore is the persistence contract of APIKeyService
type APIKeyStore interface {
	Create(ctx context.Context, key *models.APIKey) (*models.APIKey, error)
	FindAll(ctx context.Context) ([]models.APIKey, error)
	FindByID(ctx context.Context, id string) (*models.APIKey, error)
	FindByKey(ctx context.Context, token string) (*models.APIKey, error)
	SetActive(ctx context.Context, id string, active bool) (*models.APIKey, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ApplicantStore is the persistence contract of ApplicantService
type ApplicantStore interface {
	Create(ctx context.Context, a *models.Applicant) (*models.Applicant, error)
	FindByID(ctx context.Context, id string) (*models.Applicant, error)
	FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.Applicant, error)
	List(ctx context.Context, filter models.ApplicantFilter, offset, limit uint64) ([]models.Applicant, int64, error)
	Update(ctx context.Context, id string, patch *models.ApplicantPatch) (*models.Applicant, error)
	Delete(ctx context.Context, id string) error
	RegistrationNumberExists(ctx context.Context, registrationNumber, excludeID string) (bool, error)
	NIMExists(ctx context.Context, nim, excludeID string) (bool, error)
}

// StudyProgramStore is the persistence contract of StudyProgramService
type StudyProgramStore interface {
	Create(ctx context.Context, sp *models.StudyProgram) (*models.StudyProgram, error)
	FindByID(ctx context.Context, id string) (*models.StudyProgram, error)
	FindByCode(ctx context.Context, code string) (*models.StudyProgram, error)
	FindByProgramID(ctx context.Context, programID string) (*models.StudyProgram, error)
	List(ctx context.Context, filter models.StudyProgramFilter, offset, limit uint64) ([]models.StudyProgram, int64, error)
	ListActive(ctx context.Context) ([]models.ActiveStudyProgram, error)
	Update(ctx context.Context, id string, patch *models.StudyProgramPatch) (*models.StudyProgram, error)
	Delete(ctx context.Context, id string) error
	CodeExists(ctx context.Context, code, excludeID string) (bool, error)
	ProgramIDExists(ctx context.Context, programID, excludeID string) (bool, error)
}

// Services holds all the service instances
type Services struct {
	APIKeyService       APIKeyService
	ApplicantService    ApplicantService
	StudyProgramService StudyProgramService
}

// NewServices wires every service to its repository
func NewServices(repos *repositories.Repositories) *Services {
	return &Services{
		APIKeyService:       NewAPIKeyService(repos.APIKeyRepository),
		ApplicantService:    NewApplicantService(repos.ApplicantRepository),
		StudyProgramService: NewStudyProgramService(repos.StudyProgramRepository),
	}
}

// clock is replaced in tests
type clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
