package mocks

import (
	"context"
	"encoding/json"

	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/models/dto"
)

// MockAPIKeyService implements services.APIKeyService
type MockAPIKeyService struct {
	callRecorder

	CreateFn        func(ctx context.Context, name string) (*models.APIKey, error)
	FindAllFn       func(ctx context.Context) ([]models.APIKey, error)
	FindByIDFn      func(ctx context.Context, id string) (*models.APIKey, error)
	FindByKeyFn     func(ctx context.Context, token string) (*models.APIKey, error)
	DisableFn       func(ctx context.Context, id string) (*models.APIKey, error)
	EnableFn        func(ctx context.Context, id string) (*models.APIKey, error)
	DeleteFn        func(ctx context.Context, id string) error
	EnsureDefaultFn func(ctx context.Context) (*models.APIKey, error)

	Err error
}

func (m *MockAPIKeyService) Create(ctx context.Context, name string) (*models.APIKey, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, name)
	}
	return nil, m.Err
}

func (m *MockAPIKeyService) FindAll(ctx context.Context) ([]models.APIKey, error) {
	m.record("FindAll")
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx)
	}
	return []models.APIKey{}, m.Err
}

func (m *MockAPIKeyService) FindByID(ctx context.Context, id string) (*models.APIKey, error) {
	m.record("FindByID")
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, m.Err
}

func (m *MockAPIKeyService) FindByKey(ctx context.Context, token string) (*models.APIKey, error) {
	m.record("FindByKey")
	if m.FindByKeyFn != nil {
		return m.FindByKeyFn(ctx, token)
	}
	return nil, m.Err
}

func (m *MockAPIKeyService) Disable(ctx context.Context, id string) (*models.APIKey, error) {
	m.record("Disable")
	if m.DisableFn != nil {
		return m.DisableFn(ctx, id)
	}
	return nil, m.Err
}

func (m *MockAPIKeyService) Enable(ctx context.Context, id string) (*models.APIKey, error) {
	m.record("Enable")
	if m.EnableFn != nil {
		return m.EnableFn(ctx, id)
	}
	return nil, m.Err
}

func (m *MockAPIKeyService) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

func (m *MockAPIKeyService) EnsureDefault(ctx context.Context) (*models.APIKey, error) {
	m.record("EnsureDefault")
	if m.EnsureDefaultFn != nil {
		return m.EnsureDefaultFn(ctx)
	}
	return nil, m.Err
}

// MockApplicantService implements services.ApplicantService
type MockApplicantService struct {
	callRecorder

	CreateFn                   func(ctx context.Context, applicant *models.Applicant) (*models.Applicant, error)
	FindAllFn                  func(ctx context.Context, filter models.ApplicantFilter) (*dto.ListResult[models.Applicant], error)
	FindByIDFn                 func(ctx context.Context, id string) (*models.Applicant, error)
	FindByRegistrationNumberFn func(ctx context.Context, registrationNumber string) (*models.Applicant, error)
	UpdateFn                   func(ctx context.Context, id string, patch *models.ApplicantPatch) (*models.Applicant, error)
	DeleteFn                   func(ctx context.Context, id string) error
	RegistrationNumberExistsFn func(ctx context.Context, registrationNumber, excludeID string) (bool, error)
	NIMExistsFn                func(ctx context.Context, nim, excludeID string) (bool, error)
	ConvertToStudentFn         func(ctx context.Context, id, nim string) (*models.Applicant, error)
	PublishLoaFn               func(ctx context.Context, id string) (*models.Applicant, error)
	SyncFromExternalFn         func(ctx context.Context, records []json.RawMessage) (*models.SyncResult, error)

	Err error
}

func (m *MockApplicantService) Create(ctx context.Context, applicant *models.Applicant) (*models.Applicant, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, applicant)
	}
	return applicant, m.Err
}

func (m *MockApplicantService) FindAll(ctx context.Context, filter models.ApplicantFilter) (*dto.ListResult[models.Applicant], error) {
	m.record("FindAll")
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx, filter)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &dto.ListResult[models.Applicant]{Data: []models.Applicant{}}, nil
}

func (m *MockApplicantService) FindByID(ctx context.Context, id string) (*models.Applicant, error) {
	m.record("FindByID")
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, m.Err
}

func (m *MockApplicantService) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.Applicant, error) {
	m.record("FindByRegistrationNumber")
	if m.FindByRegistrationNumberFn != nil {
		return m.FindByRegistrationNumberFn(ctx, registrationNumber)
	}
	return nil, m.Err
}

func (m *MockApplicantService) Update(ctx context.Context, id string, patch *models.ApplicantPatch) (*models.Applicant, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	return nil, m.Err
}

func (m *MockApplicantService) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

func (m *MockApplicantService) RegistrationNumberExists(ctx context.Context, registrationNumber, excludeID string) (bool, error) {
	m.record("RegistrationNumberExists")
	if m.RegistrationNumberExistsFn != nil {
		return m.RegistrationNumberExistsFn(ctx, registrationNumber, excludeID)
	}
	return false, m.Err
}

func (m *MockApplicantService) NIMExists(ctx context.Context, nim, excludeID string) (bool, error) {
	m.record("NIMExists")
	if m.NIMExistsFn != nil {
		return m.NIMExistsFn(ctx, nim, excludeID)
	}
	return false, m.Err
}

func (m *MockApplicantService) ConvertToStudent(ctx context.Context, id, nim string) (*models.Applicant, error) {
	m.record("ConvertToStudent")
	if m.ConvertToStudentFn != nil {
		return m.ConvertToStudentFn(ctx, id, nim)
	}
	return nil, m.Err
}

func (m *MockApplicantService) PublishLoa(ctx context.Context, id string) (*models.Applicant, error) {
	m.record("PublishLoa")
	if m.PublishLoaFn != nil {
		return m.PublishLoaFn(ctx, id)
	}
	return nil, m.Err
}

func (m *MockApplicantService) SyncFromExternal(ctx context.Context, records []json.RawMessage) (*models.SyncResult, error) {
	m.record("SyncFromExternal")
	if m.SyncFromExternalFn != nil {
		return m.SyncFromExternalFn(ctx, records)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.SyncResult{Errors: []models.SyncError{}}, nil
}

// MockStudyProgramService implements services.StudyProgramService
type MockStudyProgramService struct {
	callRecorder

	CreateFn           func(ctx context.Context, patch *models.StudyProgramPatch) (*models.StudyProgram, error)
	FindAllFn          func(ctx context.Context, filter models.StudyProgramFilter) (*dto.ListResult[models.StudyProgram], error)
	FindAllActiveFn    func(ctx context.Context) ([]models.ActiveStudyProgram, error)
	FindByIDFn         func(ctx context.Context, id string) (*models.StudyProgram, error)
	FindByCodeFn       func(ctx context.Context, code string) (*models.StudyProgram, error)
	FindByProgramIDFn  func(ctx context.Context, programID string) (*models.StudyProgram, error)
	UpdateFn           func(ctx context.Context, id string, patch *models.StudyProgramPatch) (*models.StudyProgram, error)
	DeleteFn           func(ctx context.Context, id string) error
	CodeExistsFn       func(ctx context.Context, code, excludeID string) (bool, error)
	ProgramIDExistsFn  func(ctx context.Context, programID, excludeID string) (bool, error)
	SyncFromExternalFn func(ctx context.Context, records []json.RawMessage) (*models.SyncResult, error)

	Err error
}

func (m *MockStudyProgramService) Create(ctx context.Context, patch *models.StudyProgramPatch) (*models.StudyProgram, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, patch)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return patch.ToStudyProgram(), nil
}

func (m *MockStudyProgramService) FindAll(ctx context.Context, filter models.StudyProgramFilter) (*dto.ListResult[models.StudyProgram], error) {
	m.record("FindAll")
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx, filter)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &dto.ListResult[models.StudyProgram]{Data: []models.StudyProgram{}}, nil
}

func (m *MockStudyProgramService) FindAllActive(ctx context.Context) ([]models.ActiveStudyProgram, error) {
	m.record("FindAllActive")
	if m.FindAllActiveFn != nil {
		return m.FindAllActiveFn(ctx)
	}
	return []models.ActiveStudyProgram{}, m.Err
}

func (m *MockStudyProgramService) FindByID(ctx context.Context, id string) (*models.StudyProgram, error) {
	m.record("FindByID")
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, m.Err
}

func (m *MockStudyProgramService) FindByCode(ctx context.Context, code string) (*models.StudyProgram, error) {
	m.record("FindByCode")
	if m.FindByCodeFn != nil {
		return m.FindByCodeFn(ctx, code)
	}
	return nil, m.Err
}

func (m *MockStudyProgramService) FindByProgramID(ctx context.Context, programID string) (*models.StudyProgram, error) {
	m.record("FindByProgramID")
	if m.FindByProgramIDFn != nil {
		return m.FindByProgramIDFn(ctx, programID)
	}
	return nil, m.Err
}

func (m *MockStudyProgramService) Update(ctx context.Context, id string, patch *models.StudyProgramPatch) (*models.StudyProgram, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	return nil, m.Err
}

func (m *MockStudyProgramService) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

func (m *MockStudyProgramService) CodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	m.record("CodeExists")
	if m.CodeExistsFn != nil {
		return m.CodeExistsFn(ctx, code, excludeID)
	}
	return false, m.Err
}

func (m *MockStudyProgramService) ProgramIDExists(ctx context.Context, programID, excludeID string) (bool, error) {
	m.record("ProgramIDExists")
	if m.ProgramIDExistsFn != nil {
		return m.ProgramIDExistsFn(ctx, programID, excludeID)
	}
	return false, m.Err
}

func (m *MockStudyProgramService) SyncFromExternal(ctx context.Context, records []json.RawMessage) (*models.SyncResult, error) {
	m.record("SyncFromExternal")
	if m.SyncFromExternalFn != nil {
		return m.SyncFromExternalFn(ctx, records)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.SyncResult{Errors: []models.SyncError{}}, nil
}
