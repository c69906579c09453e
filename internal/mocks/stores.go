package mocks

import (
	"context"

	"github.com/pmb/admissions/internal/app/models"
)

// MockAPIKeyStore implements services.APIKeyStore
type MockAPIKeyStore struct {
	callRecorder

	CreateFn    func(ctx context.Context, key *models.APIKey) (*models.APIKey, error)
	FindAllFn   func(ctx context.Context) ([]models.APIKey, error)
	FindByIDFn  func(ctx context.Context, id string) (*models.APIKey, error)
	FindByKeyFn func(ctx context.Context, token string) (*models.APIKey, error)
	SetActiveFn func(ctx context.Context, id string, active bool) (*models.APIKey, error)
	DeleteFn    func(ctx context.Context, id string) error
	CountFn     func(ctx context.Context) (int64, error)

	Err error
}

func (m *MockAPIKeyStore) Create(ctx context.Context, key *models.APIKey) (*models.APIKey, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, key)
	}
	return key, m.Err
}

func (m *MockAPIKeyStore) FindAll(ctx context.Context) ([]models.APIKey, error) {
	m.record("FindAll")
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx)
	}
	return []models.APIKey{}, m.Err
}

func (m *MockAPIKeyStore) FindByID(ctx context.Context, id string) (*models.APIKey, error) {
	m.record("FindByID")
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, m.Err
}

func (m *MockAPIKeyStore) FindByKey(ctx context.Context, token string) (*models.APIKey, error) {
	m.record("FindByKey")
	if m.FindByKeyFn != nil {
		return m.FindByKeyFn(ctx, token)
	}
	return nil, m.Err
}

func (m *MockAPIKeyStore) SetActive(ctx context.Context, id string, active bool) (*models.APIKey, error) {
	m.record("SetActive")
	if m.SetActiveFn != nil {
		return m.SetActiveFn(ctx, id, active)
	}
	return nil, m.Err
}

func (m *MockAPIKeyStore) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

func (m *MockAPIKeyStore) Count(ctx context.Context) (int64, error) {
	m.record("Count")
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, m.Err
}

// MockApplicantStore implements services.ApplicantStore
type MockApplicantStore struct {
	callRecorder

	CreateFn                   func(ctx context.Context, a *models.Applicant) (*models.Applicant, error)
	FindByIDFn                 func(ctx context.Context, id string) (*models.Applicant, error)
	FindByRegistrationNumberFn func(ctx context.Context, registrationNumber string) (*models.Applicant, error)
	ListFn                     func(ctx context.Context, filter models.ApplicantFilter, offset, limit uint64) ([]models.Applicant, int64, error)
	UpdateFn                   func(ctx context.Context, id string, patch *models.ApplicantPatch) (*models.Applicant, error)
	DeleteFn                   func(ctx context.Context, id string) error
	RegistrationNumberExistsFn func(ctx context.Context, registrationNumber, excludeID string) (bool, error)
	NIMExistsFn                func(ctx context.Context, nim, excludeID string) (bool, error)

	Err error
}

func (m *MockApplicantStore) Create(ctx context.Context, a *models.Applicant) (*models.Applicant, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return a, m.Err
}

func (m *MockApplicantStore) FindByID(ctx context.Context, id string) (*models.Applicant, error) {
	m.record("FindByID")
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, m.Err
}

func (m *MockApplicantStore) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.Applicant, error) {
	m.record("FindByRegistrationNumber")
	if m.FindByRegistrationNumberFn != nil {
		return m.FindByRegistrationNumberFn(ctx, registrationNumber)
	}
	return nil, m.Err
}

func (m *MockApplicantStore) List(ctx context.Context, filter models.ApplicantFilter, offset, limit uint64) ([]models.Applicant, int64, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, offset, limit)
	}
	return []models.Applicant{}, 0, m.Err
}

func (m *MockApplicantStore) Update(ctx context.Context, id string, patch *models.ApplicantPatch) (*models.Applicant, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	return nil, m.Err
}

func (m *MockApplicantStore) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

func (m *MockApplicantStore) RegistrationNumberExists(ctx context.Context, registrationNumber, excludeID string) (bool, error) {
	m.record("RegistrationNumberExists")
	if m.RegistrationNumberExistsFn != nil {
		return m.RegistrationNumberExistsFn(ctx, registrationNumber, excludeID)
	}
	return false, m.Err
}

func (m *MockApplicantStore) NIMExists(ctx context.Context, nim, excludeID string) (bool, error) {
	m.record("NIMExists")
	if m.NIMExistsFn != nil {
		return m.NIMExistsFn(ctx, nim, excludeID)
	}
	return false, m.Err
}

// MockStudyProgramStore implements services.StudyProgramStore
type MockStudyProgramStore struct {
	callRecorder

	CreateFn          func(ctx context.Context, sp *models.StudyProgram) (*models.StudyProgram, error)
	FindByIDFn        func(ctx context.Context, id string) (*models.StudyProgram, error)
	FindByCodeFn      func(ctx context.Context, code string) (*models.StudyProgram, error)
	FindByProgramIDFn func(ctx context.Context, programID string) (*models.StudyProgram, error)
	ListFn            func(ctx context.Context, filter models.StudyProgramFilter, offset, limit uint64) ([]models.StudyProgram, int64, error)
	ListActiveFn      func(ctx context.Context) ([]models.ActiveStudyProgram, error)
	UpdateFn          func(ctx context.Context, id string, patch *models.StudyProgramPatch) (*models.StudyProgram, error)
	DeleteFn          func(ctx context.Context, id string) error
	CodeExistsFn      func(ctx context.Context, code, excludeID string) (bool, error)
	ProgramIDExistsFn func(ctx context.Context, programID, excludeID string) (bool, error)

	Err error
}

func (m *MockStudyProgramStore) Create(ctx context.Context, sp *models.StudyProgram) (*models.StudyProgram, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sp)
	}
	return sp, m.Err
}

func (m *MockStudyProgramStore) FindByID(ctx context.Context, id string) (*models.StudyProgram, error) {
	m.record("FindByID")
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, m.Err
}

func (m *MockStudyProgramStore) FindByCode(ctx context.Context, code string) (*models.StudyProgram, error) {
	m.record("FindByCode")
	if m.FindByCodeFn != nil {
		return m.FindByCodeFn(ctx, code)
	}
	return nil, m.Err
}

func (m *MockStudyProgramStore) FindByProgramID(ctx context.Context, programID string) (*models.StudyProgram, error) {
	m.record("FindByProgramID")
	if m.FindByProgramIDFn != nil {
		return m.FindByProgramIDFn(ctx, programID)
	}
	return nil, m.Err
}

func (m *MockStudyProgramStore) List(ctx context.Context, filter models.StudyProgramFilter, offset, limit uint64) ([]models.StudyProgram, int64, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, offset, limit)
	}
	return []models.StudyProgram{}, 0, m.Err
}

func (m *MockStudyProgramStore) ListActive(ctx context.Context) ([]models.ActiveStudyProgram, error) {
	m.record("ListActive")
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return []models.ActiveStudyProgram{}, m.Err
}

func (m *MockStudyProgramStore) Update(ctx context.Context, id string, patch *models.StudyProgramPatch) (*models.StudyProgram, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	return nil, m.Err
}

func (m *MockStudyProgramStore) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

func (m *MockStudyProgramStore) CodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	m.record("CodeExists")
	if m.CodeExistsFn != nil {
		return m.CodeExistsFn(ctx, code, excludeID)
	}
	return false, m.Err
}

func (m *MockStudyProgramStore) ProgramIDExists(ctx context.Context, programID, excludeID string) (bool, error) {
	m.record("ProgramIDExists")
	if m.ProgramIDExistsFn != nil {
		return m.ProgramIDExistsFn(ctx, programID, excludeID)
	}
	return false, m.Err
}
