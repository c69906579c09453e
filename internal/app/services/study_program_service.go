package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/models/dto"
	"github.com/pmb/admissions/internal/app/repositories"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/pmb/admissions/internal/pkg/helpers"
	"github.com/pmb/admissions/internal/pkg/logger"
	"github.com/pmb/admissions/internal/pkg/validation"
)

var (
	ErrStudyProgramNotFound = apperrors.NewResourceNotFoundError("Study program not found.")
	ErrCodeTooLong          = apperrors.NewBadRequestError(fmt.Sprintf("Code must be maximum %d characters.", models.StudyProgramCodeMaxLength))
)

// StudyProgramService defines the interface for study program operations
type StudyProgramService interface {
	Create(ctx context.Context, patch *models.StudyProgramPatch) (*models.StudyProgram, error)
	FindAll(ctx context.Context, filter models.StudyProgramFilter) (*dto.ListResult[models.StudyProgram], error)
	FindAllActive(ctx context.Context) ([]models.ActiveStudyProgram, error)
	FindByID(ctx context.Context, id string) (*models.StudyProgram, error)
	FindByCode(ctx context.Context, code string) (*models.StudyProgram, error)
	FindByProgramID(ctx context.Context, programID string) (*models.StudyProgram, error)
	Update(ctx context.Context, id string, patch *models.StudyProgramPatch) (*models.StudyProgram, error)
	Delete(ctx context.Context, id string) error
	CodeExists(ctx context.Context, code, excludeID string) (bool, error)
	ProgramIDExists(ctx context.Context, programID, excludeID string) (bool, error)
	SyncFromExternal(ctx context.Context, records []json.RawMessage) (*models.SyncResult, error)
}

type studyProgramServiceImpl struct {
	store StudyProgramStore
}

// NewStudyProgramService creates a new study program service instance
func NewStudyProgramService(store StudyProgramStore) StudyProgramService {
	return &studyProgramServiceImpl{store: store}
}

// ValidateCodeLength enforces the short code limit when a code is given
func ValidateCodeLength(code *string) error {
	if code != nil && validation.Var(*code, validation.ProgramCodeTag) != nil {
		return ErrCodeTooLong
	}
	return nil
}

// validateKeyPatch rejects an update that would leave a natural key present but blank.
// A key is removed by omitting it, never by sending an empty string.
func validateKeyPatch(p *models.StudyProgramPatch) error {
	var blank []string
	if p.Code != nil && *p.Code == "" {
		blank = append(blank, "code")
	}
	if p.ProgramID != nil && *p.ProgramID == "" {
		blank = append(blank, "programId")
	}
	if p.Name != nil && *p.Name == "" {
		blank = append(blank, "name")
	}
	if len(blank) > 0 {
		return apperrors.NewBadRequestError(fmt.Sprintf("Missing required fields: %s", strings.Join(blank, ", ")))
	}
	return nil
}

// MissingStudyProgramFields returns the required fields absent from a new program.
// A record carrying a programId is checked against the academic-system variant,
// anything else against the short code variant.
func MissingStudyProgramFields(p *models.StudyProgramPatch) []string {
	var missing []string
	check := func(name string, v *string) {
		if helpers.IsBlank(v) {
			missing = append(missing, name)
		}
	}

	if !helpers.IsBlank(p.ProgramID) {
		check("programId", p.ProgramID)
		check("name", p.Name)
		check("levelId", p.LevelID)
		check("levelName", p.LevelName)
		check("facultyId", p.FacultyID)
		check("facultyName", p.FacultyName)
		return missing
	}

	check("code", p.Code)
	check("name", p.Name)
	check("nimFormat", p.NIMFormat)
	return missing
}

func trimPatch(p *models.StudyProgramPatch) {
	for _, field := range []**string{&p.Code, &p.ProgramID, &p.Name, &p.NIMFormat, &p.LevelID, &p.LevelName, &p.FacultyID, &p.FacultyName} {
		if *field != nil {
			v := strings.TrimSpace(**field)
			*field = &v
		}
	}
}

// Create validates and stores a new program. isActive defaults to true.
func (s *studyProgramServiceImpl) Create(ctx context.Context, patch *models.StudyProgramPatch) (*models.StudyProgram, error) {
	trimPatch(patch)
	if missing := MissingStudyProgramFields(patch); len(missing) > 0 {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
	}
	if err := ValidateCodeLength(patch.Code); err != nil {
		return nil, err
	}

	sp := patch.ToStudyProgram()
	sp.ID = uuid.NewString()
	sp.Code = helpers.NilIfBlank(helpers.StringValue(sp.Code))
	sp.ProgramID = helpers.NilIfBlank(helpers.StringValue(sp.ProgramID))

	created, err := s.store.Create(ctx, sp)
	if err != nil {
		return nil, fmt.Errorf("error creating study program: %w", err)
	}

	logger.Info().Str("studyProgramID", created.ID).Str("name", created.Name).Msg("Study program created")
	return created, nil
}

func (s *studyProgramServiceImpl) FindAll(ctx context.Context, filter models.StudyProgramFilter) (*dto.ListResult[models.StudyProgram], error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)

	programs, total, err := s.store.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error retrieving study programs: %w", err)
	}

	return &dto.ListResult[models.StudyProgram]{
		Data:       programs,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.Limit),
	}, nil
}

// FindAllActive returns the active programs ordered by name
func (s *studyProgramServiceImpl) FindAllActive(ctx context.Context) ([]models.ActiveStudyProgram, error) {
	programs, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving active study programs: %w", err)
	}
	return programs, nil
}

func (s *studyProgramServiceImpl) FindByID(ctx context.Context, id string) (*models.StudyProgram, error) {
	sp, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrStudyProgramNotFound)
	}
	return sp, nil
}

func (s *studyProgramServiceImpl) FindByCode(ctx context.Context, code string) (*models.StudyProgram, error) {
	sp, err := s.store.FindByCode(ctx, code)
	if err != nil {
		return nil, notFoundAs(err, ErrStudyProgramNotFound)
	}
	return sp, nil
}

func (s *studyProgramServiceImpl) FindByProgramID(ctx context.Context, programID string) (*models.StudyProgram, error) {
	sp, err := s.store.FindByProgramID(ctx, programID)
	if err != nil {
		return nil, notFoundAs(err, ErrStudyProgramNotFound)
	}
	return sp, nil
}

// Update applies a partial update
func (s *studyProgramServiceImpl) Update(ctx context.Context, id string, patch *models.StudyProgramPatch) (*models.StudyProgram, error) {
	trimPatch(patch)
	if err := ValidateCodeLength(patch.Code); err != nil {
		return nil, err
	}
	if err := validateKeyPatch(patch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, notFoundAs(fmt.Errorf("error updating study program: %w", err), ErrStudyProgramNotFound)
	}
	return updated, nil
}

func (s *studyProgramServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrStudyProgramNotFound)
	}
	logger.Info().Str("studyProgramID", id).Msg("Study program deleted")
	return nil
}

func (s *studyProgramServiceImpl) CodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	return s.store.CodeExists(ctx, code, excludeID)
}

func (s *studyProgramServiceImpl) ProgramIDExists(ctx context.Context, programID, excludeID string) (bool, error) {
	return s.store.ProgramIDExists(ctx, programID, excludeID)
}

// SyncFromExternal upserts every record by its natural key: programId when present, otherwise code
func (s *studyProgramServiceImpl) SyncFromExternal(ctx context.Context, records []json.RawMessage) (*models.SyncResult, error) {
	result := &models.SyncResult{Errors: []models.SyncError{}}
	lgr := logger.WithField("component", "study-program-sync")

	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		created, key, err := s.syncOne(ctx, raw)
		if err != nil {
			if key == "" {
				key = fmt.Sprintf("#%d", i)
			}
			result.Errors = append(result.Errors, models.SyncError{Key: key, Error: syncErrorMessage(err)})
			syncRejectEvent(&lgr, err).Err(err).Str("key", key).Msg("Study program sync record rejected")
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	lgr.Info().Int("records", len(records)).Int("created", result.Created).Int("updated", result.Updated).Int("failed", len(result.Errors)).Msg("Study program sync completed")
	return result, nil
}

func (s *studyProgramServiceImpl) syncOne(ctx context.Context, raw json.RawMessage) (bool, string, error) {
	record, err := parseRecord(raw)
	if err != nil {
		return false, "", err
	}

	key := rawKey(record, studyProgramFields, "programId", "code")
	patch, err := DecodeStudyProgramRecord(record)
	if err != nil {
		return false, key, err
	}
	trimPatch(patch)
	// external feeds send "" for the key they do not use
	patch.Code = helpers.NilIfBlank(helpers.StringValue(patch.Code))
	patch.ProgramID = helpers.NilIfBlank(helpers.StringValue(patch.ProgramID))
	if patch.NaturalKey() == "" {
		return false, "", apperrors.NewBadRequestError("programId or code is required.")
	}
	key = patch.NaturalKey()

	existing, err := s.findByNaturalKey(ctx, patch)
	switch {
	case err == nil:
		_, err = s.Update(ctx, existing.ID, patch)
		return false, key, err
	case errors.Is(err, repositories.ErrNotFound):
		_, err = s.Create(ctx, patch)
		return true, key, err
	default:
		return false, key, err
	}
}

func (s *studyProgramServiceImpl) findByNaturalKey(ctx context.Context, patch *models.StudyProgramPatch) (*models.StudyProgram, error) {
	if !helpers.IsBlank(patch.ProgramID) {
		return s.store.FindByProgramID(ctx, *patch.ProgramID)
	}
	return s.store.FindByCode(ctx, *patch.Code)
}
