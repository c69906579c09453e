package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/models/dto"
	"github.com/pmb/admissions/internal/app/repositories"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/pmb/admissions/internal/pkg/dberrors"
	"github.com/pmb/admissions/internal/pkg/helpers"
	"github.com/pmb/admissions/internal/pkg/logger"
	"github.com/pmb/admissions/internal/pkg/validation"
	"github.com/rs/zerolog"
)

var (
	ErrApplicantNotFound         = apperrors.NewResourceNotFoundError("Applicant not found.")
	ErrNIMRequired               = apperrors.NewBadRequestError("NIM is required.")
	ErrApplicantAlreadyConverted = apperrors.NewBadRequestError("Applicant already converted to student.")
	ErrLoaAlreadyPublished       = apperrors.NewBadRequestError("LOA already published for this applicant.")
	ErrInvalidNIM                = apperrors.NewBadRequestError("NIM must be at most 32 letters, digits, dots or dashes.")
	ErrInvalidEmail              = apperrors.NewBadRequestError("email must be a valid email address.")
)

// ApplicantService defines the interface for applicant and student operations
type ApplicantService interface {
	Create(ctx context.Context, applicant *models.Applicant) (*models.Applicant, error)
	FindAll(ctx context.Context, filter models.ApplicantFilter) (*dto.ListResult[models.Applicant], error)
	FindByID(ctx context.Context, id string) (*models.Applicant, error)
	FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.Applicant, error)
	Update(ctx context.Context, id string, patch *models.ApplicantPatch) (*models.Applicant, error)
	Delete(ctx context.Context, id string) error
	RegistrationNumberExists(ctx context.Context, registrationNumber, excludeID string) (bool, error)
	NIMExists(ctx context.Context, nim, excludeID string) (bool, error)
	ConvertToStudent(ctx context.Context, id, nim string) (*models.Applicant, error)
	PublishLoa(ctx context.Context, id string) (*models.Applicant, error)
	SyncFromExternal(ctx context.Context, records []json.RawMessage) (*models.SyncResult, error)
}

type applicantServiceImpl struct {
	store ApplicantStore
	now   clock
}

// NewApplicantService creates a new applicant service instance
func NewApplicantService(store ApplicantStore) ApplicantService {
	return &applicantServiceImpl{store: store, now: systemClock}
}

// normalizeNewApplicant enforces the lifecycle pairs on a record about to be inserted:
// loaDate is set iff loaPublished, convertedAt is set iff nim.
func normalizeNewApplicant(a *models.Applicant, now time.Time) {
	a.NIM = helpers.NilIfBlank(helpers.StringValue(a.NIM))

	if a.LoaDate != nil {
		a.LoaPublished = true
	}
	if a.LoaPublished && a.LoaDate == nil {
		a.LoaDate = &now
	}

	if a.NIM == nil {
		a.ConvertedAt = nil
	} else if a.ConvertedAt == nil {
		a.ConvertedAt = &now
	}
}

// applyLifecycle rewrites a patch so that the stored record keeps the lifecycle pairs.
// Unless trustDates is set the client supplied timestamps are discarded and derived here.
func applyLifecycle(p *models.ApplicantPatch, current *models.Applicant, now time.Time, trustDates bool) {
	if !trustDates {
		p.LoaDate = nil
		p.ConvertedAt = nil
	}

	switch {
	case p.LoaPublished != nil && *p.LoaPublished:
		if p.LoaDate == nil && current.LoaDate == nil {
			p.LoaDate = &now
		}
	case p.LoaPublished != nil:
		p.LoaDate = nil
		p.ClearLoaDate = true
	case p.LoaDate != nil:
		published := true
		p.LoaPublished = &published
	}

	if p.NIM == nil {
		p.ConvertedAt = nil
		return
	}

	nim := strings.TrimSpace(*p.NIM)
	if nim == "" {
		p.NIM = nil
		p.ConvertedAt = nil
		p.ClearNIM = current.IsStudent()
		return
	}

	p.NIM = &nim
	if current.NIM != nil && *current.NIM == nim {
		p.NIM = nil
		p.ConvertedAt = nil
		return
	}
	if p.ConvertedAt == nil {
		p.ConvertedAt = &now
	}
}

// validatePatch rejects blanking a required column and malformed NIM or email values
func validatePatch(p *models.ApplicantPatch) error {
	var blank []string
	if p.RegistrationNumber != nil && strings.TrimSpace(*p.RegistrationNumber) == "" {
		blank = append(blank, "registrationNumber")
	}
	if p.FullName != nil && strings.TrimSpace(*p.FullName) == "" {
		blank = append(blank, "fullName")
	}
	if p.MajorChoice1 != nil && strings.TrimSpace(*p.MajorChoice1) == "" {
		blank = append(blank, "majorChoice1")
	}
	if len(blank) > 0 {
		return apperrors.NewBadRequestError(fmt.Sprintf("Missing required fields: %s", strings.Join(blank, ", ")))
	}

	if p.NIM != nil && validation.Var(*p.NIM, validation.NIMTag) != nil {
		return ErrInvalidNIM
	}
	if email := helpers.NilIfBlank(helpers.StringValue(p.Email)); email != nil && validation.Var(*email, "email") != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Create stores a new applicant with a generated id
func (s *applicantServiceImpl) Create(ctx context.Context, applicant *models.Applicant) (*models.Applicant, error) {
	applicant.ID = uuid.NewString()
	normalizeNewApplicant(applicant, s.now())

	created, err := s.store.Create(ctx, applicant)
	if err != nil {
		return nil, fmt.Errorf("error creating applicant: %w", err)
	}

	logger.Info().Str("applicantID", created.ID).Str("registrationNumber", created.RegistrationNumber).Msg("Applicant created")
	return created, nil
}

// FindAll returns one page of applicants matching the filter
func (s *applicantServiceImpl) FindAll(ctx context.Context, filter models.ApplicantFilter) (*dto.ListResult[models.Applicant], error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)

	applicants, total, err := s.store.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error retrieving applicants: %w", err)
	}

	return &dto.ListResult[models.Applicant]{
		Data:       applicants,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.Limit),
	}, nil
}

func (s *applicantServiceImpl) FindByID(ctx context.Context, id string) (*models.Applicant, error) {
	applicant, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrApplicantNotFound)
	}
	return applicant, nil
}

func (s *applicantServiceImpl) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.Applicant, error) {
	applicant, err := s.store.FindByRegistrationNumber(ctx, registrationNumber)
	if err != nil {
		return nil, notFoundAs(err, ErrApplicantNotFound)
	}
	return applicant, nil
}

// Update applies a partial update. Only fields present in the patch are written.
func (s *applicantServiceImpl) Update(ctx context.Context, id string, patch *models.ApplicantPatch) (*models.Applicant, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return s.update(ctx, current, patch, false)
}

func (s *applicantServiceImpl) update(ctx context.Context, current *models.Applicant, patch *models.ApplicantPatch, trustDates bool) (*models.Applicant, error) {
	applyLifecycle(patch, current, s.now(), trustDates)
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.store.Update(ctx, current.ID, patch)
	if err != nil {
		return nil, notFoundAs(fmt.Errorf("error updating applicant: %w", err), ErrApplicantNotFound)
	}
	return updated, nil
}

func (s *applicantServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrApplicantNotFound)
	}
	logger.Info().Str("applicantID", id).Msg("Applicant deleted")
	return nil
}

func (s *applicantServiceImpl) RegistrationNumberExists(ctx context.Context, registrationNumber, excludeID string) (bool, error) {
	return s.store.RegistrationNumberExists(ctx, registrationNumber, excludeID)
}

func (s *applicantServiceImpl) NIMExists(ctx context.Context, nim, excludeID string) (bool, error) {
	return s.store.NIMExists(ctx, nim, excludeID)
}

// ConvertToStudent assigns a NIM and stamps convertedAt
func (s *applicantServiceImpl) ConvertToStudent(ctx context.Context, id, nim string) (*models.Applicant, error) {
	nim = strings.TrimSpace(nim)
	if nim == "" {
		return nil, ErrNIMRequired
	}
	if validation.Var(nim, validation.NIMTag) != nil {
		return nil, ErrInvalidNIM
	}

	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsStudent() {
		return nil, ErrApplicantAlreadyConverted
	}

	taken, err := s.store.NIMExists(ctx, nim, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflictError(fmt.Sprintf("NIM %s already exists.", nim))
	}

	now := s.now()
	updated, err := s.store.Update(ctx, id, &models.ApplicantPatch{NIM: &nim, ConvertedAt: &now})
	if err != nil {
		return nil, notFoundAs(fmt.Errorf("error converting applicant: %w", err), ErrApplicantNotFound)
	}

	logger.Info().Str("applicantID", id).Str("nim", nim).Msg("Applicant converted to student")
	return updated, nil
}

// PublishLoa marks the letter of acceptance as published
func (s *applicantServiceImpl) PublishLoa(ctx context.Context, id string) (*models.Applicant, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.LoaPublished {
		return nil, ErrLoaAlreadyPublished
	}

	published := true
	now := s.now()
	updated, err := s.store.Update(ctx, id, &models.ApplicantPatch{LoaPublished: &published, LoaDate: &now})
	if err != nil {
		return nil, notFoundAs(fmt.Errorf("error publishing LOA: %w", err), ErrApplicantNotFound)
	}

	logger.Info().Str("applicantID", id).Msg("LOA published")
	return updated, nil
}

// SyncFromExternal upserts every record by registration number.
// Records are processed in order and a failing record does not stop the rest.
func (s *applicantServiceImpl) SyncFromExternal(ctx context.Context, records []json.RawMessage) (*models.SyncResult, error) {
	result := &models.SyncResult{Errors: []models.SyncError{}}
	lgr := logger.WithFields(map[string]interface{}{"component": "applicant-sync", "records": len(records)})

	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		created, key, err := s.syncOne(ctx, raw)
		if err != nil {
			syncErr := models.SyncError{Key: key, RegistrationNumber: key, Error: syncErrorMessage(err)}
			if key == "" {
				syncErr.Key = fmt.Sprintf("#%d", i)
			}
			result.Errors = append(result.Errors, syncErr)
			syncRejectEvent(&lgr, err).Err(err).Str("key", syncErr.Key).Msg("Applicant sync record rejected")
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	lgr.Info().Int("created", result.Created).Int("updated", result.Updated).Int("failed", len(result.Errors)).Msg("Applicant sync completed")
	return result, nil
}

func (s *applicantServiceImpl) syncOne(ctx context.Context, raw json.RawMessage) (bool, string, error) {
	record, err := parseRecord(raw)
	if err != nil {
		return false, "", err
	}

	key := rawKey(record, applicantFields, "registrationNumber")
	patch, err := DecodeApplicantRecord(record)
	if err != nil {
		return false, key, err
	}
	if key == "" {
		return false, "", apperrors.NewBadRequestError("registrationNumber is required.")
	}
	patch.RegistrationNumber = &key
	if err := validatePatch(patch); err != nil {
		return false, key, err
	}

	existing, err := s.store.FindByRegistrationNumber(ctx, key)
	switch {
	case err == nil:
		_, err = s.update(ctx, existing, patch, true)
		return false, key, err
	case errors.Is(err, repositories.ErrNotFound):
		var missing []string
		if helpers.IsBlank(patch.FullName) {
			missing = append(missing, "fullName")
		}
		if helpers.IsBlank(patch.MajorChoice1) {
			missing = append(missing, "majorChoice1")
		}
		if len(missing) > 0 {
			return false, key, apperrors.NewBadRequestError(fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
		}
		_, err = s.Create(ctx, patch.ToApplicant())
		return true, key, err
	default:
		return false, key, err
	}
}

// syncRejectEvent logs rejected client data as a warning and store failures as errors
func syncRejectEvent(lgr *zerolog.Logger, err error) *zerolog.Event {
	if apperrors.Is(dberrors.Translate(err), apperrors.ErrValidationFailed, apperrors.ErrConflict, apperrors.ErrResourceNotFound) {
		return lgr.Warn()
	}
	return lgr.Error().Stack()
}

// syncErrorMessage turns a per-record failure into the message reported to the caller
func syncErrorMessage(err error) string {
	if msg, ok := apperrors.Message(dberrors.Translate(err)); ok {
		return msg
	}
	return err.Error()
}
