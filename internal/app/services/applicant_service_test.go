package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/repositories"
	"github.com/pmb/admissions/internal/mocks"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 7, 1, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func newApplicantService(store ApplicantStore) *applicantServiceImpl {
	return &applicantServiceImpl{store: store, now: fixedClock}
}

// applicantFixture backs a mock store with a map keyed by registration number
type applicantFixture struct {
	store   *mocks.MockApplicantStore
	records map[string]*models.Applicant
	patches map[string]*models.ApplicantPatch
}

func newApplicantFixture(existing ...models.Applicant) *applicantFixture {
	f := &applicantFixture{
		records: map[string]*models.Applicant{},
		patches: map[string]*models.ApplicantPatch{},
	}
	for i := range existing {
		a := existing[i]
		f.records[a.RegistrationNumber] = &a
	}

	byID := func(id string) *models.Applicant {
		for _, a := range f.records {
			if a.ID == id {
				return a
			}
		}
		return nil
	}

	f.store = &mocks.MockApplicantStore{
		FindByIDFn: func(_ context.Context, id string) (*models.Applicant, error) {
			if a := byID(id); a != nil {
				copied := *a
				return &copied, nil
			}
			return nil, repositories.ErrNotFound
		},
		FindByRegistrationNumberFn: func(_ context.Context, reg string) (*models.Applicant, error) {
			if a, ok := f.records[reg]; ok {
				copied := *a
				return &copied, nil
			}
			return nil, repositories.ErrNotFound
		},
		CreateFn: func(_ context.Context, a *models.Applicant) (*models.Applicant, error) {
			f.records[a.RegistrationNumber] = a
			return a, nil
		},
		UpdateFn: func(_ context.Context, id string, p *models.ApplicantPatch) (*models.Applicant, error) {
			a := byID(id)
			if a == nil {
				return nil, repositories.ErrNotFound
			}
			f.patches[id] = p
			if p.NIM != nil {
				a.NIM = p.NIM
				a.ConvertedAt = p.ConvertedAt
			}
			if p.LoaPublished != nil {
				a.LoaPublished = *p.LoaPublished
			}
			if p.LoaDate != nil {
				a.LoaDate = p.LoaDate
			}
			copied := *a
			return &copied, nil
		},
	}
	return f
}

func TestApplicantService_Create(t *testing.T) {
	store := &mocks.MockApplicantStore{}
	svc := newApplicantService(store)

	created, err := svc.Create(context.Background(), &models.Applicant{
		RegistrationNumber: "REG-1",
		FullName:           "A",
		MajorChoice1:       "CS",
		NIM:                strPtr("S1"),
		LoaPublished:       true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "REG-1", created.RegistrationNumber)
	require.NotNil(t, created.ConvertedAt)
	assert.Equal(t, fixedNow, *created.ConvertedAt)
	require.NotNil(t, created.LoaDate)
	assert.Equal(t, fixedNow, *created.LoaDate)
}

func TestApplicantService_CreateLifecyclePairs(t *testing.T) {
	svc := newApplicantService(&mocks.MockApplicantStore{})
	stamp := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), &models.Applicant{
		RegistrationNumber: "REG-2",
		FullName:           "B",
		MajorChoice1:       "CS",
		NIM:                strPtr("  "),
		ConvertedAt:        &stamp,
		LoaDate:            &stamp,
	})
	require.NoError(t, err)

	assert.Nil(t, created.NIM)
	assert.Nil(t, created.ConvertedAt)
	assert.True(t, created.LoaPublished)
	assert.Equal(t, stamp, *created.LoaDate)
}

func TestApplicantService_FindAllPagination(t *testing.T) {
	var gotOffset, gotLimit uint64
	store := &mocks.MockApplicantStore{
		ListFn: func(_ context.Context, _ models.ApplicantFilter, offset, limit uint64) ([]models.Applicant, int64, error) {
			gotOffset, gotLimit = offset, limit
			return []models.Applicant{{ID: "a1"}}, 2, nil
		},
	}
	svc := newApplicantService(store)

	result, err := svc.FindAll(context.Background(), models.ApplicantFilter{Page: 2, Limit: 1})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), gotOffset)
	assert.Equal(t, uint64(1), gotLimit)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, 2, result.Pagination.Page)
	assert.Equal(t, 1, result.Pagination.Limit)
	assert.Equal(t, int64(2), result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.False(t, result.Pagination.HasNext)
	assert.True(t, result.Pagination.HasPrev)
}

func TestApplicantService_FindByIDNotFound(t *testing.T) {
	svc := newApplicantService(&mocks.MockApplicantStore{Err: repositories.ErrNotFound})

	_, err := svc.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrApplicantNotFound)

	msg, ok := apperrors.Message(err)
	assert.True(t, ok)
	assert.Equal(t, "Applicant not found.", msg)
}

func TestApplicantService_UpdateDerivesTimestamps(t *testing.T) {
	clientDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1", FullName: "A", MajorChoice1: "CS"})
	svc := newApplicantService(f.store)

	_, err := svc.Update(context.Background(), "a1", &models.ApplicantPatch{
		LoaPublished: boolPtr(true),
		LoaDate:      &clientDate,
		NIM:          strPtr(" S9 "),
		ConvertedAt:  &clientDate,
	})
	require.NoError(t, err)

	patch := f.patches["a1"]
	require.NotNil(t, patch)
	assert.Equal(t, fixedNow, *patch.LoaDate)
	assert.Equal(t, "S9", *patch.NIM)
	assert.Equal(t, fixedNow, *patch.ConvertedAt)
}

func TestApplicantService_UpdateClearsPairs(t *testing.T) {
	f := newApplicantFixture(models.Applicant{
		ID: "a1", RegistrationNumber: "REG-1", FullName: "A", MajorChoice1: "CS",
		LoaPublished: true, LoaDate: &fixedNow, NIM: strPtr("S1"), ConvertedAt: &fixedNow,
	})
	svc := newApplicantService(f.store)

	_, err := svc.Update(context.Background(), "a1", &models.ApplicantPatch{
		LoaPublished: boolPtr(false),
		NIM:          strPtr(""),
	})
	require.NoError(t, err)

	patch := f.patches["a1"]
	require.NotNil(t, patch)
	assert.True(t, patch.ClearLoaDate)
	assert.True(t, patch.ClearNIM)
	assert.Nil(t, patch.NIM)
}

func TestApplicantService_UpdateValidation(t *testing.T) {
	f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1", FullName: "A", MajorChoice1: "CS"})
	svc := newApplicantService(f.store)

	_, err := svc.Update(context.Background(), "a1", &models.ApplicantPatch{FullName: strPtr(" ")})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "Missing required fields: fullName")

	_, err = svc.Update(context.Background(), "nope", &models.ApplicantPatch{FullName: strPtr("B")})
	assert.ErrorIs(t, err, ErrApplicantNotFound)
}

func TestApplicantService_UpdateRejectsMalformedValues(t *testing.T) {
	f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1", FullName: "A", MajorChoice1: "CS"})
	svc := newApplicantService(f.store)

	_, err := svc.Update(context.Background(), "a1", &models.ApplicantPatch{NIM: strPtr("bad nim!")})
	assert.ErrorIs(t, err, ErrInvalidNIM)

	_, err = svc.Update(context.Background(), "a1", &models.ApplicantPatch{Email: strPtr("nope")})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Update(context.Background(), "a1", &models.ApplicantPatch{Email: strPtr(""), NIM: strPtr(" ")})
	assert.NoError(t, err)
}

func TestApplicantService_SyncRejectsMalformedNIM(t *testing.T) {
	f := newApplicantFixture()
	svc := newApplicantService(f.store)

	result, err := svc.SyncFromExternal(context.Background(), rawRecords(t, map[string]interface{}{
		"registrationNumber": "REG-5", "fullName": "A", "majorChoice1": "CS", "nim": "20 25",
	}))
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrInvalidNIM.Error(), result.Errors[0].Error)
	assert.NotContains(t, f.records, "REG-5")
}

func TestApplicantService_UpdateEmptyPatchReturnsCurrent(t *testing.T) {
	f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1", FullName: "A", MajorChoice1: "CS"})
	svc := newApplicantService(f.store)

	current, err := svc.Update(context.Background(), "a1", &models.ApplicantPatch{})
	require.NoError(t, err)
	assert.Equal(t, "a1", current.ID)
	assert.Zero(t, f.store.CallCount("Update"))
}

func TestApplicantService_ConvertToStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("requires nim", func(t *testing.T) {
		svc := newApplicantService(newApplicantFixture().store)
		_, err := svc.ConvertToStudent(ctx, "a1", "  ")
		assert.ErrorIs(t, err, ErrNIMRequired)
	})

	t.Run("rejects malformed nim", func(t *testing.T) {
		f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1"})
		svc := newApplicantService(f.store)

		for _, nim := range []string{"bad nim!", strings.Repeat("9", 40)} {
			_, err := svc.ConvertToStudent(ctx, "a1", nim)
			assert.ErrorIs(t, err, ErrInvalidNIM)
		}
		assert.Zero(t, f.store.CallCount("Update"))
	})

	t.Run("unknown applicant", func(t *testing.T) {
		svc := newApplicantService(newApplicantFixture().store)
		_, err := svc.ConvertToStudent(ctx, "a1", "S1")
		assert.ErrorIs(t, err, ErrApplicantNotFound)
	})

	t.Run("already converted keeps the existing nim", func(t *testing.T) {
		f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1", NIM: strPtr("S1"), ConvertedAt: &fixedNow})
		svc := newApplicantService(f.store)

		_, err := svc.ConvertToStudent(ctx, "a1", "S2")
		assert.ErrorIs(t, err, ErrApplicantAlreadyConverted)
		assert.Equal(t, "S1", *f.records["REG-1"].NIM)
		assert.Zero(t, f.store.CallCount("Update"))
	})

	t.Run("nim in use", func(t *testing.T) {
		f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1"})
		f.store.NIMExistsFn = func(context.Context, string, string) (bool, error) { return true, nil }
		svc := newApplicantService(f.store)

		_, err := svc.ConvertToStudent(ctx, "a1", "S1")
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.EqualError(t, err, "NIM S1 already exists.")
	})

	t.Run("converts", func(t *testing.T) {
		f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1"})
		svc := newApplicantService(f.store)

		student, err := svc.ConvertToStudent(ctx, "a1", "S1")
		require.NoError(t, err)
		assert.True(t, student.IsStudent())
		assert.Equal(t, fixedNow, *student.ConvertedAt)
	})
}

func TestApplicantService_PublishLoa(t *testing.T) {
	f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1"})
	svc := newApplicantService(f.store)

	published, err := svc.PublishLoa(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, published.LoaPublished)
	assert.Equal(t, fixedNow, *published.LoaDate)

	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	_, err = svc.PublishLoa(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrLoaAlreadyPublished)
	assert.Equal(t, fixedNow, *f.records["REG-1"].LoaDate)
}

func rawRecords(t *testing.T, records ...interface{}) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(r)
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func TestApplicantService_SyncFromExternal(t *testing.T) {
	f := newApplicantFixture(models.Applicant{ID: "a1", RegistrationNumber: "REG-1", FullName: "Old", MajorChoice1: "CS"})
	svc := newApplicantService(f.store)

	records := rawRecords(t,
		map[string]interface{}{"registrationNumber": "REG-1", "fullName": "Updated"},
		map[string]interface{}{"registration_number": "REG-2", "full_name": "Snake", "major_choice_1": "EE", "graduation_year": "2024"},
		map[string]interface{}{"noReg": 3003, "namaLengkap": "Legacy", "jurusan": "TI", "butaWarna": "false", "tanggalLoa": "2025-06-01"},
		map[string]interface{}{"fullName": "No key"},
		"not an object",
		map[string]interface{}{"registrationNumber": "REG-4", "fullName": "No major"},
	)

	result, err := svc.SyncFromExternal(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "#3", result.Errors[0].Key)
	assert.Empty(t, result.Errors[0].RegistrationNumber)
	assert.Equal(t, "registrationNumber is required.", result.Errors[0].Error)
	assert.Equal(t, "#4", result.Errors[1].Key)
	assert.Equal(t, "REG-4", result.Errors[2].Key)
	assert.Equal(t, "REG-4", result.Errors[2].RegistrationNumber)
	assert.Equal(t, "Missing required fields: majorChoice1", result.Errors[2].Error)

	assert.Equal(t, "Updated", *f.patches["a1"].FullName)

	snake := f.records["REG-2"]
	require.NotNil(t, snake)
	assert.Equal(t, "Snake", snake.FullName)
	assert.Equal(t, 2024, *snake.GraduationYear)

	legacy := f.records["3003"]
	require.NotNil(t, legacy)
	assert.Equal(t, "Legacy", legacy.FullName)
	assert.True(t, legacy.LoaPublished)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *legacy.LoaDate)
}

func TestApplicantService_SyncCamelCaseWins(t *testing.T) {
	f := newApplicantFixture()
	svc := newApplicantService(f.store)

	records := rawRecords(t, map[string]interface{}{
		"registrationNumber":  "REG-9",
		"registration_number": "IGNORED",
		"fullName":            nil,
		"full_name":           "From snake",
		"majorChoice1":        "CS",
	})

	result, err := svc.SyncFromExternal(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "From snake", f.records["REG-9"].FullName)
	assert.NotContains(t, f.records, "IGNORED")
}
