package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/repositories"
	"github.com/pmb/admissions/internal/mocks"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingStudyProgramFields(t *testing.T) {
	tests := []struct {
		name  string
		patch models.StudyProgramPatch
		want  []string
	}{
		{
			name:  "code variant complete",
			patch: models.StudyProgramPatch{Code: strPtr("TI"), Name: strPtr("Teknik Informatika"), NIMFormat: strPtr("YYYY11XXXX")},
		},
		{
			name:  "code variant missing nim format",
			patch: models.StudyProgramPatch{Code: strPtr("TI"), Name: strPtr("Teknik Informatika")},
			want:  []string{"nimFormat"},
		},
		{
			name:  "empty record asks for the code variant",
			patch: models.StudyProgramPatch{},
			want:  []string{"code", "name", "nimFormat"},
		},
		{
			name: "program id variant missing faculty",
			patch: models.StudyProgramPatch{
				ProgramID: strPtr("55201"), Name: strPtr("Teknik Informatika"),
				LevelID: strPtr("S1"), LevelName: strPtr("Sarjana"),
			},
			want: []string{"facultyId", "facultyName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingStudyProgramFields(&tt.patch))
		})
	}
}

func TestStudyProgramService_Create(t *testing.T) {
	store := &mocks.MockStudyProgramStore{}
	svc := NewStudyProgramService(store)

	created, err := svc.Create(context.Background(), &models.StudyProgramPatch{
		Code: strPtr(" TI "), Name: strPtr("Teknik Informatika"), NIMFormat: strPtr("YYYY11XXXX"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "TI", *created.Code)
	assert.Nil(t, created.ProgramID)
	assert.True(t, created.IsActive)
}

func TestStudyProgramService_CreateValidation(t *testing.T) {
	store := &mocks.MockStudyProgramStore{}
	svc := NewStudyProgramService(store)

	_, err := svc.Create(context.Background(), &models.StudyProgramPatch{Code: strPtr("TI")})
	require.Error(t, err)
	assert.EqualError(t, err, "Missing required fields: name, nimFormat")

	_, err = svc.Create(context.Background(), &models.StudyProgramPatch{
		Code: strPtr("TEKNIK"), Name: strPtr("Teknik"), NIMFormat: strPtr("X"),
	})
	assert.ErrorIs(t, err, ErrCodeTooLong)
	assert.EqualError(t, err, "Code must be maximum 4 characters.")
	assert.Zero(t, store.CallCount("Create"))
}

func TestStudyProgramService_CreateFromLegacyJSON(t *testing.T) {
	patch, err := DecodeStudyProgramJSON(json.RawMessage(`{
		"idProdi": 55201, "namaProdi": "Teknik Informatika",
		"idJenjang": "S1", "namaJenjang": "Sarjana",
		"idFakultas": "FT", "namaFakultas": "Fakultas Teknik"
	}`))
	require.NoError(t, err)

	created, err := NewStudyProgramService(&mocks.MockStudyProgramStore{}).Create(context.Background(), patch)
	require.NoError(t, err)
	assert.Equal(t, "55201", *created.ProgramID)
	assert.Equal(t, "Teknik Informatika", created.Name)
	assert.Equal(t, "Fakultas Teknik", *created.FacultyName)
	assert.Nil(t, created.Code)
}

func TestStudyProgramService_Update(t *testing.T) {
	var got *models.StudyProgramPatch
	store := &mocks.MockStudyProgramStore{
		UpdateFn: func(_ context.Context, id string, p *models.StudyProgramPatch) (*models.StudyProgram, error) {
			got = p
			return &models.StudyProgram{ID: id, Name: *p.Name}, nil
		},
	}
	svc := NewStudyProgramService(store)

	_, err := svc.Update(context.Background(), "sp1", &models.StudyProgramPatch{Code: strPtr("ABCDE")})
	assert.ErrorIs(t, err, ErrCodeTooLong)

	updated, err := svc.Update(context.Background(), "sp1", &models.StudyProgramPatch{Name: strPtr("Sistem Informasi")})
	require.NoError(t, err)
	assert.Equal(t, "Sistem Informasi", updated.Name)
	assert.Equal(t, "Sistem Informasi", *got.Name)

	store.UpdateFn = nil
	store.Err = repositories.ErrNotFound
	_, err = svc.Update(context.Background(), "missing", &models.StudyProgramPatch{Name: strPtr("X")})
	assert.ErrorIs(t, err, ErrStudyProgramNotFound)
}

func TestStudyProgramService_UpdateRejectsBlankKeys(t *testing.T) {
	store := &mocks.MockStudyProgramStore{}
	svc := NewStudyProgramService(store)

	tests := []struct {
		name  string
		patch models.StudyProgramPatch
		want  string
	}{
		{name: "whitespace code", patch: models.StudyProgramPatch{Code: strPtr("   ")}, want: "Missing required fields: code"},
		{name: "empty program id", patch: models.StudyProgramPatch{ProgramID: strPtr("")}, want: "Missing required fields: programId"},
		{name: "both keys and name", patch: models.StudyProgramPatch{Code: strPtr(""), ProgramID: strPtr(" "), Name: strPtr("")}, want: "Missing required fields: code, programId, name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), "sp1", &tt.patch)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.EqualError(t, err, tt.want)
		})
	}
	assert.Zero(t, store.CallCount("Update"))
}

func TestStudyProgramService_SyncIgnoresBlankSecondaryKey(t *testing.T) {
	var got *models.StudyProgramPatch
	store := &mocks.MockStudyProgramStore{
		FindByProgramIDFn: func(_ context.Context, programID string) (*models.StudyProgram, error) {
			return &models.StudyProgram{ID: "sp1", ProgramID: &programID, Name: "Manajemen"}, nil
		},
		UpdateFn: func(_ context.Context, id string, p *models.StudyProgramPatch) (*models.StudyProgram, error) {
			got = p
			return &models.StudyProgram{ID: id}, nil
		},
	}
	svc := NewStudyProgramService(store)

	result, err := svc.SyncFromExternal(context.Background(), []json.RawMessage{
		json.RawMessage(`{"id_prodi": "61201", "kode": "", "nama_prodi": "Manajemen"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Errors)
	require.NotNil(t, got)
	assert.Nil(t, got.Code)
}

func TestStudyProgramService_FindAllActive(t *testing.T) {
	store := &mocks.MockStudyProgramStore{
		ListActiveFn: func(context.Context) ([]models.ActiveStudyProgram, error) {
			return []models.ActiveStudyProgram{{ID: "1", Name: "Akuntansi"}, {ID: "2", Name: "Manajemen"}}, nil
		},
	}

	programs, err := NewStudyProgramService(store).FindAllActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, programs, 2)
}

func TestStudyProgramService_DeleteNotFound(t *testing.T) {
	store := &mocks.MockStudyProgramStore{Err: repositories.ErrNotFound}
	err := NewStudyProgramService(store).Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestStudyProgramService_SyncFromExternal(t *testing.T) {
	byCode := map[string]*models.StudyProgram{"TI": {ID: "sp1", Code: strPtr("TI"), Name: "Teknik Informatika"}}
	byProgramID := map[string]*models.StudyProgram{}
	updated := map[string]*models.StudyProgramPatch{}

	store := &mocks.MockStudyProgramStore{
		FindByCodeFn: func(_ context.Context, code string) (*models.StudyProgram, error) {
			if sp, ok := byCode[code]; ok {
				return sp, nil
			}
			return nil, repositories.ErrNotFound
		},
		FindByProgramIDFn: func(_ context.Context, programID string) (*models.StudyProgram, error) {
			if sp, ok := byProgramID[programID]; ok {
				return sp, nil
			}
			return nil, repositories.ErrNotFound
		},
		CreateFn: func(_ context.Context, sp *models.StudyProgram) (*models.StudyProgram, error) {
			if sp.ProgramID != nil {
				byProgramID[*sp.ProgramID] = sp
			}
			return sp, nil
		},
		UpdateFn: func(_ context.Context, id string, p *models.StudyProgramPatch) (*models.StudyProgram, error) {
			updated[id] = p
			return &models.StudyProgram{ID: id}, nil
		},
	}
	svc := NewStudyProgramService(store)

	records := []json.RawMessage{
		json.RawMessage(`{"code": "TI", "is_active": false}`),
		json.RawMessage(`{"id_prodi": "61201", "nama_prodi": "Manajemen", "id_jenjang": "S1", "nama_jenjang": "Sarjana", "id_fakultas": "FEB", "nama_fakultas": "Fakultas Ekonomi"}`),
		json.RawMessage(`{"name": "No key at all"}`),
		json.RawMessage(`{"code": "TOOLONG", "name": "X", "nimFormat": "Y"}`),
		json.RawMessage(`[1, 2]`),
	}

	result, err := svc.SyncFromExternal(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "#2", result.Errors[0].Key)
	assert.Equal(t, "TOOLONG", result.Errors[1].Key)
	assert.Equal(t, "Code must be maximum 4 characters.", result.Errors[1].Error)
	assert.Equal(t, "#4", result.Errors[2].Key)

	require.Contains(t, updated, "sp1")
	assert.False(t, *updated["sp1"].IsActive)
	assert.Contains(t, byProgramID, "61201")
}
