package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

// fakeDB records the statements it receives and replays queued rows
type fakeDB struct {
	execTag  pgconn.CommandTag
	execErr  error
	rows     []fakeRow
	queries  []string
	lastArgs []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.queries = append(f.queries, sql)
	f.lastArgs = args
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, sql)
	return nil, errors.New("query not supported by fakeDB")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, sql)
	f.lastArgs = args
	if len(f.rows) == 0 {
		return fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}
	}
	row := f.rows[0]
	f.rows = f.rows[1:]
	return row
}

func scalarRow[T any](v T) fakeRow {
	return fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*T)) = v
		return nil
	}}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestApplicantListQueries(t *testing.T) {
	repo := NewApplicantRepository(nil)
	filter := models.ApplicantFilter{
		Search:        "ahmad",
		AdmissionPath: strPtr("Reguler"),
		LoaPublished:  boolPtr(true),
		HasNIM:        boolPtr(false),
		SortBy:        "fullName",
		SortOrder:     models.SortAsc,
	}

	countQuery, pageQuery := repo.listQueries(filter, 20, 10)

	countSQL, countArgs, err := countQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, countSQL, "SELECT COUNT(*) FROM applicants WHERE")
	assert.Contains(t, countSQL, "full_name ILIKE $1 OR registration_number ILIKE $2 OR email ILIKE $3 OR nim ILIKE $4")
	assert.Contains(t, countSQL, "admission_path = $5")
	assert.Contains(t, countSQL, "loa_published = $6")
	assert.Contains(t, countSQL, "nim IS NULL")
	assert.Equal(t, []interface{}{"%ahmad%", "%ahmad%", "%ahmad%", "%ahmad%", "Reguler", true}, countArgs)

	pageSQL, pageArgs, err := pageQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, pageSQL, "ORDER BY full_name ASC, id ASC LIMIT 10 OFFSET 20")
	assert.Equal(t, countArgs, pageArgs)
}

func TestApplicantListQueries_Defaults(t *testing.T) {
	repo := NewApplicantRepository(nil)

	_, pageQuery := repo.listQueries(models.ApplicantFilter{SortBy: "password; DROP TABLE applicants"}, 0, 10)
	sql, args, err := pageQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
	assert.NotContains(t, sql, "DROP")
	assert.Empty(t, args)

	countQuery, _ := repo.listQueries(models.ApplicantFilter{HasNIM: boolPtr(true), Search: "50%"}, 0, 10)
	sql, args, err = countQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "nim IS NOT NULL")
	assert.Equal(t, `%50\%%`, args[0])
}

func TestApplicantSetMap(t *testing.T) {
	set := applicantSetMap(&models.ApplicantPatch{
		FullName: strPtr("Siti Rahma"),
		ClearNIM: true,
	})

	assert.Len(t, set, 3)
	assert.Equal(t, strPtr("Siti Rahma"), set["full_name"])
	assert.Nil(t, set["nim"])
	assert.Contains(t, set, "converted_at")
	assert.NotContains(t, set, "email")
}

func TestApplicantUpdateQuery(t *testing.T) {
	repo := NewApplicantRepository(nil)
	sql, args, err := repo.updateQuery("a-1", &models.ApplicantPatch{Email: strPtr("x@example.com")}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE applicants SET")
	assert.Contains(t, sql, "email = $1")
	assert.Contains(t, sql, "updated_at = NOW()")
	assert.Contains(t, sql, "WHERE id = $2")
	assert.Contains(t, sql, "RETURNING id, registration_number, full_name")
	assert.Len(t, args, 2)
}

func TestApplicantInsertQuery(t *testing.T) {
	repo := NewApplicantRepository(nil)
	sql, args, err := repo.insertQuery(&models.Applicant{ID: "a-1", RegistrationNumber: "REG-1", FullName: "A", MajorChoice1: "CS"}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO applicants (id,registration_number")
	assert.NotContains(t, sql, "created_at,")
	assert.Len(t, args, len(applicantColumns)-2)
}

func TestExistsQuery(t *testing.T) {
	sb := newStatementBuilder()

	sql, args, err := existsQuery(sb, applicantsTable, "nim", "S1", "").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT EXISTS ( SELECT 1 FROM applicants WHERE (nim = $1) )")
	assert.Equal(t, []interface{}{"S1"}, args)

	sql, args, err = existsQuery(sb, studyProgramsTable, "code", "TI", "sp-1").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "code = $1 AND id <> $2")
	assert.Equal(t, []interface{}{"TI", "sp-1"}, args)
}

func TestApplicantRepository_FindByIDNotFound(t *testing.T) {
	db := &fakeDB{}
	repo := NewApplicantRepository(db)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []any{"missing"}, db.lastArgs)
}

func TestApplicantRepository_ListEmpty(t *testing.T) {
	db := &fakeDB{rows: []fakeRow{scalarRow(int64(0))}}
	repo := NewApplicantRepository(db)

	applicants, total, err := repo.List(context.Background(), models.ApplicantFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, applicants)
	assert.Empty(t, applicants)
	assert.Len(t, db.queries, 1)
}

func TestApplicantRepository_Delete(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("DELETE 0")}
	repo := NewApplicantRepository(db)
	assert.ErrorIs(t, repo.Delete(context.Background(), "a-1"), ErrNotFound)

	db.execTag = pgconn.NewCommandTag("DELETE 1")
	assert.NoError(t, repo.Delete(context.Background(), "a-1"))
}

func TestApplicantRepository_NIMExists(t *testing.T) {
	db := &fakeDB{rows: []fakeRow{scalarRow(true)}}
	repo := NewApplicantRepository(db)

	exists, err := repo.NIMExists(context.Background(), "S1", "a-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []any{"S1", "a-1"}, db.lastArgs)
}

func TestStudyProgramQueries(t *testing.T) {
	repo := NewStudyProgramRepository(nil)

	sql, args, err := repo.activeQuery().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM study_programs WHERE is_active = $1 ORDER BY name ASC")
	assert.Equal(t, []interface{}{true}, args)

	countQuery, pageQuery := repo.listQueries(models.StudyProgramFilter{
		Search:    "tek",
		IsActive:  boolPtr(false),
		FacultyID: strPtr("FT"),
		SortBy:    "name",
	}, 0, 5)
	sql, args, err = countQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "name ILIKE $1 OR code ILIKE $2 OR program_id ILIKE $3 OR faculty_name ILIKE $4")
	assert.Contains(t, sql, "is_active = $5")
	assert.Contains(t, sql, "faculty_id = $6")
	assert.Len(t, args, 6)

	sql, _, err = pageQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY name DESC, id DESC LIMIT 5")
}

func TestStudyProgramSetMap(t *testing.T) {
	set := studyProgramSetMap(&models.StudyProgramPatch{Name: strPtr("Sistem Informasi"), IsActive: boolPtr(false)})
	assert.Len(t, set, 2)
	assert.Contains(t, set, "name")
	assert.Contains(t, set, "is_active")
}

func TestAPIKeyRepository(t *testing.T) {
	db := &fakeDB{rows: []fakeRow{scalarRow(int64(3))}}
	repo := NewAPIKeyRepository(db)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, err = repo.FindByKey(context.Background(), "pmb_unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.SetActive(context.Background(), "missing", false)
	assert.ErrorIs(t, err, ErrNotFound)
}
