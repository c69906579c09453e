package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/pkg/logger"
)

const applicantsTable = "applicants"

var applicantColumns = []string{
	"id", "registration_number", "full_name", "admission_path",
	"major_choice_1", "major_choice_2", "major_choice_3", "major_choice_4",
	"email", "phone", "graduation_year", "gender", "school_origin", "school_major",
	"ranking", "parent_name", "parent_phone", "religion", "color_blind",
	"province", "city", "village", "district", "postal_code", "home_address",
	"agent", "loa_published", "loa_date", "nim", "converted_at",
	"created_at", "updated_at",
}

// applicantSortColumns whitelists the sortable fields
var applicantSortColumns = map[string]string{
	"createdAt":          "created_at",
	"updatedAt":          "updated_at",
	"fullName":           "full_name",
	"registrationNumber": "registration_number",
	"admissionPath":      "admission_path",
	"majorChoice1":       "major_choice_1",
	"graduationYear":     "graduation_year",
	"ranking":            "ranking",
	"loaDate":            "loa_date",
	"nim":                "nim",
	"convertedAt":        "converted_at",
}

// ApplicantRepository handles applicant database operations
type ApplicantRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewApplicantRepository creates a new ApplicantRepository
func NewApplicantRepository(db DBTX) *ApplicantRepository {
	return &ApplicantRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanApplicant(row pgx.Row) (*models.Applicant, error) {
	a := &models.Applicant{}
	err := row.Scan(
		&a.ID, &a.RegistrationNumber, &a.FullName, &a.AdmissionPath,
		&a.MajorChoice1, &a.MajorChoice2, &a.MajorChoice3, &a.MajorChoice4,
		&a.Email, &a.Phone, &a.GraduationYear, &a.Gender, &a.SchoolOrigin, &a.SchoolMajor,
		&a.Ranking, &a.ParentName, &a.ParentPhone, &a.Religion, &a.ColorBlind,
		&a.Province, &a.City, &a.Village, &a.District, &a.PostalCode, &a.HomeAddress,
		&a.Agent, &a.LoaPublished, &a.LoaDate, &a.NIM, &a.ConvertedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ApplicantRepository) insertQuery(a *models.Applicant) squirrel.InsertBuilder {
	return r.sb.Insert(applicantsTable).
		Columns(applicantColumns[:len(applicantColumns)-2]...).
		Values(
			a.ID, a.RegistrationNumber, a.FullName, a.AdmissionPath,
			a.MajorChoice1, a.MajorChoice2, a.MajorChoice3, a.MajorChoice4,
			a.Email, a.Phone, a.GraduationYear, a.Gender, a.SchoolOrigin, a.SchoolMajor,
			a.Ranking, a.ParentName, a.ParentPhone, a.Religion, a.ColorBlind,
			a.Province, a.City, a.Village, a.District, a.PostalCode, a.HomeAddress,
			a.Agent, a.LoaPublished, a.LoaDate, a.NIM, a.ConvertedAt,
		).
		Suffix(returningApplicant())
}

func returningApplicant() string {
	return "RETURNING " + joinColumns(applicantColumns)
}

// Create inserts a new applicant and returns the stored row
func (r *ApplicantRepository) Create(ctx context.Context, a *models.Applicant) (*models.Applicant, error) {
	sql, args, err := r.insertQuery(a).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create applicant SQL")
		return nil, errors.Wrap(err, "failed to build create applicant query")
	}

	created, err := scanApplicant(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Str("registrationNumber", a.RegistrationNumber).Msg("Error executing create applicant query")
		return nil, errors.Wrap(err, "error creating applicant")
	}
	return created, nil
}

func (r *ApplicantRepository) findOne(ctx context.Context, where squirrel.Eq) (*models.Applicant, error) {
	sql, args, err := r.sb.Select(applicantColumns...).
		From(applicantsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get applicant SQL")
		return nil, errors.Wrap(err, "failed to build get applicant query")
	}

	a, err := scanApplicant(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning applicant row")
		return nil, errors.Wrap(err, "error getting applicant")
	}
	return a, nil
}

// FindByID retrieves an applicant by ID
func (r *ApplicantRepository) FindByID(ctx context.Context, id string) (*models.Applicant, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByRegistrationNumber retrieves an applicant by its registration number
func (r *ApplicantRepository) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.Applicant, error) {
	return r.findOne(ctx, squirrel.Eq{"registration_number": registrationNumber})
}

// listQueries builds the count and page queries for a filter
func (r *ApplicantRepository) listQueries(filter models.ApplicantFilter, offset, limit uint64) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	where := squirrel.And{}
	if filter.Search != "" {
		where = append(where, searchCondition(filter.Search, "full_name", "registration_number", "email", "nim"))
	}
	if filter.AdmissionPath != nil {
		where = append(where, squirrel.Eq{"admission_path": *filter.AdmissionPath})
	}
	if filter.MajorChoice1 != nil {
		where = append(where, squirrel.Eq{"major_choice_1": *filter.MajorChoice1})
	}
	if filter.LoaPublished != nil {
		where = append(where, squirrel.Eq{"loa_published": *filter.LoaPublished})
	}
	if filter.HasNIM != nil {
		if *filter.HasNIM {
			where = append(where, squirrel.NotEq{"nim": nil})
		} else {
			where = append(where, squirrel.Eq{"nim": nil})
		}
	}

	countQuery := r.sb.Select("COUNT(*)").From(applicantsTable).Where(where)
	pageQuery := r.sb.Select(applicantColumns...).
		From(applicantsTable).
		Where(where).
		OrderBy(orderByClause(applicantSortColumns, filter.SortBy, filter.SortOrder)...).
		Limit(limit).
		Offset(offset)

	return countQuery, pageQuery
}

// List returns one page of applicants and the total number of matches
func (r *ApplicantRepository) List(ctx context.Context, filter models.ApplicantFilter, offset, limit uint64) ([]models.Applicant, int64, error) {
	countQuery, pageQuery := r.listQueries(filter, offset, limit)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count applicants SQL")
		return nil, 0, errors.Wrap(err, "failed to build count applicants query")
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count applicants query")
		return nil, 0, errors.Wrap(err, "failed to count applicants")
	}

	applicants := []models.Applicant{}
	if total == 0 {
		return applicants, 0, nil
	}

	sql, args, err := pageQuery.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list applicants SQL")
		return nil, 0, errors.Wrap(err, "failed to build list applicants query")
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list applicants query")
		return nil, 0, errors.Wrap(err, "failed to query applicants")
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning applicant row")
			return nil, 0, errors.Wrap(err, "failed to scan applicant row")
		}
		applicants = append(applicants, *a)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating applicant rows")
		return nil, 0, errors.Wrap(err, "error iterating applicant rows")
	}

	return applicants, total, nil
}

// applicantSetMap turns a patch into column assignments. Only non-nil fields are written.
func applicantSetMap(p *models.ApplicantPatch) map[string]interface{} {
	set := map[string]interface{}{}
	put := func(column string, present bool, value interface{}) {
		if present {
			set[column] = value
		}
	}

	put("registration_number", p.RegistrationNumber != nil, p.RegistrationNumber)
	put("full_name", p.FullName != nil, p.FullName)
	put("admission_path", p.AdmissionPath != nil, p.AdmissionPath)
	put("major_choice_1", p.MajorChoice1 != nil, p.MajorChoice1)
	put("major_choice_2", p.MajorChoice2 != nil, p.MajorChoice2)
	put("major_choice_3", p.MajorChoice3 != nil, p.MajorChoice3)
	put("major_choice_4", p.MajorChoice4 != nil, p.MajorChoice4)
	put("email", p.Email != nil, p.Email)
	put("phone", p.Phone != nil, p.Phone)
	put("graduation_year", p.GraduationYear != nil, p.GraduationYear)
	put("gender", p.Gender != nil, p.Gender)
	put("school_origin", p.SchoolOrigin != nil, p.SchoolOrigin)
	put("school_major", p.SchoolMajor != nil, p.SchoolMajor)
	put("ranking", p.Ranking != nil, p.Ranking)
	put("parent_name", p.ParentName != nil, p.ParentName)
	put("parent_phone", p.ParentPhone != nil, p.ParentPhone)
	put("religion", p.Religion != nil, p.Religion)
	put("color_blind", p.ColorBlind != nil, p.ColorBlind)
	put("province", p.Province != nil, p.Province)
	put("city", p.City != nil, p.City)
	put("village", p.Village != nil, p.Village)
	put("district", p.District != nil, p.District)
	put("postal_code", p.PostalCode != nil, p.PostalCode)
	put("home_address", p.HomeAddress != nil, p.HomeAddress)
	put("agent", p.Agent != nil, p.Agent)
	put("loa_published", p.LoaPublished != nil, p.LoaPublished)
	put("loa_date", p.LoaDate != nil, p.LoaDate)
	put("nim", p.NIM != nil, p.NIM)
	put("converted_at", p.ConvertedAt != nil, p.ConvertedAt)

	if p.ClearLoaDate {
		set["loa_date"] = nil
	}
	if p.ClearNIM {
		set["nim"] = nil
		set["converted_at"] = nil
	}

	return set
}

func (r *ApplicantRepository) updateQuery(id string, p *models.ApplicantPatch) squirrel.UpdateBuilder {
	set := applicantSetMap(p)
	set["updated_at"] = squirrel.Expr("NOW()")

	return r.sb.Update(applicantsTable).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix(returningApplicant())
}

// Update applies a partial update and returns the stored row
func (r *ApplicantRepository) Update(ctx context.Context, id string, p *models.ApplicantPatch) (*models.Applicant, error) {
	sql, args, err := r.updateQuery(id, p).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update applicant SQL")
		return nil, errors.Wrap(err, "failed to build update applicant query")
	}

	updated, err := scanApplicant(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("applicantID", id).Msg("Error executing update applicant query")
		return nil, errors.Wrap(err, "error updating applicant")
	}
	return updated, nil
}

// Delete removes an applicant by ID
func (r *ApplicantRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete(applicantsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete applicant SQL")
		return errors.Wrap(err, "failed to build delete applicant query")
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("applicantID", id).Msg("Error executing delete applicant query")
		return errors.Wrap(err, "error deleting applicant")
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RegistrationNumberExists checks whether another applicant holds the registration number
func (r *ApplicantRepository) RegistrationNumberExists(ctx context.Context, registrationNumber, excludeID string) (bool, error) {
	return queryExists(ctx, r.db, existsQuery(r.sb, applicantsTable, "registration_number", registrationNumber, excludeID))
}

// NIMExists checks whether another applicant holds the NIM
func (r *ApplicantRepository) NIMExists(ctx context.Context, nim, excludeID string) (bool, error) {
	return queryExists(ctx, r.db, existsQuery(r.sb, applicantsTable, "nim", nim, excludeID))
}
