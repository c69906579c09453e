package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/pkg/logger"
)

const studyProgramsTable = "study_programs"

var studyProgramColumns = []string{
	"id", "code", "program_id", "name", "nim_format",
	"level_id", "level_name", "faculty_id", "faculty_name",
	"is_active", "created_at", "updated_at",
}

var studyProgramSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"name":        "name",
	"code":        "code",
	"programId":   "program_id",
	"levelName":   "level_name",
	"facultyName": "faculty_name",
	"isActive":    "is_active",
}

// StudyProgramRepository handles study program database operations
type StudyProgramRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudyProgramRepository creates a new StudyProgramRepository
func NewStudyProgramRepository(db DBTX) *StudyProgramRepository {
	return &StudyProgramRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanStudyProgram(row pgx.Row) (*models.StudyProgram, error) {
	sp := &models.StudyProgram{}
	err := row.Scan(
		&sp.ID, &sp.Code, &sp.ProgramID, &sp.Name, &sp.NIMFormat,
		&sp.LevelID, &sp.LevelName, &sp.FacultyID, &sp.FacultyName,
		&sp.IsActive, &sp.CreatedAt, &sp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sp, nil
}

// Create inserts a new study program and returns the stored row
func (r *StudyProgramRepository) Create(ctx context.Context, sp *models.StudyProgram) (*models.StudyProgram, error) {
	sql, args, err := r.sb.Insert(studyProgramsTable).
		Columns("id", "code", "program_id", "name", "nim_format", "level_id", "level_name", "faculty_id", "faculty_name", "is_active").
		Values(sp.ID, sp.Code, sp.ProgramID, sp.Name, sp.NIMFormat, sp.LevelID, sp.LevelName, sp.FacultyID, sp.FacultyName, sp.IsActive).
		Suffix("RETURNING " + joinColumns(studyProgramColumns)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create study program SQL")
		return nil, errors.Wrap(err, "failed to build create study program query")
	}

	created, err := scanStudyProgram(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Str("name", sp.Name).Msg("Error executing create study program query")
		return nil, errors.Wrap(err, "error creating study program")
	}
	return created, nil
}

func (r *StudyProgramRepository) findOne(ctx context.Context, where squirrel.Eq) (*models.StudyProgram, error) {
	sql, args, err := r.sb.Select(studyProgramColumns...).
		From(studyProgramsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get study program SQL")
		return nil, errors.Wrap(err, "failed to build get study program query")
	}

	sp, err := scanStudyProgram(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning study program row")
		return nil, errors.Wrap(err, "error getting study program")
	}
	return sp, nil
}

// FindByID retrieves a study program by ID
func (r *StudyProgramRepository) FindByID(ctx context.Context, id string) (*models.StudyProgram, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByCode retrieves a study program by its short code
func (r *StudyProgramRepository) FindByCode(ctx context.Context, code string) (*models.StudyProgram, error) {
	return r.findOne(ctx, squirrel.Eq{"code": code})
}

// FindByProgramID retrieves a study program by the academic system's program id
func (r *StudyProgramRepository) FindByProgramID(ctx context.Context, programID string) (*models.StudyProgram, error) {
	return r.findOne(ctx, squirrel.Eq{"program_id": programID})
}

func (r *StudyProgramRepository) listQueries(filter models.StudyProgramFilter, offset, limit uint64) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	where := squirrel.And{}
	if filter.Search != "" {
		where = append(where, searchCondition(filter.Search, "name", "code", "program_id", "faculty_name"))
	}
	if filter.IsActive != nil {
		where = append(where, squirrel.Eq{"is_active": *filter.IsActive})
	}
	if filter.LevelID != nil {
		where = append(where, squirrel.Eq{"level_id": *filter.LevelID})
	}
	if filter.FacultyID != nil {
		where = append(where, squirrel.Eq{"faculty_id": *filter.FacultyID})
	}

	countQuery := r.sb.Select("COUNT(*)").From(studyProgramsTable).Where(where)
	pageQuery := r.sb.Select(studyProgramColumns...).
		From(studyProgramsTable).
		Where(where).
		OrderBy(orderByClause(studyProgramSortColumns, filter.SortBy, filter.SortOrder)...).
		Limit(limit).
		Offset(offset)

	return countQuery, pageQuery
}

// List returns one page of study programs and the total number of matches
func (r *StudyProgramRepository) List(ctx context.Context, filter models.StudyProgramFilter, offset, limit uint64) ([]models.StudyProgram, int64, error) {
	countQuery, pageQuery := r.listQueries(filter, offset, limit)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count study programs SQL")
		return nil, 0, errors.Wrap(err, "failed to build count study programs query")
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count study programs query")
		return nil, 0, errors.Wrap(err, "failed to count study programs")
	}

	programs := []models.StudyProgram{}
	if total == 0 {
		return programs, 0, nil
	}

	sql, args, err := pageQuery.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list study programs SQL")
		return nil, 0, errors.Wrap(err, "failed to build list study programs query")
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list study programs query")
		return nil, 0, errors.Wrap(err, "failed to query study programs")
	}
	defer rows.Close()

	for rows.Next() {
		sp, err := scanStudyProgram(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning study program row")
			return nil, 0, errors.Wrap(err, "failed to scan study program row")
		}
		programs = append(programs, *sp)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating study program rows")
		return nil, 0, errors.Wrap(err, "error iterating study program rows")
	}

	return programs, total, nil
}

func (r *StudyProgramRepository) activeQuery() squirrel.SelectBuilder {
	return r.sb.Select("id", "code", "program_id", "name", "nim_format", "level_name", "faculty_name").
		From(studyProgramsTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC")
}

// ListActive returns the projection of every active program ordered by name
func (r *StudyProgramRepository) ListActive(ctx context.Context) ([]models.ActiveStudyProgram, error) {
	sql, args, err := r.activeQuery().ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building active study programs SQL")
		return nil, errors.Wrap(err, "failed to build active study programs query")
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing active study programs query")
		return nil, errors.Wrap(err, "failed to query active study programs")
	}
	defer rows.Close()

	programs := []models.ActiveStudyProgram{}
	for rows.Next() {
		var sp models.ActiveStudyProgram
		if err := rows.Scan(&sp.ID, &sp.Code, &sp.ProgramID, &sp.Name, &sp.NIMFormat, &sp.LevelName, &sp.FacultyName); err != nil {
			logger.Error().Err(err).Msg("Error scanning active study program row")
			return nil, errors.Wrap(err, "failed to scan active study program row")
		}
		programs = append(programs, sp)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating active study program rows")
	}
	return programs, nil
}

func studyProgramSetMap(p *models.StudyProgramPatch) map[string]interface{} {
	set := map[string]interface{}{}
	if p.Code != nil {
		set["code"] = p.Code
	}
	if p.ProgramID != nil {
		set["program_id"] = p.ProgramID
	}
	if p.Name != nil {
		set["name"] = p.Name
	}
	if p.NIMFormat != nil {
		set["nim_format"] = p.NIMFormat
	}
	if p.LevelID != nil {
		set["level_id"] = p.LevelID
	}
	if p.LevelName != nil {
		set["level_name"] = p.LevelName
	}
	if p.FacultyID != nil {
		set["faculty_id"] = p.FacultyID
	}
	if p.FacultyName != nil {
		set["faculty_name"] = p.FacultyName
	}
	if p.IsActive != nil {
		set["is_active"] = p.IsActive
	}
	return set
}

// Update applies a partial update and returns the stored row
func (r *StudyProgramRepository) Update(ctx context.Context, id string, p *models.StudyProgramPatch) (*models.StudyProgram, error) {
	set := studyProgramSetMap(p)
	set["updated_at"] = squirrel.Expr("NOW()")

	sql, args, err := r.sb.Update(studyProgramsTable).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(studyProgramColumns)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update study program SQL")
		return nil, errors.Wrap(err, "failed to build update study program query")
	}

	updated, err := scanStudyProgram(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("studyProgramID", id).Msg("Error executing update study program query")
		return nil, errors.Wrap(err, "error updating study program")
	}
	return updated, nil
}

// Delete removes a study program by ID
func (r *StudyProgramRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete(studyProgramsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete study program SQL")
		return errors.Wrap(err, "failed to build delete study program query")
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studyProgramID", id).Msg("Error executing delete study program query")
		return errors.Wrap(err, "error deleting study program")
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CodeExists checks whether another program holds the code
func (r *StudyProgramRepository) CodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	return queryExists(ctx, r.db, existsQuery(r.sb, studyProgramsTable, "code", code, excludeID))
}

// ProgramIDExists checks whether another program holds the program id
func (r *StudyProgramRepository) ProgramIDExists(ctx context.Context, programID, excludeID string) (bool, error) {
	return queryExists(ctx, r.db, existsQuery(r.sb, studyProgramsTable, "program_id", programID, excludeID))
}
