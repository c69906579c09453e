package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/pmb/admissions/internal/pkg/helpers"
)

// ErrNotFound is returned by point lookups that match no row
var ErrNotFound = apperrors.ErrResourceNotFound

// DBTX is the subset of pgxpool.Pool and pgx.Tx used by the repositories
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	APIKeyRepository       *APIKeyRepository
	ApplicantRepository    *ApplicantRepository
	StudyProgramRepository *StudyProgramRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		APIKeyRepository:       NewAPIKeyRepository(db),
		ApplicantRepository:    NewApplicantRepository(db),
		StudyProgramRepository: NewStudyProgramRepository(db),
	}
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// orderByClause resolves an API sort field through the whitelist, falling back to created_at.
// id is appended so that pages are stable when the primary column ties.
func orderByClause(columns map[string]string, field string, order models.SortOrder) []string {
	column, ok := columns[field]
	if !ok {
		column = "created_at"
	}

	direction := "DESC"
	if order == models.SortAsc {
		direction = "ASC"
	}

	return []string{fmt.Sprintf("%s %s", column, direction), fmt.Sprintf("id %s", direction)}
}

// searchCondition ORs a case-insensitive substring match over the given columns
func searchCondition(term string, columns ...string) squirrel.Sqlizer {
	pattern := "%" + helpers.EscapeLike(strings.TrimSpace(term)) + "%"
	or := squirrel.Or{}
	for _, column := range columns {
		or = append(or, squirrel.ILike{column: pattern})
	}
	return or
}

// existsQuery builds SELECT EXISTS (...) for a unique column, optionally ignoring one record
func existsQuery(sb squirrel.StatementBuilderType, table, column, value, excludeID string) squirrel.SelectBuilder {
	where := squirrel.And{squirrel.Eq{column: value}}
	if excludeID != "" {
		where = append(where, squirrel.NotEq{"id": excludeID})
	}
	return sb.Select("1").
		From(table).
		Where(where).
		Prefix("SELECT EXISTS (").Suffix(")")
}

func queryExists(ctx context.Context, db DBTX, query squirrel.SelectBuilder) (bool, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var exists bool
	if err := db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking existence: %w", err)
	}
	return exists, nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
