package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/pkg/logger"
)

const apiKeysTable = "api_keys"

var apiKeyColumns = []string{"id", "name", "api_key", "is_active", "created_at"}

// APIKeyRepository handles API key database operations
type APIKeyRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db DBTX) *APIKeyRepository {
	return &APIKeyRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanAPIKey(row pgx.Row) (*models.APIKey, error) {
	k := &models.APIKey{}
	if err := row.Scan(&k.ID, &k.Name, &k.APIKey, &k.IsActive, &k.CreatedAt); err != nil {
		return nil, err
	}
	return k, nil
}

// Create stores a new key
func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) (*models.APIKey, error) {
	sql, args, err := r.sb.Insert(apiKeysTable).
		Columns("id", "name", "api_key", "is_active").
		Values(key.ID, key.Name, key.APIKey, key.IsActive).
		Suffix("RETURNING " + joinColumns(apiKeyColumns)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create API key SQL")
		return nil, errors.Wrap(err, "failed to build create API key query")
	}

	created, err := scanAPIKey(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Str("name", key.Name).Msg("Error executing create API key query")
		return nil, errors.Wrap(err, "error creating API key")
	}
	return created, nil
}

// FindAll returns every key, newest first
func (r *APIKeyRepository) FindAll(ctx context.Context) ([]models.APIKey, error) {
	sql, args, err := r.sb.Select(apiKeyColumns...).
		From(apiKeysTable).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list API keys SQL")
		return nil, errors.Wrap(err, "failed to build list API keys query")
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list API keys query")
		return nil, errors.Wrap(err, "failed to query API keys")
	}
	defer rows.Close()

	keys := []models.APIKey{}
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan API key row")
		}
		keys = append(keys, *k)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating API key rows")
	}
	return keys, nil
}

func (r *APIKeyRepository) findOne(ctx context.Context, where squirrel.Eq) (*models.APIKey, error) {
	sql, args, err := r.sb.Select(apiKeyColumns...).
		From(apiKeysTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build get API key query")
	}

	k, err := scanAPIKey(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning API key row")
		return nil, errors.Wrap(err, "error getting API key")
	}
	return k, nil
}

// FindByID retrieves a key by ID
func (r *APIKeyRepository) FindByID(ctx context.Context, id string) (*models.APIKey, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByKey retrieves a key by its token
func (r *APIKeyRepository) FindByKey(ctx context.Context, token string) (*models.APIKey, error) {
	return r.findOne(ctx, squirrel.Eq{"api_key": token})
}

// SetActive enables or disables a key
func (r *APIKeyRepository) SetActive(ctx context.Context, id string, active bool) (*models.APIKey, error) {
	sql, args, err := r.sb.Update(apiKeysTable).
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(apiKeyColumns)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build update API key query")
	}

	k, err := scanAPIKey(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("apiKeyID", id).Bool("active", active).Msg("Error executing update API key query")
		return nil, errors.Wrap(err, "error updating API key")
	}
	return k, nil
}

// Delete removes a key by ID
func (r *APIKeyRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete(apiKeysTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build delete API key query")
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("apiKeyID", id).Msg("Error executing delete API key query")
		return errors.Wrap(err, "error deleting API key")
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored keys
func (r *APIKeyRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From(apiKeysTable).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build count API keys query")
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "failed to count API keys")
	}
	return total, nil
}
