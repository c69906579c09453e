package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pmb/admissions/internal/pkg/apperrors"
)

// PostgreSQL SQLSTATE codes
const (
	UniqueViolation  = "23505"
	CheckViolation   = "23514"
	NotNullViolation = "23502"
	// raised for a malformed uuid in a lookup
	InvalidTextRepresentation = "22P02"
	// value too long for a VARCHAR column
	StringDataRightTruncation = "22001"
)

// uniqueMessages names the natural key behind each unique constraint
var uniqueMessages = map[string]string{
	"api_keys_api_key_key":               "API key already exists.",
	"applicants_registration_number_key": "Registration number already exists.",
	"applicants_nim_key":                 "NIM already exists.",
	"study_programs_code_key":            "Study program code already exists.",
	"study_programs_program_id_key":      "Study program ID already exists.",
}

// IsUniqueViolation checks if the error is a PostgreSQL unique violation error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation
}

// IsNoRows reports whether a query produced no row.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Translate maps store-level signals onto application error kinds.
// Errors that are not recognised are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	switch {
	case IsNoRows(err), errors.As(err, &pgErr) && pgErr.Code == InvalidTextRepresentation:
		return apperrors.NewCustomError(apperrors.ErrResourceNotFound, "Record not found.")
	case IsUniqueViolation(err):
		return apperrors.NewCustomError(apperrors.ErrConflict, uniqueMessage(err))
	case errors.As(err, &pgErr) && (pgErr.Code == CheckViolation || pgErr.Code == NotNullViolation):
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, fmt.Sprintf("Invalid value for %s.", constraintSubject(pgErr)))
	case errors.As(err, &pgErr) && pgErr.Code == StringDataRightTruncation:
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, fmt.Sprintf("Value too long for %s.", constraintSubject(pgErr)))
	default:
		return err
	}
}

func uniqueMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := uniqueMessages[pgErr.ConstraintName]; ok {
			return msg
		}
	}
	return "A record with this unique field already exists."
}

func constraintSubject(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "record"
}
