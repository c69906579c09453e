package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/pmb/admissions/internal/pkg/logger"
	"github.com/pmb/admissions/internal/pkg/validation"
)

var registerOnce sync.Once

// RegisterValidators installs the custom rules on gin's binding validator
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logger.Warn().Msg("Binding validator is not go-playground/validator, custom rules not registered")
			return
		}
		if err := validation.RegisterRules(v); err != nil {
			logger.Error().Err(err).Msg("Failed to register validation rules")
		}
	})
}

// BindingError converts a ShouldBindJSON failure into a validation error carrying a client-facing message
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		var missing, invalid []string
		for _, fe := range verrs {
			if validation.RequiredTags[fe.Tag()] {
				missing = append(missing, fe.Field())
				continue
			}
			invalid = append(invalid, formatValidationError(fe))
		}
		if len(missing) > 0 {
			return apperrors.NewBadRequestError(fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
		}
		return apperrors.NewBadRequestError(strings.Join(invalid, "; "))
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperrors.NewBadRequestError(fmt.Sprintf("Invalid value for %s.", typeErr.Field))
	case errors.Is(err, io.EOF):
		return apperrors.NewBadRequestError("Request body is required.")
	default:
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid request body.")
	}
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "email":
		return e.Field() + " must be a valid email address."
	case "gte":
		return e.Field() + " must be at least " + e.Param() + "."
	case "lte":
		return e.Field() + " must be at most " + e.Param() + "."
	case validation.ProgramCodeTag:
		return "Code must be maximum 4 characters."
	case validation.NIMTag:
		return e.Field() + " must contain only letters, digits, dots or dashes."
	default:
		return e.Field() + " is invalid."
	}
}
