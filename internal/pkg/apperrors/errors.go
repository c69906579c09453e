package apperrors

import "errors"

// Error kinds. Every error that reaches the HTTP layer is classified by one of these.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
)

// Authentication errors
var (
	ErrAPIKeyMissing  = NewUnauthorizedError("API key is required. Please provide x-api-key header.")
	ErrAPIKeyInvalid  = NewUnauthorizedError("Invalid API key.")
	ErrAPIKeyDisabled = NewUnauthorizedError("API key has been disabled.")
	ErrAdminKeyDenied = NewUnauthorizedError("Admin key is required to manage API keys.")
)

// CustomError carries a client-facing message on top of an error kind
type CustomError struct {
	Err     error
	Message string
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

func NewBadRequestError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

func NewUnauthorizedError(message string) error {
	return NewCustomError(ErrUnauthorized, message)
}

func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

func NewConflictError(message string) error {
	return NewCustomError(ErrConflict, message)
}

// Message returns the client-facing message of the outermost CustomError in the chain
func Message(err error) (string, bool) {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message, true
	}
	return "", false
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
