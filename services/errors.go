package services

import "errors"

// Sentinels the controllers map to HTTP statuses.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrHotelNotFound      = errors.New("hotel not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrForbidden          = errors.New("not allowed to access this resource")
)

// ValidationError carries a user-facing message for a rejected form value.
// It never reaches the database layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a form validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
