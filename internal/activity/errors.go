package activity

import "errors"

var (
	// ErrValidation is the parent of every ValidationError.
	ErrValidation = errors.New("activity validation failed")
	// ErrUnknownType is returned for activity types outside Types.
	ErrUnknownType = errors.New("unknown activity type")
	// ErrMissingUser is returned when an activity has no owner.
	ErrMissingUser = errors.New("activity user is required")
)

// ValidationError carries the message shown to the user when a form is
// rejected. No activity is created when it is returned.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets callers match any validation failure with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

const invalidNumberMessage = "Please enter valid numbers for all fields."

func missing(message string) error {
	return &ValidationError{Message: message}
}

func invalidNumber(field string) error {
	return &ValidationError{Message: invalidNumberMessage, Field: field}
}

// UserMessage renders err the way the activity form reports it.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, ErrUnknownType):
		return "Invalid activity type selected."
	default:
		return err.Error()
	}
}
