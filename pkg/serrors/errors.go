package serrors

import "fmt"

// BaseError is a structured error carrying a stable machine-readable code
// alongside the human-readable message. LocaleKey is consumed by the
// presentation layer and may be empty for internal errors.
type BaseError struct {
	Code      string
	Message   string
	LocaleKey string
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func NewValidationError(field, message string) *BaseError {
	return &BaseError{
		Code:      "VALIDATION_ERROR",
		Message:   fmt.Sprintf("%s: %s", field, message),
		LocaleKey: "Errors.Validation",
	}
}

func NewFieldRequiredError(field, localeKey string) *BaseError {
	return &BaseError{
		Code:      "FIELD_REQUIRED",
		Message:   fmt.Sprintf("%s is required", field),
		LocaleKey: localeKey,
	}
}
