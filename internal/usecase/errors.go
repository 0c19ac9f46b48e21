package usecase

import "errors"

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeStorage    = "STORAGE_ERROR"
)

// DomainError is a failure the caller caused: bad input or a missing record.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps an infrastructure failure. Cause is kept for logging
// and never shown to clients.
type TechnicalError struct {
	Code    string
	Message string
	Cause   error
}

func (e *TechnicalError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Cause
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

func hasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

func validationFailed(fields []ValidationError) *DomainError {
	msg := "validation failed: "
	for i, f := range fields {
		if i > 0 {
			msg += ", "
		}
		msg += f.Field + " (" + f.Message + ")"
	}
	return &DomainError{Code: CodeValidation, Message: msg, Fields: fields}
}

func notFound(msg string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func storageFailed(msg string, cause error) *TechnicalError {
	return &TechnicalError{Code: CodeStorage, Message: msg, Cause: cause}
}
