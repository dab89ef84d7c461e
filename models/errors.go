package models

import "errors"

// ErrorKind tags a domain failure so controllers can map it to an HTTP
// status without matching on message text.
type ErrorKind string

const (
	ErrKindValidation      ErrorKind = "validation"
	ErrKindNotFound        ErrorKind = "not_found"
	ErrKindConflict        ErrorKind = "conflict"
	ErrKindAlreadyIssued   ErrorKind = "already_issued"
	ErrKindAlreadyRedeemed ErrorKind = "already_redeemed"
	ErrKindExpired         ErrorKind = "expired"
	ErrKindInternal        ErrorKind = "internal"
)

// DomainError is the error type returned by the service layer.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(kind ErrorKind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

// KindOf extracts the ErrorKind from err, defaulting to internal for
// anything that is not a DomainError (unexpected persistence failures).
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrKindInternal
}
