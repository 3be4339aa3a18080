package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound       ErrorKind = "not_found"
	KindValidation     ErrorKind = "validation"
	KindUnauthorized   ErrorKind = "unauthorized"
	KindConflict       ErrorKind = "conflict"
	KindPaymentFailure ErrorKind = "payment_failure"
)

// Error carries the failure kind so handlers can map it to a status code
// without string matching. Conflict is kept distinct from Validation so
// callers can offer "pick different dates" messaging on a lost race.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...any) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func PaymentFailure(msg string, err error) error {
	return &Error{Kind: KindPaymentFailure, Message: msg, Err: err}
}

func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

func IsNotFound(err error) bool       { return hasKind(err, KindNotFound) }
func IsValidation(err error) bool     { return hasKind(err, KindValidation) }
func IsUnauthorized(err error) bool   { return hasKind(err, KindUnauthorized) }
func IsConflict(err error) bool       { return hasKind(err, KindConflict) }
func IsPaymentFailure(err error) bool { return hasKind(err, KindPaymentFailure) }

func hasKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
