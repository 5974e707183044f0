package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business rule failure. Every kind means the request
// changed nothing; conflict additionally means the caller should re-query
// availability and retry with different input.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindTooLateToCancel   Kind = "too_late_to_cancel"
	KindInvalidState      Kind = "invalid_state"
	KindInactive          Kind = "inactive"
	KindForbidden         Kind = "forbidden"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string

	// ConflictIDs lists the confirmed appointments that collided.
	ConflictIDs []uint
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// ErrBusiness keeps the short form used by older call sites: the code alone,
// classified as invalid state.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func Validation(code, format string, args ...any) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code, format string, args ...any) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Conflict(ids []uint) error {
	return BusinessError{
		Kind:        KindConflict,
		Code:        "time_conflict",
		Message:     "overlaps a confirmed appointment",
		ConflictIDs: ids,
	}
}

func InvalidTransition(from, to string) error {
	return BusinessError{
		Kind:    KindInvalidTransition,
		Code:    "invalid_transition",
		Message: fmt.Sprintf("cannot move from %s to %s", from, to),
	}
}

func TooLateToCancel(window string) error {
	return BusinessError{
		Kind:    KindTooLateToCancel,
		Code:    "too_late_to_cancel",
		Message: "self-service cancellation closes " + window + " before start",
	}
}

func InvalidState(code, format string, args ...any) error {
	return BusinessError{Kind: KindInvalidState, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Inactive(code, format string, args ...any) error {
	return BusinessError{Kind: KindInactive, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(code, format string, args ...any) error {
	return BusinessError{Kind: KindForbidden, Code: code, Message: fmt.Sprintf(format, args...)}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
