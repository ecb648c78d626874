package timespec

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes time spec parse errors.
type ErrorCode string

const (
	// ErrCodeInvalidSpec indicates the numeric part is not parseable.
	ErrCodeInvalidSpec ErrorCode = "INVALID_TIME_SPEC"

	// ErrCodeInvalidUnit indicates an unrecognized unit token.
	ErrCodeInvalidUnit ErrorCode = "INVALID_TIME_UNIT"
)

// Error describes a rejected time specification.
type Error struct {
	Code ErrorCode
	Spec string // the spec as supplied
	Unit string // the offending unit token, for ErrCodeInvalidUnit
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeInvalidUnit:
		return fmt.Sprintf("%s: invalid time unit %q in %q (use one of fs, ps, ns, us, ms, s)", e.Code, e.Unit, e.Spec)
	default:
		return fmt.Sprintf("%s: invalid time specification %q (use <value>[unit] with unit one of fs, ps, ns, us, ms, s)", e.Code, e.Spec)
	}
}

// IsInvalidUnit reports whether err is an unrecognized-unit error.
// Uses errors.As to handle wrapped errors.
func IsInvalidUnit(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == ErrCodeInvalidUnit
	}
	return false
}

// IsInvalidSpec reports whether err is a malformed-spec error.
func IsInvalidSpec(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == ErrCodeInvalidSpec
	}
	return false
}
