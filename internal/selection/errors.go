package selection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes selection errors.
type ErrorCode string

const (
	// ErrCodeMissingSignals indicates requested names that resolve to
	// neither a scalar alias nor a bus bit.
	ErrCodeMissingSignals ErrorCode = "MISSING_SIGNALS"

	// ErrCodeEmptySelection indicates the final column list came out empty.
	ErrCodeEmptySelection ErrorCode = "EMPTY_SELECTION"
)

// Error describes a failed column selection.
type Error struct {
	Code    ErrorCode
	Missing []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeMissingSignals:
		return fmt.Sprintf("%s: signals not found in VCD: %s", e.Code, strings.Join(e.Missing, ", "))
	default:
		return fmt.Sprintf("%s: none of the requested signals are present in VCD", e.Code)
	}
}

// IsMissingSignals reports whether err is a MISSING_SIGNALS error.
// Uses errors.As to handle wrapped errors.
func IsMissingSignals(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeMissingSignals
	}
	return false
}

// IsEmptySelection reports whether err is an EMPTY_SELECTION error.
func IsEmptySelection(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeEmptySelection
	}
	return false
}
