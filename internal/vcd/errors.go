package vcd

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes log-level errors.
type ErrorCode string

const (
	// ErrCodeFileAccess indicates the log could not be read.
	ErrCodeFileAccess ErrorCode = "FILE_ACCESS"

	// ErrCodeNoSignals indicates the header declared neither scalars nor buses.
	ErrCodeNoSignals ErrorCode = "NO_SIGNALS_FOUND"
)

// Error describes a fatal condition while reading or parsing a log.
type Error struct {
	Code ErrorCode
	Path string // offending file, if any
	Err  error  // underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeFileAccess:
		return fmt.Sprintf("%s: cannot open %q: %v", e.Code, e.Path, e.Err)
	case ErrCodeNoSignals:
		return fmt.Sprintf("%s: no signals (scalar or bus) found in VCD", e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsNoSignals reports whether err is a NO_SIGNALS_FOUND error.
// Uses errors.As to handle wrapped errors.
func IsNoSignals(err error) bool {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code == ErrCodeNoSignals
	}
	return false
}

// IsFileAccess reports whether err is a FILE_ACCESS error.
func IsFileAccess(err error) bool {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code == ErrCodeFileAccess
	}
	return false
}
