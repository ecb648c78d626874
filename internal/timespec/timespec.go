// Package timespec parses human time specifications and VCD timescale
// factors into seconds.
//
// A time spec has the form <number>[unit] where unit is one of
// fs, ps, ns, us, ms, s (case-insensitive). A spec without a unit is
// interpreted as seconds. All bounds, steps and the log's own declared
// resolution are resolved through this package so that every time
// comparison in the converter happens in one common unit.
package timespec

import (
	"strconv"
	"strings"
)

// unitSeconds maps a recognized unit suffix to its duration in seconds.
var unitSeconds = map[string]float64{
	"fs": 1e-15,
	"ps": 1e-12,
	"ns": 1e-9,
	"us": 1e-6,
	"ms": 1e-3,
	"s":  1.0,
}

// Parse converts a time spec into seconds.
//
// The numeric part must be a non-negative decimal number. The unit, if
// present, must be one of fs, ps, ns, us, ms, s; absence means seconds.
func Parse(spec string) (float64, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return 0, &Error{Code: ErrCodeInvalidSpec, Spec: spec}
	}

	// Split the trailing unit token off the numeric part.
	cut := len(s)
	for cut > 0 && isUnitChar(s[cut-1]) {
		cut--
	}
	num := strings.TrimSpace(s[:cut])
	unit := strings.ToLower(s[cut:])

	value, err := strconv.ParseFloat(num, 64)
	if err != nil || value < 0 {
		return 0, &Error{Code: ErrCodeInvalidSpec, Spec: spec}
	}
	if unit == "" {
		// No unit means seconds.
		return value, nil
	}
	factor, ok := unitSeconds[unit]
	if !ok {
		return 0, &Error{Code: ErrCodeInvalidUnit, Spec: spec, Unit: unit}
	}
	return value * factor, nil
}

// ScaleSeconds converts a timescale declaration (integer factor plus unit,
// e.g. 10 and "ns") into seconds per tick. Returns false if the unit is
// not recognized.
func ScaleSeconds(factor int64, unit string) (float64, bool) {
	f, ok := unitSeconds[strings.ToLower(unit)]
	if !ok {
		return 0, false
	}
	return float64(factor) * f, true
}

func isUnitChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
