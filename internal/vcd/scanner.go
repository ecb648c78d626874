package vcd

import (
	"strconv"
	"strings"
)

// RecordKind classifies one line of the log body.
type RecordKind int

const (
	// RecordBlank is an empty line.
	RecordBlank RecordKind = iota

	// RecordControl is a $-directive other than a declaration ($dumpvars,
	// $end, ...). Control records carry no payload and are skipped by the
	// emission engine.
	RecordControl

	// RecordDecl is a $var declaration line.
	RecordDecl

	// RecordTime is a #<ticks> time marker.
	RecordTime

	// RecordScalar is a single-bit change: value character followed by the
	// signal identifier, no separator.
	RecordScalar

	// RecordVector is a bus change: b-prefixed bit string, whitespace,
	// identifier.
	RecordVector

	// RecordOther is anything that matches no known record shape. The
	// engine ignores it, preserving the permissive treatment of unknown
	// body content.
	RecordOther
)

// Record is one classified line.
type Record struct {
	Kind  RecordKind
	Ticks int64  // RecordTime
	Value byte   // RecordScalar: raw value character (0/1/x/X/z/Z)
	Bits  string // RecordVector: raw MSB-first payload
	ID    string // RecordScalar, RecordVector
	Raw   string // original line, kept for declarations
}

// Classify determines the record kind of a single trimmed line.
func Classify(line string) Record {
	if line == "" {
		return Record{Kind: RecordBlank}
	}
	switch line[0] {
	case '$':
		if strings.HasPrefix(line, "$var") {
			return Record{Kind: RecordDecl, Raw: line}
		}
		return Record{Kind: RecordControl, Raw: line}
	case '#':
		ticks, err := strconv.ParseInt(line[1:], 10, 64)
		if err != nil || ticks < 0 {
			return Record{Kind: RecordOther, Raw: line}
		}
		return Record{Kind: RecordTime, Ticks: ticks}
	case 'b', 'B':
		return classifyVector(line)
	}
	if isLogicChar(line[0]) {
		id := line[1:]
		if id == "" || strings.ContainsAny(id, " \t") {
			return Record{Kind: RecordOther, Raw: line}
		}
		return Record{Kind: RecordScalar, Value: line[0], ID: id}
	}
	return Record{Kind: RecordOther, Raw: line}
}

func classifyVector(line string) Record {
	fields := strings.Fields(line)
	if len(fields) != 2 || len(fields[0]) < 2 {
		return Record{Kind: RecordOther, Raw: line}
	}
	bits := fields[0][1:]
	for i := 0; i < len(bits); i++ {
		if !isLogicChar(bits[i]) {
			return Record{Kind: RecordOther, Raw: line}
		}
	}
	return Record{Kind: RecordVector, Bits: bits, ID: fields[1]}
}

func isLogicChar(c byte) bool {
	switch c {
	case '0', '1', 'x', 'X', 'z', 'Z':
		return true
	}
	return false
}
