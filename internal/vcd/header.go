package vcd

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/hwtrace/vcdcsv/internal/timespec"
)

// DefaultScaleSeconds is the permissive fallback resolution (1 ps per
// tick) used when the $timescale block is absent or malformed.
const DefaultScaleSeconds = 1e-12

// endDefinitions terminates the declaration preamble.
const endDefinitions = "$enddefinitions"

// IsEndDefinitions reports whether line carries the definitions-end marker.
func IsEndDefinitions(line string) bool {
	return strings.Contains(line, endDefinitions)
}

// ReadLog reads the whole log into memory as lines. Inputs ending in .gz
// are transparently decompressed. The file handle is closed on every
// return path.
func ReadLog(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeFileAccess, Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &Error{Code: ErrCodeFileAccess, Path: path, Err: err}
		}
		defer gz.Close()
		r = gz
	}

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, &Error{Code: ErrCodeFileAccess, Path: path, Err: err}
	}
	return lines, nil
}

// ParseTimescale resolves the declared resolution to seconds per tick.
//
// The first well-formed "factor unit" line inside the $timescale block
// wins; an absent or malformed block leaves the resolution at
// DefaultScaleSeconds.
func ParseTimescale(lines []string) float64 {
	scale := DefaultScaleSeconds
	inBlock := false
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "$timescale" {
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}
		if factor, unit, ok := splitTimescaleLine(s); ok {
			sec, ok := timespec.ScaleSeconds(factor, unit)
			if !ok {
				break
			}
			scale = sec
			break
		}
		if s == "$end" {
			break
		}
	}
	return scale
}

// splitTimescaleLine matches a "<digits><ws?><unit>" line, e.g. "10 ns"
// or "1ns".
func splitTimescaleLine(s string) (int64, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	factor, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, "", false
	}
	unit := strings.TrimSpace(s[i:])
	for j := 0; j < len(unit); j++ {
		if !isUnitLetter(unit[j]) {
			return 0, "", false
		}
	}
	if unit == "" {
		return 0, "", false
	}
	return factor, unit, true
}

func isUnitLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ParseHeader builds the signal catalogue from the declaration preamble,
// scanning up to the definitions-end marker.
func ParseHeader(lines []string) (*Catalogue, error) {
	cat := NewCatalogue()
	for _, line := range lines {
		if IsEndDefinitions(line) {
			break
		}
		sig, ok := parseVarLine(line)
		if !ok {
			continue
		}
		if sig.IsBus() {
			cat.addBus(sig)
		} else {
			cat.addScalar(sig.Name, sig.ID)
		}
	}
	if cat.Empty() {
		return nil, &Error{Code: ErrCodeNoSignals}
	}
	return cat, nil
}

// parseVarLine parses one declaration:
//
//	$var <type> <width> <id> <name> [<range>] $end
//
// e.g. "$var wire 1 ! mdc $end" or "$var wire 3 # state_o [2:0] $end".
// Buses without an explicit range default to [width-1:0].
func parseVarLine(line string) (*Signal, bool) {
	toks := strings.Fields(line)
	if len(toks) < 5 || toks[0] != "$var" {
		return nil, false
	}
	width, err := strconv.Atoi(toks[2])
	if err != nil || width < 1 {
		return nil, false
	}
	sig := &Signal{
		ID:    toks[3],
		Name:  toks[4],
		Width: width,
		MSB:   width - 1,
		LSB:   0,
	}
	if len(toks) >= 7 && strings.HasPrefix(toks[5], "[") && strings.HasSuffix(toks[5], "]") {
		if msb, lsb, ok := parseRange(toks[5]); ok {
			sig.MSB, sig.LSB = msb, lsb
		}
	}
	return sig, true
}

// parseRange parses "[msb:lsb]".
func parseRange(tok string) (int, int, bool) {
	inner := tok[1 : len(tok)-1]
	colon := strings.IndexByte(inner, ':')
	if colon < 0 {
		return 0, 0, false
	}
	msb, err1 := strconv.Atoi(inner[:colon])
	lsb, err2 := strconv.Atoi(inner[colon+1:])
	if err1 != nil || err2 != nil || msb < 0 || lsb < 0 {
		return 0, 0, false
	}
	return msb, lsb, true
}
