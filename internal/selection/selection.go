// Package selection resolves the ordered list of output columns for a
// conversion: from a GTKWave save file, from an explicit name list, or by
// defaulting to every scalar signal.
package selection

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/hwtrace/vcdcsv/internal/vcd"
)

// Column is one resolved output column.
//
// A column is either a scalar alias (ScalarID set) or a single bit tapped
// out of a bus payload (BusID set). Offset is the distance from the
// payload's most-significant bit; Width is the declared bus width, needed
// to align short payloads.
type Column struct {
	Name     string
	ScalarID string
	BusID    string
	Offset   int
	Width    int
}

// IsBusBit reports whether the column taps a bus payload.
func (c *Column) IsBusBit() bool { return c.BusID != "" }

// Resolve maps requested names onto catalogue declarations.
//
// An empty wanted list selects every scalar name, lexically sorted. Names
// that resolve to neither a scalar alias nor a bus bit are fatal unless
// ignoreMissing is set, in which case they are warned about and dropped.
// A selection that ends up empty is always fatal.
//
// Bus-bit expansion direction follows the literal range the user gave;
// each candidate bit is still checked individually against the declared
// range, so an orientation mismatch between selection and declaration
// resolves bit-by-bit rather than failing wholesale.
func Resolve(cat *vcd.Catalogue, wanted []string, ignoreMissing bool) ([]Column, error) {
	if len(wanted) == 0 {
		wanted = cat.ScalarNames()
	}

	var columns []Column
	var missing []string
	for _, name := range wanted {
		if id, ok := cat.ScalarID(name); ok {
			columns = append(columns, Column{Name: name, ScalarID: id})
			continue
		}
		if base, idx, ok := splitBusBit(name); ok {
			if sig, ok := cat.FindBusBit(base, idx); ok {
				columns = append(columns, Column{
					Name:   name,
					BusID:  sig.ID,
					Offset: sig.BitOffset(idx),
					Width:  sig.Width,
				})
				continue
			}
		}
		missing = append(missing, name)
	}

	if len(missing) > 0 {
		if !ignoreMissing {
			return nil, &Error{Code: ErrCodeMissingSignals, Missing: missing}
		}
		slog.Warn("signals not found in VCD", "signals", strings.Join(missing, ", "))
	}
	if len(columns) == 0 {
		return nil, &Error{Code: ErrCodeEmptySelection, Missing: missing}
	}
	return columns, nil
}

// splitBusBit parses "base[idx]". The base may itself contain brackets;
// only the final bracketed group is the index.
func splitBusBit(name string) (string, int, bool) {
	if !strings.HasSuffix(name, "]") {
		return "", 0, false
	}
	open := strings.LastIndexByte(name, '[')
	if open <= 0 {
		return "", 0, false
	}
	idx, err := strconv.Atoi(name[open+1 : len(name)-1])
	if err != nil || idx < 0 {
		return "", 0, false
	}
	return name[:open], idx, true
}

// splitBusRange parses "base[hi:lo]".
func splitBusRange(name string) (string, int, int, bool) {
	if !strings.HasSuffix(name, "]") {
		return "", 0, 0, false
	}
	open := strings.LastIndexByte(name, '[')
	if open <= 0 {
		return "", 0, 0, false
	}
	inner := name[open+1 : len(name)-1]
	colon := strings.IndexByte(inner, ':')
	if colon < 0 {
		return "", 0, 0, false
	}
	hi, err1 := strconv.Atoi(inner[:colon])
	lo, err2 := strconv.Atoi(inner[colon+1:])
	if err1 != nil || err2 != nil || hi < 0 || lo < 0 {
		return "", 0, 0, false
	}
	return name[:open], hi, lo, true
}
