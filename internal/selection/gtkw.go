package selection

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// gtkwControlChars start lines that carry GTKWave state rather than signal
// names: section markers, timestamps, comments, group controls.
const gtkwControlChars = "[*@#;-"

// ParseGTKW extracts the signal list from a GTKWave save file.
//
// Rules: blank lines and control lines are skipped; the first
// whitespace-delimited token of each remaining line is the signal;
// hierarchical names reduce to their final segment; a range-qualified
// name base[hi:lo] expands into individual bit names following the
// literal direction given. Duplicates are dropped, first-seen order wins.
func ParseGTKW(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open GTKWave save file %q: %w", path, err)
	}
	defer f.Close()

	var signals []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			signals = append(signals, name)
		}
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.IndexByte(gtkwControlChars, s[0]) >= 0 {
			continue
		}
		full := strings.Fields(s)[0]
		leaf := full
		if dot := strings.LastIndexByte(full, '.'); dot >= 0 {
			leaf = full[dot+1:]
		}

		base, hi, lo, ok := splitBusRange(leaf)
		if !ok {
			add(leaf)
			continue
		}
		if hi >= lo {
			for i := hi; i >= lo; i-- {
				add(fmt.Sprintf("%s[%d]", base, i))
			}
		} else {
			for i := hi; i <= lo; i++ {
				add(fmt.Sprintf("%s[%d]", base, i))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read GTKWave save file %q: %w", path, err)
	}
	return signals, nil
}
