package engine

import (
	"strings"

	"github.com/hwtrace/vcdcsv/internal/selection"
	"github.com/hwtrace/vcdcsv/internal/vcd"
)

// Config carries the time parameters of one conversion. TMin and TMax are
// inclusive bounds in seconds; Step, when set, switches the engine from
// event mode to uniform-grid mode.
type Config struct {
	ScaleSeconds float64 // seconds per tick
	TMin         *float64
	TMax         *float64
	Step         *float64
}

// busTap maps one output column onto a bit position of a bus payload.
type busTap struct {
	col    int
	offset int // distance from the payload's MSB
	width  int // declared bus width, for alignment
}

// Engine walks the event stream once and emits rows through a RowWriter.
type Engine struct {
	cfg   Config
	w     RowWriter
	names []string

	// One clean value cell per output column. A zero byte means the column
	// has not been observed yet; unobserved columns read as the logic-1
	// idle convention, and the first observation always counts as a
	// change, even when it resolves to '1'. After the first observation a
	// cell is only ever '0' or '1'.
	values []byte

	scalarTaps map[string][]int    // id -> column indices
	busTaps    map[string][]busTap // id -> payload taps

	haveTime bool
	curTicks int64
	stopped  bool

	// Event mode: set when any tracked column changed at the current tick.
	changed bool

	// Uniform-grid mode: interval start and the anchored sample cursor.
	lastTimeSec float64
	nextSample  float64
	anchored    bool
}

// New builds an engine over the selected columns.
func New(cols []selection.Column, cfg Config, w RowWriter) *Engine {
	e := &Engine{
		cfg:        cfg,
		w:          w,
		names:      make([]string, len(cols)),
		values:     make([]byte, len(cols)),
		scalarTaps: make(map[string][]int),
		busTaps:    make(map[string][]busTap),
	}
	for i, c := range cols {
		e.names[i] = c.Name
		if c.IsBusBit() {
			e.busTaps[c.BusID] = append(e.busTaps[c.BusID], busTap{col: i, offset: c.Offset, width: c.Width})
		} else {
			e.scalarTaps[c.ScalarID] = append(e.scalarTaps[c.ScalarID], i)
		}
	}
	return e
}

// Columns returns the output column names in selection order.
func (e *Engine) Columns() []string { return e.names }

// Run writes the header row, then feeds every body record through the
// event handlers. Processing stops early when the upper time bound is
// crossed in event mode.
func (e *Engine) Run(lines []string) error {
	if err := e.w.WriteHeader(e.names); err != nil {
		return err
	}
	headerDone := false
	for _, raw := range lines {
		if e.stopped {
			break
		}
		line := strings.TrimRight(raw, " \t\r")
		if !headerDone {
			if vcd.IsEndDefinitions(line) {
				headerDone = true
			}
			continue
		}
		rec := vcd.Classify(line)
		var err error
		switch rec.Kind {
		case vcd.RecordTime:
			err = e.OnTime(rec.Ticks)
		case vcd.RecordScalar:
			e.OnScalar(rec.ID, rec.Value)
		case vcd.RecordVector:
			e.OnVector(rec.ID, rec.Bits)
		}
		if err != nil {
			return err
		}
	}
	return e.Finish()
}

// OnTime advances the engine to a new time marker. In event mode this
// first flushes the previous tick if anything changed; in uniform-grid
// mode it samples the closed-out interval.
func (e *Engine) OnTime(ticks int64) error {
	if e.cfg.Step != nil {
		return e.onTimeUniform(ticks)
	}
	return e.onTimeEvent(ticks)
}

// OnScalar applies a single-bit change. Columns not mapped to the
// identifier are untouched; equal resolved values never arm the
// pending-change flag.
func (e *Engine) OnScalar(id string, raw byte) {
	for _, ci := range e.scalarTaps[id] {
		clean := SanitizeBit(raw, e.values[ci])
		if clean != e.values[ci] {
			e.values[ci] = clean
			e.changed = true
		}
	}
}

// OnVector applies a bus change to every selected bit of that bus.
// Payload bits without a mapped column are ignored.
func (e *Engine) OnVector(id string, bits string) {
	for _, tap := range e.busTaps[id] {
		raw := vectorBit(bits, tap.offset, tap.width)
		clean := SanitizeBit(raw, e.values[tap.col])
		if clean != e.values[tap.col] {
			e.values[tap.col] = clean
			e.changed = true
		}
	}
}

// Finish closes out the stream: a final flush in event mode, or the last
// half-open interval (extended to the upper bound when one is given and
// later) in uniform-grid mode.
func (e *Engine) Finish() error {
	if e.cfg.Step != nil {
		if !e.haveTime {
			return nil
		}
		end := e.lastTimeSec
		if e.cfg.TMax != nil && *e.cfg.TMax > end {
			end = *e.cfg.TMax
		}
		return e.emitGrid(e.lastTimeSec, end)
	}
	if e.stopped {
		return nil
	}
	return e.flushEvent()
}

func (e *Engine) onTimeEvent(ticks int64) error {
	if err := e.flushEvent(); err != nil {
		return err
	}
	if e.stopped {
		return nil
	}
	e.curTicks = ticks
	e.haveTime = true
	return nil
}

// flushEvent writes a row for the current tick if any column changed.
// Rows strictly before the lower bound are dropped with state retained;
// the first row strictly past the upper bound terminates the pass.
func (e *Engine) flushEvent() error {
	if !e.haveTime || !e.changed {
		return nil
	}
	t := float64(e.curTicks) * e.cfg.ScaleSeconds
	if e.cfg.TMin != nil && t < *e.cfg.TMin {
		e.changed = false
		return nil
	}
	if e.cfg.TMax != nil && t > *e.cfg.TMax {
		e.stopped = true
		return nil
	}
	if err := e.w.WriteRow(t, e.rowValues()); err != nil {
		return err
	}
	e.changed = false
	return nil
}

func (e *Engine) onTimeUniform(ticks int64) error {
	sec := float64(ticks) * e.cfg.ScaleSeconds
	if !e.haveTime {
		e.haveTime = true
		e.curTicks = ticks
		e.lastTimeSec = sec
		return nil
	}
	if err := e.emitGrid(e.lastTimeSec, sec); err != nil {
		return err
	}
	e.curTicks = ticks
	e.lastTimeSec = sec
	return nil
}

// emitGrid samples the half-open interval [from, to). The grid anchor is
// set once, at the later of the first interval start and the lower bound,
// and never moves; every subsequent sample is a whole number of steps
// from it.
func (e *Engine) emitGrid(from, to float64) error {
	if e.cfg.TMax != nil && from > *e.cfg.TMax {
		return nil
	}
	if !e.anchored {
		start := from
		if e.cfg.TMin != nil && *e.cfg.TMin > start {
			start = *e.cfg.TMin
		}
		e.nextSample = start
		e.anchored = true
	}
	for e.nextSample < to && (e.cfg.TMax == nil || e.nextSample <= *e.cfg.TMax) {
		if err := e.w.WriteRow(e.nextSample, e.rowValues()); err != nil {
			return err
		}
		e.nextSample += *e.cfg.Step
	}
	return nil
}

func (e *Engine) rowValues() []string {
	vals := make([]string, len(e.values))
	for i, v := range e.values {
		if v == 0 {
			vals[i] = "1"
			continue
		}
		vals[i] = string(v)
	}
	return vals
}
