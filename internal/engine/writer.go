package engine

import (
	"encoding/csv"
	"io"
	"strconv"
)

// TimeColumn is the fixed label of the leading time column.
const TimeColumn = "Time[s]"

// RowWriter consumes the header and the emitted rows of one conversion.
type RowWriter interface {
	WriteHeader(columns []string) error
	WriteRow(timeSec float64, values []string) error
	Flush() error
}

// FormatTime renders a time in seconds as fixed-point with exactly 12
// fractional digits, the resolution the importing viewer expects.
func FormatTime(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 12, 64)
}

// CSVWriter writes rows as comma-separated values.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter wraps an io.Writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the time label and the column names.
func (c *CSVWriter) WriteHeader(columns []string) error {
	record := make([]string, 0, len(columns)+1)
	record = append(record, TimeColumn)
	record = append(record, columns...)
	return c.w.Write(record)
}

// WriteRow writes one emitted row.
func (c *CSVWriter) WriteRow(timeSec float64, values []string) error {
	record := make([]string, 0, len(values)+1)
	record = append(record, FormatTime(timeSec))
	record = append(record, values...)
	return c.w.Write(record)
}

// Flush drains buffered rows and reports any deferred write error.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// MultiWriter fans rows out to several RowWriters, e.g. a CSV file plus a
// SQLite sink.
type MultiWriter struct {
	writers []RowWriter
}

// NewMultiWriter combines writers; rows go to each in order.
func NewMultiWriter(writers ...RowWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) WriteHeader(columns []string) error {
	for _, w := range m.writers {
		if err := w.WriteHeader(columns); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) WriteRow(timeSec float64, values []string) error {
	for _, w := range m.writers {
		if err := w.WriteRow(timeSec, values); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) Flush() error {
	for _, w := range m.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
