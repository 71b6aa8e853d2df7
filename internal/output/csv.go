// internal/output/csv.go
package output

import (
	"encoding/csv"
	"os"

	"github.com/storylens/storylens/pkg/types"
)

// CSVWriter writes records as CSV with the fixed record column set. Nested
// fields are embedded as JSON strings.
type CSVWriter struct {
	file        *os.File
	writer      *csv.Writer
	wroteHeader bool
}

// NewCSVWriter creates a CSV writer targeting filename ("-" for stdout).
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if filename == "" || filename == "-" {
		return &CSVWriter{writer: csv.NewWriter(os.Stdout)}, nil
	}
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{file: file, writer: csv.NewWriter(file)}, nil
}

// Write appends the record batch, emitting the header once.
func (w *CSVWriter) Write(records []*types.StoryRecord) error {
	if !w.wroteHeader {
		if err := w.writer.Write(recordColumns); err != nil {
			return err
		}
		w.wroteHeader = true
	}

	for _, r := range records {
		row := recordRow(r)
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		if err := w.writer.Write(cells); err != nil {
			return err
		}
	}

	w.writer.Flush()
	return w.writer.Error()
}

// Flush flushes buffered rows.
func (w *CSVWriter) Flush() error {
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the destination.
func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return err
	}
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
