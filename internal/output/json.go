// internal/output/json.go
package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/storylens/storylens/pkg/types"
)

// JSONWriter writes records as a JSON array. The destination "-" means
// stdout.
type JSONWriter struct {
	file   *os.File
	out    io.Writer
	pretty bool
}

// NewJSONWriter creates a JSON writer targeting filename.
func NewJSONWriter(filename string, pretty bool) (*JSONWriter, error) {
	if filename == "" || filename == "-" {
		return &JSONWriter{out: os.Stdout, pretty: pretty}, nil
	}
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{file: file, out: file, pretty: pretty}, nil
}

// Write encodes the record batch as one JSON array. Non-ASCII text stays
// literal and slashes are not escaped, matching the upstream payloads.
func (w *JSONWriter) Write(records []*types.StoryRecord) error {
	if records == nil {
		records = []*types.StoryRecord{}
	}
	encoder := json.NewEncoder(w.out)
	encoder.SetEscapeHTML(false)
	if w.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(records)
}

// Flush syncs the underlying file when there is one.
func (w *JSONWriter) Flush() error {
	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

// Close closes the destination file. Stdout is left open.
func (w *JSONWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
