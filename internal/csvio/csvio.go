// Package csvio reads and writes the spreadsheet-friendly CSV used for
// imports and exports: UTF-8 with a byte order mark.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEmpty is returned when a file has no header row.
var ErrEmpty = errors.New("csvio: file is empty")

// Row is one data record and the file line it starts on. The header is
// line 1.
type Row struct {
	Line   int
	Fields []string
}

// Blank reports whether every field is empty.
func (r Row) Blank() bool {
	for _, f := range r.Fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Get returns field i trimmed, or "" when the row is short.
func (r Row) Get(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return strings.TrimSpace(r.Fields[i])
}

// Read decodes r, honouring a UTF-8 or UTF-16 byte order mark, and returns
// the trimmed header and every data row. Rows may have fewer or more fields
// than the header.
func Read(r io.Reader) ([]string, []Row, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmpty
	}
	if err != nil {
		return nil, nil, fmt.Errorf("csvio: read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csvio: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, Row{Line: line, Fields: fields})
	}
	return header, rows, nil
}

// Writer writes CSV records preceded by a UTF-8 byte order mark.
type Writer struct {
	out io.WriteCloser
	csv *csv.Writer
}

// NewWriter creates a Writer on w. Close must be called to flush.
func NewWriter(w io.Writer) *Writer {
	out := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	return &Writer{out: out, csv: csv.NewWriter(out)}
}

// Write writes one record.
func (w *Writer) Write(record []string) error {
	return w.csv.Write(record)
}

// Close flushes buffered records. It does not close the underlying writer.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	return w.out.Close()
}
