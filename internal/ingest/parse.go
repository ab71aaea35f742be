package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Row is one data record keyed by header name. Values are trimmed.
type Row map[string]string

func (r Row) Get(column string) string {
	return r[column]
}

// Record is a data row with its 1-based position among data rows.
type Record struct {
	Row    int
	Fields Row
}

// Table is a parsed upload: the header line and every data line. A line of
// empty fields is still a record.
type Table struct {
	Header  []string
	Records []Record
}

// ParseError means the bytes are not well-formed delimited text.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes raw CSV bytes. A UTF-8 or UTF-16 byte-order mark is honoured
// and removed. Empty lines are skipped and every field is trimmed.
func Parse(raw []byte) (*Table, error) {
	decoded := transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	r := csv.NewReader(decoded)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, wrapParseError(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &Table{Header: header}
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapParseError(err)
		}
		row := make(Row, len(header))
		for i, name := range header {
			row[name] = strings.TrimSpace(fields[i])
		}
		table.Records = append(table.Records, Record{Row: len(table.Records) + 1, Fields: row})
	}
	return table, nil
}

func wrapParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Err: err}
}
