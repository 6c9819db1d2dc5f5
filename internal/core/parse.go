package core

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ParseRows splits decoded text into the header record and the data rows.
//
// Line endings are normalized ("\r\n" and a lone "\r" both end a line), the
// whole document is trimmed, then split on "\n"; each line is parsed on its
// own as one comma-delimited record with double-quote quoting. Data rows are
// numbered from 2 (the header is line 1). A line the CSV reader rejects is kept
// with Err set so the mapper can report it.
func ParseRows(text string) (header []string, rows []RawRow) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(strings.TrimSpace(text), "\n")

	rows = make([]RawRow, 0, len(lines))
	for i, line := range lines {
		fields, err := ParseLine(line)
		if i == 0 {
			header = fields
			continue
		}
		rows = append(rows, RawRow{Line: i + 1, Fields: fields, Err: err})
	}
	return header, rows
}

// ParseLine parses a single line as one delimited record.
// An empty line yields zero fields.
func ParseLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	fields, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []string{}, nil
	}
	return fields, err
}
