package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Output shape names.
const (
	ShapeObjects  = "objects"
	ShapeColumnar = "columnar"
)

func init() {
	RegisterShape(ShapeDefinition{
		Name:        ShapeObjects,
		Description: "array of field-named records",
		Encode:      func(records []POIRecord, _ []string) ([]byte, error) { return EncodeObjects(records) },
	})
	RegisterShape(ShapeDefinition{
		Name:        ShapeColumnar,
		Description: "column list plus row arrays",
		UsesColumns: true,
		Encode:      EncodeColumnar,
	})
}

// ColumnarDocument is the {columns, data} output shape.
type ColumnarDocument struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

// EncodeObjects serializes records as a JSON array of objects.
func EncodeObjects(records []POIRecord) ([]byte, error) {
	if records == nil {
		records = []POIRecord{}
	}
	return marshalCompact(records)
}

// EncodeColumnar serializes records as a column list plus one array per record,
// each aligned to columns.
func EncodeColumnar(records []POIRecord, columns []string) ([]byte, error) {
	if err := ValidateColumns(columns); err != nil {
		return nil, err
	}

	doc := ColumnarDocument{
		Columns: columns,
		Data:    make([][]any, 0, len(records)),
	}
	for _, rec := range records {
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i], _ = rec.Value(col)
		}
		doc.Data = append(doc.Data, row)
	}

	return marshalCompact(doc)
}

// Encode serializes records with the named shape.
func Encode(shape string, records []POIRecord, columns []string) ([]byte, error) {
	def, ok := LookupShape(shape)
	if !ok {
		return nil, fmt.Errorf("unknown output shape %q", shape)
	}
	return def.Encode(records, columns)
}

// marshalCompact encodes v without whitespace, without HTML escaping and
// without the encoder's trailing newline. Non-ASCII text is written literally.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
