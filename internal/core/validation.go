package core

// validation.go maps parsed rows to POI records.
//
// Each row goes through three checks, in order:
//  1. Shape: at least MinFields fields
//  2. Coercion: every numeric FieldSpec converts to its type
//  3. Semantics: the name is non-empty and the coordinates are not both zero
//
// A row failing any check becomes a Rejection; the run continues. Accepted rows
// get dense ids in acceptance order.

import (
	"fmt"
)

// POIFieldSpecs is the positional layout of an input row.
// Numeric specs are coerced in this order, so the first failing one is reported.
var POIFieldSpecs = []FieldSpec{
	{Name: ColName, Index: 0, Type: FieldText, Required: true},
	{Name: ColLng, Index: 1, Type: FieldFloat, Required: true},
	{Name: ColLat, Index: 2, Type: FieldFloat, Required: true},
	{Name: ColCity, Index: 3, Type: FieldText, Required: true, AllowEmpty: true},
	{Name: ColRankInCity, Index: 4, Type: FieldInt, Required: true, AllowEmpty: true},
	{Name: ColRank, Index: 5, Type: FieldInt, Required: true, AllowEmpty: true},
	{Name: ColNameEn, Index: 6, Type: FieldText, AllowEmpty: true},
}

// RowValidator validates rows against positional field specifications.
type RowValidator struct {
	specs     []FieldSpec
	minFields int
}

// NewRowValidator creates a validator for the given specs. The minimum field
// count is one past the highest index of a required spec.
func NewRowValidator(specs []FieldSpec) *RowValidator {
	minFields := 0
	for _, spec := range specs {
		if spec.Required && spec.Index+1 > minFields {
			minFields = spec.Index + 1
		}
	}
	return &RowValidator{specs: specs, minFields: minFields}
}

// MinFields returns the number of fields a row needs to be considered.
func (v *RowValidator) MinFields() int {
	return v.minFields
}

// MapRow validates a single row. On success the record is assigned the given id.
func (v *RowValidator) MapRow(row RawRow, id int) RowOutcome {
	reject := func(kind RejectKind, err error) RowOutcome {
		return RowOutcome{Rejection: &Rejection{Line: row.Line, Kind: kind, Err: err, Data: row.Fields}}
	}

	if row.Err != nil {
		return reject(RejectShape, &RowShapeError{Line: row.Line, Fields: len(row.Fields), Min: v.minFields, Err: row.Err})
	}
	if len(row.Fields) < v.minFields {
		return reject(RejectShape, &RowShapeError{Line: row.Line, Fields: len(row.Fields), Min: v.minFields})
	}

	rec := POIRecord{ID: id}
	for _, spec := range v.specs {
		raw := ""
		if spec.Index < len(row.Fields) {
			raw = row.Fields[spec.Index]
		}

		switch spec.Type {
		case FieldText:
			rec.setText(spec.Name, ToText(raw))
		case FieldFloat:
			f, err := ToFloat(raw)
			if err != nil {
				return reject(RejectCoercion, &FieldCoercionError{Line: row.Line, Field: spec.Name, Value: raw, Err: err})
			}
			rec.setFloat(spec.Name, f)
		case FieldInt:
			i, err := ToInt(raw, spec.AllowEmpty)
			if err != nil {
				return reject(RejectCoercion, &FieldCoercionError{Line: row.Line, Field: spec.Name, Value: raw, Err: err})
			}
			rec.setInt(spec.Name, i)
		}
	}

	if rec.Name == "" {
		return reject(RejectSemantic, &SemanticValidationError{Line: row.Line, Reason: "name is empty"})
	}
	if rec.Lng == 0 && rec.Lat == 0 {
		return reject(RejectSemantic, &SemanticValidationError{Line: row.Line, Reason: "coordinates are both zero"})
	}

	return RowOutcome{Record: &rec}
}

// MapRows validates rows in order, returning accepted records with ids 0..N-1
// and every rejection in source order.
func (v *RowValidator) MapRows(rows []RawRow) ([]POIRecord, []Rejection) {
	records := make([]POIRecord, 0, len(rows))
	var rejections []Rejection

	for _, row := range rows {
		outcome := v.MapRow(row, len(records))
		if outcome.Accepted() {
			records = append(records, *outcome.Record)
			continue
		}
		rejections = append(rejections, *outcome.Rejection)
	}

	return records, rejections
}

// ValidateColumns checks that every column is known and appears once.
func ValidateColumns(columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("column list is empty")
	}
	seen := make(map[string]bool, len(columns))
	var probe POIRecord
	for _, col := range columns {
		if _, ok := probe.Value(col); !ok {
			return fmt.Errorf("unknown column %q", col)
		}
		if seen[col] {
			return fmt.Errorf("duplicate column %q", col)
		}
		seen[col] = true
	}
	return nil
}

func (r *POIRecord) setText(column, v string) {
	switch column {
	case ColName:
		r.Name = v
	case ColNameEn:
		r.NameEn = v
	case ColCity:
		r.City = v
	}
}

func (r *POIRecord) setFloat(column string, v float64) {
	switch column {
	case ColLng:
		r.Lng = v
	case ColLat:
		r.Lat = v
	}
}

func (r *POIRecord) setInt(column string, v int) {
	switch column {
	case ColRank:
		r.Rank = v
	case ColRankInCity:
		r.RankInCity = v
	}
}
