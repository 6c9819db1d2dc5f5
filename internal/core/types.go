package core

import (
	"time"
)

// MinFields is the smallest number of fields a data row must have.
const MinFields = 6

// Column names of a POI record, in canonical order.
const (
	ColID         = "id"
	ColName       = "name"
	ColNameEn     = "name_en"
	ColCity       = "city"
	ColRank       = "rank"
	ColRankInCity = "rankInCity"
	ColLng        = "lng"
	ColLat        = "lat"
)

// DefaultColumns is the column order of the columnar shape.
var DefaultColumns = []string{ColID, ColName, ColNameEn, ColCity, ColRank, ColRankInCity, ColLng, ColLat}

// POIRecord is one validated point of interest.
// Field order matches the object-array JSON key order.
type POIRecord struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	NameEn     string  `json:"name_en"`
	City       string  `json:"city"`
	Rank       int     `json:"rank"`
	RankInCity int     `json:"rankInCity"`
	Lng        float64 `json:"lng"`
	Lat        float64 `json:"lat"`
}

// Value returns the record's value for a column name.
func (r POIRecord) Value(column string) (any, bool) {
	switch column {
	case ColID:
		return r.ID, true
	case ColName:
		return r.Name, true
	case ColNameEn:
		return r.NameEn, true
	case ColCity:
		return r.City, true
	case ColRank:
		return r.Rank, true
	case ColRankInCity:
		return r.RankInCity, true
	case ColLng:
		return r.Lng, true
	case ColLat:
		return r.Lat, true
	default:
		return nil, false
	}
}

// RawRow is one parsed input line.
type RawRow struct {
	Line   int      // Diagnostic line number; the first data row is 2
	Fields []string // Delimited fields, quotes removed
	Err    error    // Set when the line could not be split
}

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldFloat
	FieldInt
)

// FieldSpec defines how one positional CSV field is read.
type FieldSpec struct {
	Name       string    // Output column the field feeds
	Index      int       // Position in the row
	Type       FieldType // Expected data type
	Required   bool      // Must be present (guaranteed by MinFields for the first six)
	AllowEmpty bool      // For numeric types, an exactly-empty value becomes zero
}

// RejectKind classifies why a row was dropped.
type RejectKind string

const (
	RejectShape    RejectKind = "shape"
	RejectCoercion RejectKind = "coercion"
	RejectSemantic RejectKind = "semantic"
)

// Rejection describes a data row that was dropped.
type Rejection struct {
	Line int
	Kind RejectKind
	Err  error
	Data []string
}

// Reason returns the human-readable rejection cause.
func (r Rejection) Reason() string {
	if r.Err == nil {
		return string(r.Kind)
	}
	return r.Err.Error()
}

// RowOutcome is the result of mapping one row: exactly one of Record or
// Rejection is set.
type RowOutcome struct {
	Record    *POIRecord
	Rejection *Rejection
}

// Accepted reports whether the row produced a record.
func (o RowOutcome) Accepted() bool {
	return o.Record != nil
}

// DecodeAttempt records one candidate encoding tried by the resolver.
type DecodeAttempt struct {
	Encoding string
	Err      error // nil when the candidate was accepted
}

// OK reports whether the attempt succeeded.
func (a DecodeAttempt) OK() bool {
	return a.Err == nil
}

// ConversionResult contains the final result of a conversion run.
type ConversionResult struct {
	RunID      string
	InputPath  string
	OutputPath string
	Shape      string
	Encoding   string
	Attempts   []DecodeAttempt
	Header     []string
	TotalRows  int
	Accepted   int
	Rejections []Rejection
	Columns    []string // Columnar shape only

	InputBytes   int64
	OutputBytes  int64
	DeltaPercent float64

	CompressedPath  string
	CompressedBytes int64

	RejectsPath string
	Duration    time.Duration
}

// Skipped returns the number of rejected data rows.
func (r *ConversionResult) Skipped() int {
	return len(r.Rejections)
}

// RejectionCounts returns the number of rejections per kind.
func (r *ConversionResult) RejectionCounts() map[RejectKind]int {
	counts := make(map[RejectKind]int)
	for _, rej := range r.Rejections {
		counts[rej.Kind]++
	}
	return counts
}

// SizeDelta returns the percentage change from in to out bytes.
// Returns 0 when the input is empty.
func SizeDelta(in, out int64) float64 {
	if in <= 0 {
		return 0
	}
	return float64(out-in) / float64(in) * 100
}
