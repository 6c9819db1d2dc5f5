package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// requiredLoadColumns must be present in a columnar document for it to load.
var requiredLoadColumns = []string{ColID, ColName, ColCity, ColRank, ColRankInCity, ColLng, ColLat}

// LoadJSON decodes a document in either output shape back into records.
//
// An object with "columns" and "data" is read as columnar; an array is read as
// objects. Columnar documents must carry every column in requiredLoadColumns;
// name_en is optional and defaults to empty.
func LoadJSON(data []byte) ([]POIRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	switch trimmed[0] {
	case '[':
		var records []POIRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode object array: %w", err)
		}
		if records == nil {
			records = []POIRecord{}
		}
		return records, nil
	case '{':
		return loadColumnar(trimmed)
	default:
		return nil, fmt.Errorf("unrecognized document: expected array or object")
	}
}

// LoadJSONFile reads and decodes an output file.
func LoadJSONFile(path string) ([]POIRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadJSON(data)
}

type rawColumnar struct {
	Columns []string            `json:"columns"`
	Data    [][]json.RawMessage `json:"data"`
}

func loadColumnar(data []byte) ([]POIRecord, error) {
	var doc rawColumnar
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode columnar document: %w", err)
	}
	if doc.Columns == nil || doc.Data == nil {
		return nil, fmt.Errorf("columnar document needs both columns and data")
	}

	index := make(map[string]int, len(doc.Columns))
	for i, col := range doc.Columns {
		index[col] = i
	}
	for _, col := range requiredLoadColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("columnar document is missing column %q", col)
		}
	}

	records := make([]POIRecord, 0, len(doc.Data))
	for n, row := range doc.Data {
		if len(row) != len(doc.Columns) {
			return nil, fmt.Errorf("data row %d has %d values, expected %d", n, len(row), len(doc.Columns))
		}
		var rec POIRecord
		for col, i := range index {
			if err := rec.decodeColumn(col, row[i]); err != nil {
				return nil, fmt.Errorf("data row %d column %q: %w", n, col, err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *POIRecord) decodeColumn(column string, raw json.RawMessage) error {
	switch column {
	case ColID:
		return json.Unmarshal(raw, &r.ID)
	case ColName:
		return json.Unmarshal(raw, &r.Name)
	case ColNameEn:
		return json.Unmarshal(raw, &r.NameEn)
	case ColCity:
		return json.Unmarshal(raw, &r.City)
	case ColRank:
		return json.Unmarshal(raw, &r.Rank)
	case ColRankInCity:
		return json.Unmarshal(raw, &r.RankInCity)
	case ColLng:
		return json.Unmarshal(raw, &r.Lng)
	case ColLat:
		return json.Unmarshal(raw, &r.Lat)
	}
	// Unknown columns are ignored.
	return nil
}
