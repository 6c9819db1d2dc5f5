package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/JonMunkholm/poiconv/internal/logging"
)

// Options configures a conversion run.
type Options struct {
	InputPath   string
	OutputPath  string
	Shape       string   // ShapeObjects or ShapeColumnar
	Encodings   []string // Candidate encodings, tried in order
	Columns     []string // Column list for the columnar shape
	RejectsPath string   // Rejected-rows CSV; empty disables it
	Compress    bool     // Also write <output>.zst
	Verify      bool     // Read the output back after writing
}

// Converter turns a POI CSV file into a JSON document.
type Converter struct {
	opts       Options
	shape      ShapeDefinition
	candidates []Candidate
	validator  *RowValidator
}

// NewConverter validates opts and returns a ready converter.
func NewConverter(opts Options) (*Converter, error) {
	if opts.InputPath == "" || opts.OutputPath == "" {
		return nil, fmt.Errorf("input and output paths are required")
	}

	shape, ok := LookupShape(opts.Shape)
	if !ok {
		return nil, fmt.Errorf("unknown output shape %q (known: %v)", opts.Shape, Shapes())
	}

	if len(opts.Encodings) == 0 {
		opts.Encodings = DefaultEncodings
	}
	candidates, err := LookupEncodings(opts.Encodings)
	if err != nil {
		return nil, fmt.Errorf("candidate encodings: %w", err)
	}

	if shape.UsesColumns {
		if len(opts.Columns) == 0 {
			opts.Columns = DefaultColumns
		}
		if err := ValidateColumns(opts.Columns); err != nil {
			return nil, fmt.Errorf("columns: %w", err)
		}
	}

	return &Converter{
		opts:       opts,
		shape:      shape,
		candidates: candidates,
		validator:  NewRowValidator(POIFieldSpecs),
	}, nil
}

// Run performs one conversion. Rejected rows do not fail the run; they are
// reported in the result. Missing input, undecodable input, write failures and
// verification failures are returned as errors.
func (c *Converter) Run(ctx context.Context) (*ConversionResult, error) {
	start := time.Now()
	logger := logging.WithFields(ctx, "input", c.opts.InputPath)

	result := &ConversionResult{
		RunID:      logging.RunIDFromContext(ctx),
		InputPath:  c.opts.InputPath,
		OutputPath: c.opts.OutputPath,
		Shape:      c.shape.Name,
	}

	raw, err := readInput(c.opts.InputPath)
	if err != nil {
		return nil, err
	}
	result.InputBytes = int64(len(raw))

	text, used, attempts, err := ResolveEncoding(raw, c.candidates)
	result.Attempts = attempts
	for _, a := range attempts {
		if a.OK() {
			logger.Info("decoded input", "encoding", a.Encoding)
		} else {
			logger.Warn("decoding failed", "encoding", a.Encoding, "error", a.Err)
		}
	}
	if err != nil {
		return nil, err
	}
	result.Encoding = used

	header, rows := ParseRows(text)
	result.Header = header
	result.TotalRows = len(rows)
	logger.Info("parsed input", "header", header, "rows", len(rows))

	records, rejections := c.validator.MapRows(rows)
	for _, rej := range rejections {
		logger.Warn("row rejected", "line", rej.Line, "kind", rej.Kind, "reason", rej.Reason())
	}
	result.Accepted = len(records)
	result.Rejections = rejections

	var columns []string
	if c.shape.UsesColumns {
		columns = c.opts.Columns
		result.Columns = columns
	}

	data, err := c.shape.Encode(records, columns)
	if err != nil {
		return nil, fmt.Errorf("encode %s output: %w", c.shape.Name, err)
	}

	written, err := WriteOutput(c.opts.OutputPath, data)
	if err != nil {
		return nil, err
	}
	result.OutputBytes = written
	result.DeltaPercent = SizeDelta(result.InputBytes, result.OutputBytes)
	logger.Info("wrote output", "output", c.opts.OutputPath, "records", len(records), "bytes", written)

	if c.opts.Verify {
		if err := VerifyOutput(c.opts.OutputPath, len(records), columns); err != nil {
			return nil, err
		}
		logger.Debug("verified output", "output", c.opts.OutputPath)
	}

	if c.opts.Compress {
		path := CompressedPath(c.opts.OutputPath)
		n, err := WriteCompressed(path, data)
		if err != nil {
			return nil, err
		}
		result.CompressedPath = path
		result.CompressedBytes = n
		logger.Info("wrote compressed output", "path", path, "bytes", n)
	}

	if c.opts.RejectsPath != "" && len(rejections) > 0 {
		if _, err := WriteRejects(c.opts.RejectsPath, header, rejections); err != nil {
			return nil, err
		}
		result.RejectsPath = c.opts.RejectsPath
		logger.Info("wrote rejected rows", "path", c.opts.RejectsPath, "rows", len(rejections))
	}

	result.Duration = time.Since(start)
	return result, nil
}

// VerifyOutput reads the output back and checks it holds want records.
//
// When columns is nil the document is loaded with LoadJSON and ids must be
// 0..want-1. Otherwise it must be a columnar document with exactly those
// columns, every row as wide as the column list, and ids 0..want-1 when the id
// column is present.
func VerifyOutput(path string, want int, columns []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &VerificationError{Path: path, Reason: err.Error()}
	}

	var ids []int
	if columns == nil {
		records, err := LoadJSON(data)
		if err != nil {
			return &VerificationError{Path: path, Reason: err.Error()}
		}
		ids = make([]int, len(records))
		for i, rec := range records {
			ids[i] = rec.ID
		}
	} else {
		ids, err = columnarIDs(data, columns)
		if err != nil {
			return &VerificationError{Path: path, Reason: err.Error()}
		}
	}

	if len(ids) != want {
		return &VerificationError{Path: path, Reason: fmt.Sprintf("read %d records, wrote %d", len(ids), want)}
	}
	for i, id := range ids {
		if id != i {
			return &VerificationError{Path: path, Reason: fmt.Sprintf("record %d has id %d", i, id)}
		}
	}
	return nil
}

// columnarIDs checks a columnar document against columns and returns one id
// per row. Rows are numbered by position when the id column is absent.
func columnarIDs(data []byte, columns []string) ([]int, error) {
	var doc rawColumnar
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode columnar document: %w", err)
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("columnar document has no data")
	}
	if !slices.Equal(doc.Columns, columns) {
		return nil, fmt.Errorf("columns %v, want %v", doc.Columns, columns)
	}

	idIndex := slices.Index(columns, ColID)
	ids := make([]int, len(doc.Data))
	for n, row := range doc.Data {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("data row %d has %d values, expected %d", n, len(row), len(columns))
		}
		if idIndex < 0 {
			ids[n] = n
			continue
		}
		if err := json.Unmarshal(row[idIndex], &ids[n]); err != nil {
			return nil, fmt.Errorf("data row %d column %q: %w", n, ColID, err)
		}
	}
	return ids, nil
}

func readInput(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	return raw, nil
}
