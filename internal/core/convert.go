package core

// convert.go provides type conversion functions for CSV cells.
//
// Text cells are trimmed. Numeric cells tolerate surrounding whitespace but
// nothing else: no thousands separators, no units. An exactly-empty rank cell
// is zero; any other unparseable value is an error.

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errEmptyNumber  = errors.New("empty value")
	errNotFinite    = errors.New("value is not finite")
	errNotAnInteger = errors.New("not an integer")
)

// ToText trims surrounding whitespace from a cell.
func ToText(s string) string {
	return strings.TrimSpace(s)
}

// ToFloat converts a cell to a finite float64.
func ToFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyNumber
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

// ToInt converts a cell to an int. When allowEmpty is set, an exactly-empty
// cell is 0; a whitespace-only cell is still an error.
func ToInt(s string, allowEmpty bool) (int, error) {
	if s == "" {
		if allowEmpty {
			return 0, nil
		}
		return 0, errEmptyNumber
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrSyntax) {
			return 0, errNotAnInteger
		}
		return 0, err
	}
	return i, nil
}
