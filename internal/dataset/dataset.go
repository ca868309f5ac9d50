// Package dataset reads the reference dataset produced by training and
// infers the value type of each column the way the training tooling did.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ColumnKind is the inferred value type of a column
type ColumnKind int

const (
	// Empty columns hold no observed value at all.
	Empty ColumnKind = iota
	// Numeric columns hold only numbers, or only boolean literals.
	Numeric
	// Textual columns hold at least one value that is not a number.
	Textual
)

func (k ColumnKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Textual:
		return "textual"
	default:
		return "empty"
	}
}

// missingMarkers are the cell spellings read as a missing value.
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw cell denotes a missing value
func IsMissing(cell string) bool {
	_, ok := missingMarkers[strings.TrimSpace(cell)]
	return ok
}

// ParseNumber parses a non-missing numeric cell.
func ParseNumber(cell string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseBool(cell string) (float64, bool) {
	switch strings.TrimSpace(cell) {
	case "True", "TRUE", "true":
		return 1, true
	case "False", "FALSE", "false":
		return 0, true
	}
	return 0, false
}

// Dataset is an immutable table of raw cells addressed by column name.
type Dataset struct {
	header []string
	rows   [][]string
	index  map[string]int
}

// New builds a dataset from a header and rows of equal width.
func New(header []string, rows [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, errors.New("dataset: header row is empty")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", name)
		}
		index[name] = i
	}

	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("dataset: row %d has %d cells, header has %d", i+1, len(row), len(header))
		}
	}

	return &Dataset{header: header, rows: rows, index: index}, nil
}

// ReadCSV reads a dataset whose first record is the header row.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("dataset: file is empty")
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	return New(header, records[1:])
}

// ReadFile opens and reads a CSV dataset from disk.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.header))
	copy(out, d.header)
	return out
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Has reports whether the dataset has the named column.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Values returns the raw cells of a column in row order.
func (d *Dataset) Values(name string) ([]string, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}

	out := make([]string, len(d.rows))
	for r, row := range d.rows {
		out[r] = row[i]
	}
	return out, true
}

// Kind infers the value type of a column from its non-missing cells.
func (d *Dataset) Kind(name string) ColumnKind {
	cells, ok := d.Values(name)
	if !ok {
		return Empty
	}

	seen, numeric, boolean := 0, true, true
	for _, cell := range cells {
		if IsMissing(cell) {
			continue
		}
		seen++
		if _, ok := ParseNumber(cell); !ok {
			numeric = false
		}
		if _, ok := parseBool(cell); !ok {
			boolean = false
		}
		if !numeric && !boolean {
			return Textual
		}
	}

	if seen == 0 {
		return Empty
	}
	return Numeric
}

// Numbers returns the non-missing values of a numeric column as floats.
func (d *Dataset) Numbers(name string) ([]float64, error) {
	cells, ok := d.Values(name)
	if !ok {
		return nil, fmt.Errorf("dataset: unknown column %q", name)
	}

	out := make([]float64, 0, len(cells))
	for i, cell := range cells {
		if IsMissing(cell) {
			continue
		}
		if f, ok := ParseNumber(cell); ok {
			out = append(out, f)
			continue
		}
		if f, ok := parseBool(cell); ok {
			out = append(out, f)
			continue
		}
		return nil, fmt.Errorf("dataset: column %q row %d: %q is not numeric", name, i+1, cell)
	}
	return out, nil
}
