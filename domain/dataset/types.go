package dataset

import (
	"strconv"
	"strings"
	"time"
)

// ColumnType classifies how a column's values are treated downstream.
type ColumnType string

const (
	ColumnNumeric     ColumnType = "numeric"
	ColumnCategorical ColumnType = "categorical"
	ColumnText        ColumnType = "text"
)

// Record is one uploaded row: raw cell text keyed by column name.
// An absent key and an empty string both mean a missing cell.
type Record map[string]string

// Dataset is the full ordered sequence of records parsed from one
// uploaded file. It is immutable after construction; every derived view
// (table pages, profiles, chart aggregates, query answers) is recomputed
// from it on demand. Position in Records is the only record identity.
type Dataset struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Headers    []string              `json:"headers"`
	Types      map[string]ColumnType `json:"types"`
	Records    []Record              `json:"-"`
	UploadedAt time.Time             `json:"uploadedAt"`
}

// RowCount returns the number of data rows.
func (d *Dataset) RowCount() int { return len(d.Records) }

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int { return len(d.Headers) }

// HasColumn reports whether name is one of the dataset's headers.
func (d *Dataset) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// TypeOf returns the inferred type of a column, defaulting to text for
// unknown names.
func (d *Dataset) TypeOf(name string) ColumnType {
	if t, ok := d.Types[name]; ok {
		return t
	}
	return ColumnText
}

// Column returns the raw cell values of a column in row order. Missing
// cells come back as empty strings so indices stay aligned with rows.
func (d *Dataset) Column(name string) []string {
	values := make([]string, len(d.Records))
	for i, rec := range d.Records {
		values[i] = rec[name]
	}
	return values
}

// Numeric returns the parseable numeric values of a column in row
// order. Cells that do not parse are skipped.
func (d *Dataset) Numeric(name string) []float64 {
	values := make([]float64, 0, len(d.Records))
	for _, rec := range d.Records {
		if v, ok := ParseNumber(rec[name]); ok {
			values = append(values, v)
		}
	}
	return values
}

// ColumnsOfType returns the headers with the given inferred type, in
// header order.
func (d *Dataset) ColumnsOfType(t ColumnType) []string {
	var cols []string
	for _, h := range d.Headers {
		if d.TypeOf(h) == t {
			cols = append(cols, h)
		}
	}
	return cols
}

// NumericColumns returns the numeric headers in header order.
func (d *Dataset) NumericColumns() []string { return d.ColumnsOfType(ColumnNumeric) }

// ParseNumber applies the dataset's only coercion rule: try to parse
// the cell as a number. Surrounding whitespace, thousands separators,
// a leading currency sign, and a trailing percent sign are tolerated.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
