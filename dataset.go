package eskit

import (
	"math"
	"strconv"
)

//////
// Const, vars, and types.
//////

// Dataset is the tabular-data collaborator consumed by LoadDocuments. Row
// ordering must be stable across calls.
type Dataset interface {
	// Len returns the number of rows.
	Len() int

	// Record converts row i to a field->value record.
	Record(i int) map[string]any

	// Label returns the row label of row i, used as the default document ID.
	Label(i int) string
}

// Table is a column-oriented Dataset: ordered column names with row value
// slices. Labels are optional; when absent the row ordinal is the label.
type Table struct {
	// Columns in row order.
	Columns []string `json:"columns"`

	// Rows of values, one slice per row, positionally matching Columns.
	Rows [][]any `json:"rows"`

	// Labels of the rows, optional.
	Labels []string `json:"labels"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Record converts row i to a field->value record.
func (t *Table) Record(i int) map[string]any {
	row := t.Rows[i]

	record := make(map[string]any, len(t.Columns))

	for j, col := range t.Columns {
		if j < len(row) {
			record[col] = row[j]
		}
	}

	return record
}

// Label returns the row label of row i, defaulting to the row ordinal.
func (t *Table) Label(i int) string {
	if i < len(t.Labels) {
		return t.Labels[i]
	}

	return strconv.Itoa(i)
}

// Records is a row-oriented Dataset: a sequence of ready-made records labeled
// by their ordinal.
type Records []map[string]any

// Len returns the number of rows.
func (r Records) Len() int {
	return len(r)
}

// Record returns row i.
func (r Records) Record(i int) map[string]any {
	return r[i]
}

// Label returns the row ordinal of row i.
func (r Records) Label(i int) string {
	return strconv.Itoa(i)
}

//////
// Internal functionalities.
//////

// chunkBounds returns the [lo, hi) row range of the given chunk.
func chunkBounds(total, size, chunk int) (int, int) {
	lo := chunk * size

	hi := lo + size
	if hi > total {
		hi = total
	}

	return lo, hi
}

// stripMissing returns a copy of the record without missing-value fields.
// Missing values must not be sent to the engine.
func stripMissing(record map[string]any) map[string]any {
	doc := make(map[string]any, len(record))

	for k, v := range record {
		if isMissing(v) {
			continue
		}

		doc[k] = v
	}

	return doc
}

// isMissing reports whether the value is the missing-data sentinel: nil, or a
// floating-point NaN.
func isMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}

	return false
}
