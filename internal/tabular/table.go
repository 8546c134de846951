// Package tabular holds the in-memory long-format table value shared by the
// deck and report extraction paths. A table is an ordered set of named columns
// over rows of nullable cells; a null cell means "not applicable", which is
// deliberately distinct from a measured zero.
package tabular

import (
	"fmt"
	"strconv"
	"time"
)

type cellKind int

const (
	kindNull cellKind = iota
	kindFloat
	kindInt
	kindString
	kindTime
)

// Cell is a single nullable table value.
type Cell struct {
	kind cellKind
	f    float64
	i    int64
	s    string
	t    time.Time
}

// Null returns the explicit missing marker.
func Null() Cell { return Cell{} }

// Float wraps a float64 value.
func Float(v float64) Cell { return Cell{kind: kindFloat, f: v} }

// Int wraps an integer value.
func Int(v int64) Cell { return Cell{kind: kindInt, i: v} }

// String wraps a string value.
func String(v string) Cell { return Cell{kind: kindString, s: v} }

// Date wraps a calendar date. Only the date part is rendered.
func Date(t time.Time) Cell { return Cell{kind: kindTime, t: t} }

// FloatPtr wraps an optional float; nil becomes the missing marker.
func FloatPtr(v *float64) Cell {
	if v == nil {
		return Null()
	}
	return Float(*v)
}

// IsNull reports whether the cell is the missing marker.
func (c Cell) IsNull() bool { return c.kind == kindNull }

// Float64 returns the numeric value of a float or int cell, and whether the
// cell held one.
func (c Cell) Float64() (float64, bool) {
	switch c.kind {
	case kindFloat:
		return c.f, true
	case kindInt:
		return float64(c.i), true
	}
	return 0, false
}

// String renders the cell for CSV output. Null renders as the empty string.
func (c Cell) String() string {
	switch c.kind {
	case kindFloat:
		return strconv.FormatFloat(c.f, 'g', -1, 64)
	case kindInt:
		return strconv.FormatInt(c.i, 10)
	case kindString:
		return c.s
	case kindTime:
		return c.t.Format("2006-01-02")
	}
	return ""
}

// Table is an ordered list of named columns with rows of cells. Row length
// always equals the column count.
type Table struct {
	columns []string
	rows    [][]Cell
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{columns: append([]string(nil), columns...)}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// IsEmpty reports whether the table holds no rows. A schema-only table is a
// valid result, not an error.
func (t *Table) IsEmpty() bool { return len(t.rows) == 0 }

// Append adds one row. The cell count must match the column count.
func (t *Table) Append(cells ...Cell) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	t.rows = append(t.rows, append([]Cell(nil), cells...))
	return nil
}

// Cell returns the cell at the given row for the named column. Unknown
// columns yield the missing marker.
func (t *Table) Cell(row int, column string) Cell {
	for i, name := range t.columns {
		if name == column {
			return t.rows[row][i]
		}
	}
	return Null()
}

// Row returns one row of cells, in column order.
func (t *Table) Row(i int) []Cell { return t.rows[i] }

// Records renders all rows as strings, ready for a CSV writer.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = c.String()
		}
		out = append(out, rec)
	}
	return out
}

// Concat merges tables row-wise under a union schema. Column order is the
// order of first appearance across the inputs; cells for columns a source
// table lacks are filled with the missing marker, never zero.
func Concat(tables ...*Table) *Table {
	var columns []string
	seen := map[string]bool{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, name := range t.columns {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	out := New(columns...)
	for _, t := range tables {
		if t == nil {
			continue
		}
		// Positions of the source columns in the union schema.
		pos := make([]int, len(t.columns))
		for i, name := range t.columns {
			for j, union := range columns {
				if union == name {
					pos[i] = j
					break
				}
			}
		}
		for _, row := range t.rows {
			cells := make([]Cell, len(columns))
			for i, c := range row {
				cells[pos[i]] = c
			}
			out.rows = append(out.rows, cells)
		}
	}
	return out
}
