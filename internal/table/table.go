package table

import (
	"fmt"
)

// Column pairs a name with its physical series.
type Column struct {
	Name string
	Data Series
}

// Table is an ordered sequence of named columns of equal length.
// Column order is significant and preserved exactly as constructed.
type Table struct {
	cols   []Column
	byName map[string]int
}

// New creates a Table from columns. Column names must be unique and
// non-empty, and all series must have the same length.
func New(cols ...Column) (*Table, error) {
	byName := make(map[string]int, len(cols))
	rows := -1
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has empty name", i)
		}
		if _, dup := byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		if c.Data == nil {
			return nil, fmt.Errorf("column %q has nil series", c.Name)
		}
		if rows == -1 {
			rows = c.Data.Len()
		} else if c.Data.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Data.Len(), rows)
		}
		byName[c.Name] = i
	}
	return &Table{cols: cols, byName: byName}, nil
}

// MustNew is New for statically-known-good inputs; it panics on error.
// Intended for tests and fixtures.
func MustNew(cols ...Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count. A table with no columns has zero rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Data.Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the series for name, or false when absent.
func (t *Table) Column(name string) (Series, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cols[i].Data, true
}

// ColumnAt returns the column at position i in table order.
func (t *Table) ColumnAt(i int) Column { return t.cols[i] }

// Equal reports whether o has the same columns in the same order with
// equal series, including physical representation.
func (t *Table) Equal(o *Table) bool {
	if o == nil || len(o.cols) != len(t.cols) {
		return false
	}
	for i, c := range t.cols {
		if o.cols[i].Name != c.Name || !c.Data.Equal(o.cols[i].Data) {
			return false
		}
	}
	return true
}
