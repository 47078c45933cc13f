package schema

import (
	"fmt"

	"github.com/workbenchdata/concattabs/internal/table"
)

// ColumnType is the declared semantic type of a column. It is asserted
// by upstream metadata and is independent of physical storage.
type ColumnType string

const (
	TypeNumber    ColumnType = "number"
	TypeText      ColumnType = "text"
	TypeTimestamp ColumnType = "timestamp"
)

// Valid reports whether t is one of the three declared types.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeNumber, TypeText, TypeTimestamp:
		return true
	}
	return false
}

// Column is a declared column: a name, a semantic type, and an
// optional display format. Format is carried through concatenation
// unchanged and never interpreted; empty means no format.
type Column struct {
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Format string     `json:"format,omitempty"`
}

// Tab is a source descriptor: one named table contributing rows, with
// its declared column metadata. Columns is in declaration order, which
// must list exactly the physical columns of Table.
type Tab struct {
	// Slug is the permanent tab identifier.
	Slug string
	// Name is the user-visible, user-editable tab name.
	Name string
	// Columns is the declared metadata in declaration order.
	Columns []Column
	// Table holds the tab's data.
	Table *table.Table
}

// ColumnByName returns the declared column with the given name.
func (t Tab) ColumnByName(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Validate checks the tab invariant: every declared column has a valid
// type and corresponds to a physical column, and every physical column
// is declared. Hosts must satisfy this before calling the engine; the
// engine itself does not re-check it.
func (t Tab) Validate() error {
	if t.Table == nil {
		return fmt.Errorf("tab %q: nil table", t.Name)
	}
	declared := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Type.Valid() {
			return fmt.Errorf("tab %q: column %q has invalid type %q", t.Name, c.Name, c.Type)
		}
		if declared[c.Name] {
			return fmt.Errorf("tab %q: column %q declared twice", t.Name, c.Name)
		}
		declared[c.Name] = true
		if _, ok := t.Table.Column(c.Name); !ok {
			return fmt.Errorf("tab %q: declared column %q not present in table", t.Name, c.Name)
		}
	}
	if t.Table.NumCols() != len(t.Columns) {
		for _, name := range t.Table.ColumnNames() {
			if !declared[name] {
				return fmt.Errorf("tab %q: table column %q has no declaration", t.Name, name)
			}
		}
	}
	return nil
}
