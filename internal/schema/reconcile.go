package schema

// reference records which tab's declaration is canonical for a column
// name during reconciliation.
type reference struct {
	typ     ColumnType
	tabName string
}

// Reconcile verifies that every column name declared by more than one
// tab has one consistent declared type.
//
// Scan order is deterministic: source tabs in input order, and within
// each tab its columns in declaration order. The first tab to declare
// a name (the primary tab counts as first for all of its columns)
// becomes the reference declaration; every later declaration of the
// same name must match it. The first mismatch found is returned, so a
// conflict between two source tabs reports the earlier source as the
// "used" side.
//
// Returns nil when all shared columns agree. Pure: no side effects,
// inputs are not modified.
func Reconcile(primary Tab, tabs []Tab) *TypeConflictError {
	refs := make(map[string]reference, len(primary.Columns))
	for _, c := range primary.Columns {
		refs[c.Name] = reference{typ: c.Type, tabName: primary.Name}
	}
	for _, tab := range tabs {
		for _, c := range tab.Columns {
			ref, seen := refs[c.Name]
			if !seen {
				refs[c.Name] = reference{typ: c.Type, tabName: tab.Name}
				continue
			}
			if c.Type != ref.typ {
				return &TypeConflictError{
					ColumnName:  c.Name,
					Type:        c.Type,
					TabName:     tab.Name,
					UsedType:    ref.typ,
					UsedTabName: ref.tabName,
				}
			}
		}
	}
	return nil
}

// UnifyColumnOrder computes the output column order: the primary tab's
// columns first in their existing order, then for each source tab in
// input order any of its columns not already present, in that tab's
// declaration order. No sorting or name-based reordering happens.
func UnifyColumnOrder(primary Tab, tabs []Tab) []string {
	seen := make(map[string]bool, len(primary.Columns))
	order := make([]string, 0, len(primary.Columns))
	for _, c := range primary.Columns {
		order = append(order, c.Name)
		seen[c.Name] = true
	}
	for _, tab := range tabs {
		for _, c := range tab.Columns {
			if !seen[c.Name] {
				order = append(order, c.Name)
				seen[c.Name] = true
			}
		}
	}
	return order
}
