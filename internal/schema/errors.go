package schema

import (
	"errors"
	"fmt"

	"github.com/workbenchdata/concattabs/internal/i18n"
)

// MessageIDDifferentTypes is the i18n message identifier for a
// declared-type conflict between tabs.
const MessageIDDifferentTypes = "badParam.tabs.differentTypes.message"

// TypeConflictError reports that a column name shared between tabs has
// mismatched declared types. It is deterministic for given inputs and
// never retried; hosts render it to the user via its Message.
//
// The "used" side is the reference declaration: the first tab to
// declare the column, scanning the primary tab first and then the
// source tabs in input order.
type TypeConflictError struct {
	// ColumnName is the shared column with conflicting declarations.
	ColumnName string
	// Type is the declared type in the conflicting tab.
	Type ColumnType
	// TabName is the display name of the conflicting tab.
	TabName string
	// UsedType is the declared type in the reference tab.
	UsedType ColumnType
	// UsedTabName is the display name of the reference tab.
	UsedTabName string
}

// Error implements the error interface with an untranslated rendering.
func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("column %q is %s in tab %q but %s in tab %q",
		e.ColumnName, e.Type, e.TabName, e.UsedType, e.UsedTabName)
}

// Message returns the localizable message value for this conflict.
func (e *TypeConflictError) Message() i18n.Message {
	return i18n.Message{
		ID: MessageIDDifferentTypes,
		Args: map[string]any{
			"column_name":          e.ColumnName,
			"column_type":          string(e.Type),
			"column_tab_name":      e.TabName,
			"used_column_name":     e.ColumnName,
			"used_column_type":     string(e.UsedType),
			"used_column_tab_name": e.UsedTabName,
		},
	}
}

// IsTypeConflict reports whether err is a TypeConflictError.
// Uses errors.As to handle wrapped errors.
func IsTypeConflict(err error) bool {
	var ce *TypeConflictError
	return errors.As(err, &ce)
}
