// Package schema holds the declared column metadata layer: the
// semantic column types asserted by upstream metadata (number, text,
// timestamp), the source descriptors ("tabs") that pair metadata with
// a physical table, and the reconciliation pass that decides whether a
// set of tabs can be concatenated at all.
//
// Declared types are metadata, never sniffed from values. Reconcile
// compares declarations only; physical representation differences
// within one declared type (int vs float storage of a number column)
// are legal here and resolved later by the concat engine.
package schema
