// Package concat implements the row-concatenation engine.
//
// Given one primary tab and zero or more source tabs, Concat produces
// a single table whose rows are all input rows stacked top to bottom:
// the primary tab's rows first, then each source tab's rows in input
// order. Columns are the union of all input columns; a tab that lacks
// a column contributes a run of missing values for its row span.
//
// The engine is a pure, single-pass, in-memory transformation. It
// holds no state between calls, performs no I/O, and either returns a
// fresh output table or a structured error; there is never a partial
// result.
//
// Declared-type validation happens first (schema.Reconcile); dtype
// promotion is defined only within one declared type family, so a
// cross-family stack fails loudly before any stacking occurs.
package concat
