// Package table implements the physical table model: ordered named
// columns of equal length, each backed by one of a closed set of
// physical representations (series).
//
// The physical representation of a column (int, float, text, category,
// timestamp) is deliberately a different type system from the declared
// semantic column type in package schema. Two columns can share a
// declared type and still differ physically; reconciling that is the
// concat engine's job, not this package's.
//
// Missing values are explicit: every series except IntSeries carries a
// validity mask. IntSeries cannot represent a missing value at all,
// which is what forces the int-to-float promotion during concatenation.
package table
