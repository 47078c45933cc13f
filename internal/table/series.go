package table

import (
	"time"
)

// Dtype identifies the physical representation of a series.
type Dtype int

const (
	// DtypeInt is a dense int64 representation. It has no null slot;
	// a column that must hold both integers and missing values is
	// promoted to DtypeFloat.
	DtypeInt Dtype = iota
	// DtypeFloat is float64 with a validity mask.
	DtypeFloat
	// DtypeText is free-form strings with a validity mask.
	DtypeText
	// DtypeCategory is dictionary-encoded text: a bounded set of
	// distinct strings plus per-row codes.
	DtypeCategory
	// DtypeTimestamp is time.Time with a validity mask.
	DtypeTimestamp
)

// String returns the dtype name used in diagnostics and JSON output.
func (d Dtype) String() string {
	switch d {
	case DtypeInt:
		return "int"
	case DtypeFloat:
		return "float"
	case DtypeText:
		return "text"
	case DtypeCategory:
		return "category"
	case DtypeTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Series is a sealed interface over the physical column representations.
// Only IntSeries, FloatSeries, TextSeries, CategorySeries and TimeSeries
// implement it.
type Series interface {
	// Len returns the number of rows.
	Len() int
	// Dtype returns the physical representation tag.
	Dtype() Dtype
	// IsNull reports whether row i holds a missing value.
	IsNull(i int) bool
	// Value returns the value at row i as int64, float64, string or
	// time.Time, or nil when the row is null. Category rows decode to
	// their dictionary string.
	Value(i int) any
	// Equal reports whether the other series has the same dtype and
	// identical row values, treating null as equal only to null.
	Equal(other Series) bool

	series() // sealed
}

// IntSeries holds int64 values with no null slot.
type IntSeries struct {
	values []int64
}

// NewInt creates an IntSeries over the given values.
func NewInt(values []int64) *IntSeries {
	return &IntSeries{values: values}
}

func (s *IntSeries) series()         {}
func (s *IntSeries) Len() int        { return len(s.values) }
func (s *IntSeries) Dtype() Dtype    { return DtypeInt }
func (s *IntSeries) IsNull(int) bool { return false }
func (s *IntSeries) Value(i int) any { return s.values[i] }

// Int returns the value at row i.
func (s *IntSeries) Int(i int) int64 { return s.values[i] }

// Equal implements Series.
func (s *IntSeries) Equal(other Series) bool {
	o, ok := other.(*IntSeries)
	if !ok || len(o.values) != len(s.values) {
		return false
	}
	for i, v := range s.values {
		if o.values[i] != v {
			return false
		}
	}
	return true
}

// FloatSeries holds float64 values with a validity mask.
type FloatSeries struct {
	values []float64
	valid  []bool // nil means all rows valid
}

// NewFloat creates a FloatSeries with every row valid.
func NewFloat(values []float64) *FloatSeries {
	return &FloatSeries{values: values}
}

// NewFloatWithNulls creates a FloatSeries with an explicit validity
// mask. valid must be nil or have the same length as values.
func NewFloatWithNulls(values []float64, valid []bool) *FloatSeries {
	return &FloatSeries{values: values, valid: valid}
}

func (s *FloatSeries) series()      {}
func (s *FloatSeries) Len() int     { return len(s.values) }
func (s *FloatSeries) Dtype() Dtype { return DtypeFloat }

func (s *FloatSeries) IsNull(i int) bool {
	return s.valid != nil && !s.valid[i]
}

func (s *FloatSeries) Value(i int) any {
	if s.IsNull(i) {
		return nil
	}
	return s.values[i]
}

// Float returns the value at row i. The result is meaningless when the
// row is null.
func (s *FloatSeries) Float(i int) float64 { return s.values[i] }

// Equal implements Series.
func (s *FloatSeries) Equal(other Series) bool {
	o, ok := other.(*FloatSeries)
	if !ok || o.Len() != s.Len() {
		return false
	}
	for i := range s.values {
		if s.IsNull(i) != o.IsNull(i) {
			return false
		}
		if !s.IsNull(i) && s.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

// TextSeries holds free-form strings with a validity mask.
type TextSeries struct {
	values []string
	valid  []bool // nil means all rows valid
}

// NewText creates a TextSeries with every row valid.
func NewText(values []string) *TextSeries {
	return &TextSeries{values: values}
}

// NewTextWithNulls creates a TextSeries with an explicit validity mask.
func NewTextWithNulls(values []string, valid []bool) *TextSeries {
	return &TextSeries{values: values, valid: valid}
}

func (s *TextSeries) series()      {}
func (s *TextSeries) Len() int     { return len(s.values) }
func (s *TextSeries) Dtype() Dtype { return DtypeText }

func (s *TextSeries) IsNull(i int) bool {
	return s.valid != nil && !s.valid[i]
}

func (s *TextSeries) Value(i int) any {
	if s.IsNull(i) {
		return nil
	}
	return s.values[i]
}

// Text returns the value at row i. The result is meaningless when the
// row is null.
func (s *TextSeries) Text(i int) string { return s.values[i] }

// Equal implements Series.
func (s *TextSeries) Equal(other Series) bool {
	o, ok := other.(*TextSeries)
	if !ok || o.Len() != s.Len() {
		return false
	}
	for i := range s.values {
		if s.IsNull(i) != o.IsNull(i) {
			return false
		}
		if !s.IsNull(i) && s.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

// CategorySeries is dictionary-encoded text. The dictionary holds the
// distinct values in first-seen order; codes index into it, with -1
// marking a null row.
type CategorySeries struct {
	dict  []string
	codes []int
}

// NewCategory creates a CategorySeries from an explicit dictionary and
// codes. Codes must be -1 or a valid dictionary index.
func NewCategory(dict []string, codes []int) *CategorySeries {
	return &CategorySeries{dict: dict, codes: codes}
}

// NewCategoryFromStrings dictionary-encodes values, building the
// dictionary in first-seen order. valid may be nil (all rows valid).
func NewCategoryFromStrings(values []string, valid []bool) *CategorySeries {
	dict := make([]string, 0)
	index := make(map[string]int)
	codes := make([]int, len(values))
	for i, v := range values {
		if valid != nil && !valid[i] {
			codes[i] = -1
			continue
		}
		code, ok := index[v]
		if !ok {
			code = len(dict)
			dict = append(dict, v)
			index[v] = code
		}
		codes[i] = code
	}
	return &CategorySeries{dict: dict, codes: codes}
}

func (s *CategorySeries) series()      {}
func (s *CategorySeries) Len() int     { return len(s.codes) }
func (s *CategorySeries) Dtype() Dtype { return DtypeCategory }

func (s *CategorySeries) IsNull(i int) bool { return s.codes[i] == -1 }

func (s *CategorySeries) Value(i int) any {
	if s.codes[i] == -1 {
		return nil
	}
	return s.dict[s.codes[i]]
}

// Text returns the decoded value at row i. The result is meaningless
// when the row is null.
func (s *CategorySeries) Text(i int) string { return s.dict[s.codes[i]] }

// Categories returns the dictionary in first-seen order. Callers must
// not mutate the returned slice.
func (s *CategorySeries) Categories() []string { return s.dict }

// Equal implements Series. Two category series are equal only when
// their dictionaries match in order as well as their row values, so a
// re-encoded copy with a permuted dictionary compares unequal.
func (s *CategorySeries) Equal(other Series) bool {
	o, ok := other.(*CategorySeries)
	if !ok || len(o.codes) != len(s.codes) || len(o.dict) != len(s.dict) {
		return false
	}
	for i, v := range s.dict {
		if o.dict[i] != v {
			return false
		}
	}
	for i, c := range s.codes {
		if o.codes[i] != c {
			return false
		}
	}
	return true
}

// TimeSeries holds time.Time values with a validity mask.
type TimeSeries struct {
	values []time.Time
	valid  []bool // nil means all rows valid
}

// NewTime creates a TimeSeries with every row valid.
func NewTime(values []time.Time) *TimeSeries {
	return &TimeSeries{values: values}
}

// NewTimeWithNulls creates a TimeSeries with an explicit validity mask.
func NewTimeWithNulls(values []time.Time, valid []bool) *TimeSeries {
	return &TimeSeries{values: values, valid: valid}
}

func (s *TimeSeries) series()      {}
func (s *TimeSeries) Len() int     { return len(s.values) }
func (s *TimeSeries) Dtype() Dtype { return DtypeTimestamp }

func (s *TimeSeries) IsNull(i int) bool {
	return s.valid != nil && !s.valid[i]
}

func (s *TimeSeries) Value(i int) any {
	if s.IsNull(i) {
		return nil
	}
	return s.values[i]
}

// Time returns the value at row i. The result is meaningless when the
// row is null.
func (s *TimeSeries) Time(i int) time.Time { return s.values[i] }

// Equal implements Series.
func (s *TimeSeries) Equal(other Series) bool {
	o, ok := other.(*TimeSeries)
	if !ok || o.Len() != s.Len() {
		return false
	}
	for i := range s.values {
		if s.IsNull(i) != o.IsNull(i) {
			return false
		}
		if !s.IsNull(i) && !s.values[i].Equal(o.values[i]) {
			return false
		}
	}
	return true
}
