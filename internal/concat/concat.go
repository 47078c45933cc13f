package concat

import (
	"fmt"
	"time"

	"github.com/workbenchdata/concattabs/internal/schema"
	"github.com/workbenchdata/concattabs/internal/table"
)

// Options configures a concatenation.
type Options struct {
	// AddSourceColumn enables the provenance column: a leading
	// category column holding, per row, the display name of the tab
	// that contributed the row.
	AddSourceColumn bool

	// SourceColumnName names the provenance column. The host boundary
	// guarantees it is non-empty whenever AddSourceColumn is set; the
	// engine assumes that and does not re-validate.
	SourceColumnName string
}

// Concat stacks the primary tab's rows and each source tab's rows, in
// that order, against the unified column order. Columns absent from a
// tab are filled with missing values for that tab's row span, and each
// output column is promoted to a single physical representation.
//
// On a declared-type conflict the returned error is a
// *schema.TypeConflictError and no table is produced.
func Concat(primary schema.Tab, tabs []schema.Tab, opts Options) (*table.Table, error) {
	if conflict := schema.Reconcile(primary, tabs); conflict != nil {
		return nil, conflict
	}

	all := make([]schema.Tab, 0, len(tabs)+1)
	all = append(all, primary)
	all = append(all, tabs...)

	order := schema.UnifyColumnOrder(primary, tabs)
	cols := make([]table.Column, 0, len(order)+1)
	if opts.AddSourceColumn {
		cols = append(cols, table.Column{Name: opts.SourceColumnName, Data: provenanceSeries(all)})
	}
	for _, name := range order {
		s, err := stackColumn(name, all)
		if err != nil {
			return nil, err
		}
		cols = append(cols, table.Column{Name: name, Data: s})
	}
	return table.New(cols...)
}

// provenanceSeries builds the provenance column: each input tab's
// display name repeated once per row. Dictionary-encoded, with at most
// one dictionary entry per input tab.
func provenanceSeries(all []schema.Tab) *table.CategorySeries {
	var dict []string
	index := make(map[string]int, len(all))
	var codes []int
	for _, tab := range all {
		code, ok := index[tab.Name]
		if !ok {
			code = len(dict)
			dict = append(dict, tab.Name)
			index[tab.Name] = code
		}
		for i := 0; i < tab.Table.NumRows(); i++ {
			codes = append(codes, code)
		}
	}
	return table.NewCategory(dict, codes)
}

// block is one tab's contribution to an output column: either a
// series, or a gap of rows rows when the tab lacks the column.
type block struct {
	rows int
	data table.Series // nil for a gap
}

// stackColumn concatenates one output column across all tabs, deciding
// the target physical representation once from every contributor and
// then building the column in a single pass.
func stackColumn(name string, all []schema.Tab) (table.Series, error) {
	blocks := make([]block, len(all))
	hasGap := false
	var kinds []table.Dtype
	for i, tab := range all {
		b := block{rows: tab.Table.NumRows()}
		if s, ok := tab.Table.Column(name); ok {
			b.data = s
			kinds = append(kinds, s.Dtype())
		} else {
			hasGap = true
		}
		blocks[i] = b
	}

	target, err := promote(name, kinds, hasGap)
	if err != nil {
		return nil, err
	}
	switch target {
	case table.DtypeInt:
		return stackInt(name, blocks)
	case table.DtypeFloat:
		return stackFloat(name, blocks)
	case table.DtypeText:
		return stackText(name, blocks)
	case table.DtypeCategory:
		return stackCategory(name, blocks)
	default:
		return stackTime(name, blocks)
	}
}

// family groups dtypes on which promotion is defined pairwise.
type family int

const (
	familyNumeric family = iota
	familyTextual
	familyTime
)

func familyOf(d table.Dtype) family {
	switch d {
	case table.DtypeInt, table.DtypeFloat:
		return familyNumeric
	case table.DtypeText, table.DtypeCategory:
		return familyTextual
	default:
		return familyTime
	}
}

// promote picks the single output representation for a column from the
// representations its contributors use:
//
//   - numeric: Int only when every contributor is Int and no tab lacks
//     the column; any Float contributor or any gap promotes to Float,
//     since Int has no missing-value slot.
//   - textual: Category only when every contributor is Category and no
//     tab lacks the column; any Text contributor or any gap demotes to
//     plain Text, since the unioned dictionary is not assumed small.
//   - timestamp: always Timestamp; gaps become null entries.
//
// Contributors from different families cannot be stacked. Reconcile
// rules that out for well-formed inputs, so hitting it here means a
// tab violated the declared-vs-physical invariant.
func promote(name string, kinds []table.Dtype, hasGap bool) (table.Dtype, error) {
	fam := familyOf(kinds[0])
	anyFloat := false
	anyText := false
	for _, k := range kinds {
		if familyOf(k) != fam {
			return 0, fmt.Errorf("column %q: cannot stack %s data with %s data", name, kinds[0], k)
		}
		switch k {
		case table.DtypeFloat:
			anyFloat = true
		case table.DtypeText:
			anyText = true
		}
	}
	switch fam {
	case familyNumeric:
		if anyFloat || hasGap {
			return table.DtypeFloat, nil
		}
		return table.DtypeInt, nil
	case familyTextual:
		if anyText || hasGap {
			return table.DtypeText, nil
		}
		return table.DtypeCategory, nil
	default:
		return table.DtypeTimestamp, nil
	}
}

func stackInt(name string, blocks []block) (table.Series, error) {
	var out []int64
	for _, b := range blocks {
		s, ok := b.data.(*table.IntSeries)
		if !ok {
			return nil, fmt.Errorf("column %q: expected int storage, got %s", name, b.data.Dtype())
		}
		for i := 0; i < b.rows; i++ {
			out = append(out, s.Int(i))
		}
	}
	return table.NewInt(out), nil
}

func stackFloat(name string, blocks []block) (table.Series, error) {
	var values []float64
	var valid []bool
	hasNull := false
	for _, b := range blocks {
		switch s := b.data.(type) {
		case nil:
			for i := 0; i < b.rows; i++ {
				values = append(values, 0)
				valid = append(valid, false)
			}
			hasNull = hasNull || b.rows > 0
		case *table.IntSeries:
			for i := 0; i < b.rows; i++ {
				values = append(values, float64(s.Int(i)))
				valid = append(valid, true)
			}
		case *table.FloatSeries:
			for i := 0; i < b.rows; i++ {
				if s.IsNull(i) {
					values = append(values, 0)
					valid = append(valid, false)
					hasNull = true
				} else {
					values = append(values, s.Float(i))
					valid = append(valid, true)
				}
			}
		default:
			return nil, fmt.Errorf("column %q: expected numeric storage, got %s", name, s.Dtype())
		}
	}
	if !hasNull {
		valid = nil
	}
	return table.NewFloatWithNulls(values, valid), nil
}

func stackText(name string, blocks []block) (table.Series, error) {
	var values []string
	var valid []bool
	hasNull := false
	for _, b := range blocks {
		switch s := b.data.(type) {
		case nil:
			for i := 0; i < b.rows; i++ {
				values = append(values, "")
				valid = append(valid, false)
			}
			hasNull = hasNull || b.rows > 0
		case *table.TextSeries, *table.CategorySeries:
			for i := 0; i < b.rows; i++ {
				if s.IsNull(i) {
					values = append(values, "")
					valid = append(valid, false)
					hasNull = true
				} else {
					values = append(values, s.Value(i).(string))
					valid = append(valid, true)
				}
			}
		default:
			return nil, fmt.Errorf("column %q: expected text storage, got %s", name, s.Dtype())
		}
	}
	if !hasNull {
		valid = nil
	}
	return table.NewTextWithNulls(values, valid), nil
}

// stackCategory runs only when every contributor is categorical and no
// tab lacks the column. The output dictionary is the union of the
// contributors' dictionaries in first-seen order, unused entries
// included, so a single-tab stack reproduces its input exactly.
func stackCategory(name string, blocks []block) (table.Series, error) {
	var dict []string
	index := make(map[string]int)
	var codes []int
	for _, b := range blocks {
		s, ok := b.data.(*table.CategorySeries)
		if !ok {
			return nil, fmt.Errorf("column %q: expected category storage, got %s", name, b.data.Dtype())
		}
		for _, v := range s.Categories() {
			if _, seen := index[v]; !seen {
				index[v] = len(dict)
				dict = append(dict, v)
			}
		}
		for i := 0; i < b.rows; i++ {
			if s.IsNull(i) {
				codes = append(codes, -1)
			} else {
				codes = append(codes, index[s.Text(i)])
			}
		}
	}
	return table.NewCategory(dict, codes), nil
}

func stackTime(name string, blocks []block) (table.Series, error) {
	var values []time.Time
	var valid []bool
	hasNull := false
	for _, b := range blocks {
		switch s := b.data.(type) {
		case nil:
			for i := 0; i < b.rows; i++ {
				values = append(values, time.Time{})
				valid = append(valid, false)
			}
			hasNull = hasNull || b.rows > 0
		case *table.TimeSeries:
			for i := 0; i < b.rows; i++ {
				if s.IsNull(i) {
					values = append(values, time.Time{})
					valid = append(valid, false)
					hasNull = true
				} else {
					values = append(values, s.Time(i))
					valid = append(valid, true)
				}
			}
		default:
			return nil, fmt.Errorf("column %q: expected timestamp storage, got %s", name, s.Dtype())
		}
	}
	if !hasNull {
		valid = nil
	}
	return table.NewTimeWithNulls(values, valid), nil
}
