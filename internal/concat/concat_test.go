package concat

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workbenchdata/concattabs/internal/schema"
	"github.com/workbenchdata/concattabs/internal/table"
)

// makeTab pairs declared columns with a physical table. Declaration
// order follows the table's column order.
func makeTab(slug, name string, types map[string]schema.ColumnType, tbl *table.Table) schema.Tab {
	cols := make([]schema.Column, tbl.NumCols())
	for i := 0; i < tbl.NumCols(); i++ {
		colName := tbl.ColumnAt(i).Name
		cols[i] = schema.Column{Name: colName, Type: types[colName], Format: "{}"}
	}
	return schema.Tab{Slug: slug, Name: name, Columns: cols, Table: tbl}
}

func numbers(names ...string) map[string]schema.ColumnType {
	m := make(map[string]schema.ColumnType, len(names))
	for _, n := range names {
		m[n] = schema.TypeNumber
	}
	return m
}

func TestHappyPath(t *testing.T) {
	primary := makeTab("tab-1", "Tab 1", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{1, 2})},
	))
	other := makeTab("tab-2", "Tab 2", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{3, 4})},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{})
	require.NoError(t, err)

	expected := table.MustNew(table.Column{Name: "A", Data: table.NewInt([]int64{1, 2, 3, 4})})
	assert.True(t, result.Equal(expected), "primary rows first, int storage preserved")
}

func TestErrorDifferentTypes(t *testing.T) {
	primary := makeTab("tab-1", "Tab 1", map[string]schema.ColumnType{"A": schema.TypeText}, table.MustNew(
		table.Column{Name: "A", Data: table.NewText([]string{"x", "y"})},
	))
	other := makeTab("tab-2", "Tab 2", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{3, 4})},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{})
	assert.Nil(t, result, "no partial output on conflict")

	var conflict *schema.TypeConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "A", conflict.ColumnName)
	assert.Equal(t, schema.TypeNumber, conflict.Type)
	assert.Equal(t, "Tab 2", conflict.TabName)
	assert.Equal(t, schema.TypeText, conflict.UsedType)
	assert.Equal(t, "Tab 1", conflict.UsedTabName)
}

func TestAllowDifferentColumns(t *testing.T) {
	primary := makeTab("tab-1", "Tab 1", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{1, 2})},
	))
	other := makeTab("tab-2", "Tab 2", numbers("B"), table.MustNew(
		table.Column{Name: "B", Data: table.NewInt([]int64{3, 4})},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{})
	require.NoError(t, err)

	// This tests the ordering of columns, too.
	expected := table.MustNew(
		table.Column{Name: "A", Data: table.NewFloatWithNulls(
			[]float64{1, 2, 0, 0}, []bool{true, true, false, false})},
		table.Column{Name: "B", Data: table.NewFloatWithNulls(
			[]float64{0, 0, 3, 4}, []bool{false, false, true, true})},
	)
	assert.True(t, result.Equal(expected), "gaps become nulls and ints promote to float")
}

func TestAddSourceColumn(t *testing.T) {
	primary := makeTab("tab-1", "Tab 1", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{1, 2})},
	))
	other := makeTab("tab-2", "Tab 2", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{3, 4})},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{
		AddSourceColumn:  true,
		SourceColumnName: "S",
	})
	require.NoError(t, err)

	// Source column comes first.
	require.Equal(t, []string{"S", "A"}, result.ColumnNames())

	s, _ := result.Column("S")
	cat, ok := s.(*table.CategorySeries)
	require.True(t, ok, "provenance column is dictionary-encoded")
	assert.Equal(t, []string{"Tab 1", "Tab 2"}, cat.Categories())
	assert.LessOrEqual(t, len(cat.Categories()), 2, "cardinality bounded by tab count")
	for i, want := range []string{"Tab 1", "Tab 1", "Tab 2", "Tab 2"} {
		assert.Equal(t, want, cat.Value(i))
	}
}

func TestCoerceNumbers(t *testing.T) {
	primary := makeTab("tab-1", "Tab 1", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{1, 2})},
	))
	other := makeTab("tab-2", "Tab 2", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewFloat([]float64{3.3, 4.4})},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{})
	require.NoError(t, err)

	expected := table.MustNew(
		table.Column{Name: "A", Data: table.NewFloat([]float64{1, 2, 3.3, 4.4})},
	)
	assert.True(t, result.Equal(expected), "integral values stay exact after promotion")
}

func TestCoerceCategoriesAndStr(t *testing.T) {
	primary := makeTab("tab-1", "Tab 1", map[string]schema.ColumnType{"A": schema.TypeText}, table.MustNew(
		table.Column{Name: "A", Data: table.NewCategoryFromStrings([]string{"a", "b"}, nil)},
	))
	other := makeTab("tab-2", "Tab 2", map[string]schema.ColumnType{"A": schema.TypeText}, table.MustNew(
		table.Column{Name: "A", Data: table.NewText([]string{"c", "d"})},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{})
	require.NoError(t, err)

	expected := table.MustNew(
		table.Column{Name: "A", Data: table.NewText([]string{"a", "b", "c", "d"})},
	)
	assert.True(t, result.Equal(expected), "category encoding is not retained across a text merge")
}

func TestCategoriesStayCategorical(t *testing.T) {
	// Every contributor is categorical and no tab lacks the column, so
	// the dictionaries union in first-seen order.
	primary := makeTab("tab-1", "Tab 1", map[string]schema.ColumnType{"A": schema.TypeText}, table.MustNew(
		table.Column{Name: "A", Data: table.NewCategoryFromStrings([]string{"a", "b"}, nil)},
	))
	other := makeTab("tab-2", "Tab 2", map[string]schema.ColumnType{"A": schema.TypeText}, table.MustNew(
		table.Column{Name: "A", Data: table.NewCategoryFromStrings([]string{"b", "c"}, nil)},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{})
	require.NoError(t, err)

	s, _ := result.Column("A")
	cat, ok := s.(*table.CategorySeries)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, cat.Categories())
	for i, want := range []string{"a", "b", "b", "c"} {
		assert.Equal(t, want, cat.Value(i))
	}
}

func TestZeroTabsIsNoOp(t *testing.T) {
	now := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	primary := makeTab("tab-1", "Tab 1", map[string]schema.ColumnType{
		"N": schema.TypeNumber,
		"F": schema.TypeNumber,
		"T": schema.TypeText,
		"C": schema.TypeText,
		"W": schema.TypeTimestamp,
	}, table.MustNew(
		table.Column{Name: "N", Data: table.NewInt([]int64{1, 2})},
		table.Column{Name: "F", Data: table.NewFloatWithNulls([]float64{1.5, 0}, []bool{true, false})},
		table.Column{Name: "T", Data: table.NewTextWithNulls([]string{"x", ""}, []bool{true, false})},
		table.Column{Name: "C", Data: table.NewCategoryFromStrings([]string{"a", "a"}, nil)},
		table.Column{Name: "W", Data: table.NewTime([]time.Time{now, now.Add(time.Hour)})},
	))

	result, err := Concat(primary, nil, Options{})
	require.NoError(t, err)
	assert.True(t, result.Equal(primary.Table), "columns, order, values and dtypes all unchanged")
}

func TestStackingOrderIsObservable(t *testing.T) {
	primary := makeTab("tab-1", "Tab 1", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{10})},
	))
	second := makeTab("tab-2", "Tab 2", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{20, 21})},
	))
	third := makeTab("tab-3", "Tab 3", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{30})},
	))

	result, err := Concat(primary, []schema.Tab{second, third}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, result.NumRows(), "row count is the sum of all inputs")
	s, _ := result.Column("A")
	for i, want := range []int64{10, 20, 21, 30} {
		assert.Equal(t, want, s.Value(i), "primary first, then sources in input order")
	}
}

func TestGapWithFloatContributor(t *testing.T) {
	// A is absent from Tab 2 and fractional in Tab 3: one promotion
	// decision covers both the gap and the float contributor.
	primary := makeTab("tab-1", "Tab 1", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{1})},
	))
	second := makeTab("tab-2", "Tab 2", numbers("B"), table.MustNew(
		table.Column{Name: "B", Data: table.NewInt([]int64{7})},
	))
	third := makeTab("tab-3", "Tab 3", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewFloat([]float64{2.5})},
	))

	result, err := Concat(primary, []schema.Tab{second, third}, Options{})
	require.NoError(t, err)

	s, _ := result.Column("A")
	require.Equal(t, table.DtypeFloat, s.Dtype())
	assert.Equal(t, 1.0, s.Value(0))
	assert.Nil(t, s.Value(1))
	assert.Equal(t, 2.5, s.Value(2))
}

func TestTimestampGapFill(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	primary := makeTab("tab-1", "Tab 1", map[string]schema.ColumnType{"W": schema.TypeTimestamp}, table.MustNew(
		table.Column{Name: "W", Data: table.NewTime([]time.Time{now})},
	))
	other := makeTab("tab-2", "Tab 2", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{1})},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{})
	require.NoError(t, err)

	w, _ := result.Column("W")
	require.Equal(t, table.DtypeTimestamp, w.Dtype())
	assert.Equal(t, now, w.Value(0))
	assert.Nil(t, w.Value(1), "gap rows are null timestamps")
}

func TestCategoryWithGapBecomesText(t *testing.T) {
	primary := makeTab("tab-1", "Tab 1", map[string]schema.ColumnType{"A": schema.TypeText}, table.MustNew(
		table.Column{Name: "A", Data: table.NewCategoryFromStrings([]string{"a"}, nil)},
	))
	other := makeTab("tab-2", "Tab 2", numbers("B"), table.MustNew(
		table.Column{Name: "B", Data: table.NewInt([]int64{1})},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{})
	require.NoError(t, err)

	s, _ := result.Column("A")
	require.Equal(t, table.DtypeText, s.Dtype(), "a gap demotes category to text")
	assert.Equal(t, "a", s.Value(0))
	assert.Nil(t, s.Value(1))
}

func TestProvenanceWithDuplicateTabNames(t *testing.T) {
	primary := makeTab("tab-1", "Data", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{1})},
	))
	other := makeTab("tab-2", "Data", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{2})},
	))

	result, err := Concat(primary, []schema.Tab{other}, Options{
		AddSourceColumn:  true,
		SourceColumnName: "S",
	})
	require.NoError(t, err)

	s, _ := result.Column("S")
	cat := s.(*table.CategorySeries)
	assert.Equal(t, []string{"Data"}, cat.Categories(), "shared names share a dictionary entry")
}

func TestProvenanceNameCollisionFails(t *testing.T) {
	primary := makeTab("tab-1", "Tab 1", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{1})},
	))

	_, err := Concat(primary, nil, Options{AddSourceColumn: true, SourceColumnName: "A"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column name")
}

func TestMismatchedPhysicalStorageFails(t *testing.T) {
	// Both tabs declare A as number but one stores text: a tab
	// invariant violation that must surface as an error, not a panic.
	primary := makeTab("tab-1", "Tab 1", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewInt([]int64{1})},
	))
	other := makeTab("tab-2", "Tab 2", numbers("A"), table.MustNew(
		table.Column{Name: "A", Data: table.NewText([]string{"x"})},
	))

	_, err := Concat(primary, []schema.Tab{other}, Options{})
	require.Error(t, err)
	assert.False(t, schema.IsTypeConflict(err))
	assert.Contains(t, err.Error(), "cannot stack")
}
