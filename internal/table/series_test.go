package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntSeries_NeverNull(t *testing.T) {
	s := NewInt([]int64{1, 2, 3})

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, DtypeInt, s.Dtype())
	for i := 0; i < s.Len(); i++ {
		assert.False(t, s.IsNull(i))
	}
	assert.Equal(t, int64(2), s.Value(1))
}

func TestFloatSeries_NullMask(t *testing.T) {
	s := NewFloatWithNulls([]float64{1.5, 0, 3}, []bool{true, false, true})

	assert.False(t, s.IsNull(0))
	assert.True(t, s.IsNull(1))
	assert.Nil(t, s.Value(1), "null row should read as nil")
	assert.Equal(t, 3.0, s.Value(2))
}

func TestFloatSeries_NilMaskMeansAllValid(t *testing.T) {
	s := NewFloat([]float64{1, 2})
	for i := 0; i < s.Len(); i++ {
		assert.False(t, s.IsNull(i))
	}
}

func TestTextSeries_NullMask(t *testing.T) {
	s := NewTextWithNulls([]string{"a", ""}, []bool{true, false})

	assert.Equal(t, "a", s.Value(0))
	assert.True(t, s.IsNull(1))
	assert.Nil(t, s.Value(1))
}

func TestCategorySeries_FirstSeenDictionary(t *testing.T) {
	s := NewCategoryFromStrings([]string{"b", "a", "b", "a"}, nil)

	assert.Equal(t, []string{"b", "a"}, s.Categories())
	assert.Equal(t, "b", s.Value(0))
	assert.Equal(t, "a", s.Value(3))
}

func TestCategorySeries_NullCode(t *testing.T) {
	s := NewCategory([]string{"x"}, []int{0, -1, 0})

	assert.False(t, s.IsNull(0))
	assert.True(t, s.IsNull(1))
	assert.Nil(t, s.Value(1))
	assert.Equal(t, 3, s.Len())
}

func TestTimeSeries_NullMask(t *testing.T) {
	now := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewTimeWithNulls([]time.Time{now, {}}, []bool{true, false})

	assert.Equal(t, now, s.Value(0))
	assert.True(t, s.IsNull(1))
}

func TestSeriesEqual(t *testing.T) {
	now := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name string
		a, b Series
		want bool
	}{
		{"int equal", NewInt([]int64{1, 2}), NewInt([]int64{1, 2}), true},
		{"int different value", NewInt([]int64{1, 2}), NewInt([]int64{1, 3}), false},
		{"int different length", NewInt([]int64{1}), NewInt([]int64{1, 2}), false},
		{"int vs float", NewInt([]int64{1}), NewFloat([]float64{1}), false},
		{
			"float null equals null",
			NewFloatWithNulls([]float64{0, 2}, []bool{false, true}),
			NewFloatWithNulls([]float64{99, 2}, []bool{false, true}),
			true,
		},
		{
			"float null vs value",
			NewFloatWithNulls([]float64{1, 2}, []bool{false, true}),
			NewFloat([]float64{1, 2}),
			false,
		},
		{"text equal", NewText([]string{"a"}), NewText([]string{"a"}), true},
		{
			"category same values different dictionary order",
			NewCategory([]string{"a", "b"}, []int{0, 1}),
			NewCategory([]string{"b", "a"}, []int{1, 0}),
			false,
		},
		{
			"category equal",
			NewCategoryFromStrings([]string{"a", "b", "a"}, nil),
			NewCategory([]string{"a", "b"}, []int{0, 1, 0}),
			true,
		},
		{"time equal", NewTime([]time.Time{now}), NewTime([]time.Time{now}), true},
		{"time different", NewTime([]time.Time{now}), NewTime([]time.Time{now.Add(time.Hour)}), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Equal(tc.b))
		})
	}
}

func TestDtypeString(t *testing.T) {
	require.Equal(t, "int", DtypeInt.String())
	require.Equal(t, "float", DtypeFloat.String())
	require.Equal(t, "text", DtypeText.String())
	require.Equal(t, "category", DtypeCategory.String())
	require.Equal(t, "timestamp", DtypeTimestamp.String())
}
