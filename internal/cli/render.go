package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/workbenchdata/concattabs/internal/table"
)

// columnJSON is one output column in JSON form.
type columnJSON struct {
	Name   string `json:"name"`
	Dtype  string `json:"dtype"`
	Values []any  `json:"values"`
}

// tableJSON is the JSON form of an output table.
type tableJSON struct {
	Rows    int          `json:"rows"`
	Columns []columnJSON `json:"columns"`
}

// TableJSON converts a table to its JSON payload form. Null cells
// become JSON null; timestamps serialize as RFC 3339.
func TableJSON(t *table.Table) tableJSON {
	out := tableJSON{Rows: t.NumRows(), Columns: make([]columnJSON, t.NumCols())}
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		values := make([]any, col.Data.Len())
		for r := range values {
			values[r] = col.Data.Value(r)
		}
		out.Columns[i] = columnJSON{
			Name:   col.Name,
			Dtype:  col.Data.Dtype().String(),
			Values: values,
		}
	}
	return out
}

// RenderText writes a fixed-width grid: a header of name:dtype pairs,
// one line per row, and a row-count footer. Null cells render empty.
func RenderText(w io.Writer, t *table.Table) error {
	headers := make([]string, t.NumCols())
	widths := make([]int, t.NumCols())
	cells := make([][]string, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		headers[i] = col.Name + ":" + col.Data.Dtype().String()
		widths[i] = len(headers[i])
		cells[i] = make([]string, col.Data.Len())
		for r := 0; r < col.Data.Len(); r++ {
			s := renderCell(col.Data, r)
			cells[i][r] = s
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}

	if err := writeGridLine(w, headers, widths); err != nil {
		return err
	}
	for r := 0; r < t.NumRows(); r++ {
		line := make([]string, t.NumCols())
		for i := range line {
			line[i] = cells[i][r]
		}
		if err := writeGridLine(w, line, widths); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", t.NumRows())
	return err
}

// writeGridLine pads each field to its column width with two spaces
// between columns, trimming trailing blanks.
func writeGridLine(w io.Writer, fields []string, widths []int) error {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(f)
		if i < len(fields)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-len(f)))
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	return err
}

func renderCell(s table.Series, i int) string {
	v := s.Value(i)
	switch v := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
