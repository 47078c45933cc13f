package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/workbenchdata/concattabs/internal/schema"
	"github.com/workbenchdata/concattabs/internal/table"
)

// ErrTabNotFound is returned by LoadTab for an unknown slug.
var ErrTabNotFound = errors.New("tab not found")

// TabInfo summarizes one stored tab for listings.
type TabInfo struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

// ListTabs returns all tabs in document order.
func (s *Store) ListTabs(ctx context.Context) ([]TabInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.slug, t.name, t.row_count,
		       (SELECT COUNT(*) FROM tab_columns c WHERE c.tab_slug = t.slug)
		FROM tabs t
		ORDER BY t.position
	`)
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}
	defer rows.Close()

	var infos []TabInfo
	for rows.Next() {
		var info TabInfo
		if err := rows.Scan(&info.Slug, &info.Name, &info.Rows, &info.Cols); err != nil {
			return nil, fmt.Errorf("list tabs: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}
	return infos, nil
}

// LoadTab reconstructs a stored tab: declared metadata, column order,
// physical representations and null masks all round-trip exactly.
func (s *Store) LoadTab(ctx context.Context, slug string) (schema.Tab, error) {
	var name string
	var rowCount int
	err := s.db.QueryRowContext(ctx,
		`SELECT name, row_count FROM tabs WHERE slug = ?`, slug,
	).Scan(&name, &rowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Tab{}, fmt.Errorf("load tab %q: %w", slug, ErrTabNotFound)
	}
	if err != nil {
		return schema.Tab{}, fmt.Errorf("load tab %q: %w", slug, err)
	}

	cols, dtypes, err := s.loadColumns(ctx, slug)
	if err != nil {
		return schema.Tab{}, fmt.Errorf("load tab %q: %w", slug, err)
	}

	tableCols := make([]table.Column, len(cols))
	for i, col := range cols {
		data, err := s.loadSeries(ctx, slug, col.Name, dtypes[i], rowCount)
		if err != nil {
			return schema.Tab{}, fmt.Errorf("load tab %q: column %q: %w", slug, col.Name, err)
		}
		tableCols[i] = table.Column{Name: col.Name, Data: data}
	}
	tbl, err := table.New(tableCols...)
	if err != nil {
		return schema.Tab{}, fmt.Errorf("load tab %q: %w", slug, err)
	}
	return schema.Tab{Slug: slug, Name: name, Columns: cols, Table: tbl}, nil
}

func (s *Store) loadColumns(ctx context.Context, slug string) ([]schema.Column, []string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, col_type, dtype, format
		FROM tab_columns
		WHERE tab_slug = ?
		ORDER BY position
	`, slug)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var cols []schema.Column
	var dtypes []string
	for rows.Next() {
		var col schema.Column
		var colType, dtype string
		if err := rows.Scan(&col.Name, &colType, &dtype, &col.Format); err != nil {
			return nil, nil, err
		}
		col.Type = schema.ColumnType(colType)
		if !col.Type.Valid() {
			return nil, nil, fmt.Errorf("column %q: invalid declared type %q", col.Name, colType)
		}
		cols = append(cols, col)
		dtypes = append(dtypes, dtype)
	}
	return cols, dtypes, rows.Err()
}

func (s *Store) loadSeries(ctx context.Context, slug, colName, dtype string, rowCount int) (table.Series, error) {
	values := make([]*string, rowCount)
	rows, err := s.db.QueryContext(ctx, `
		SELECT row, value FROM tab_cells
		WHERE tab_slug = ? AND col_name = ?
		ORDER BY row
	`, slug, colName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var row int
		var value *string
		if err := rows.Scan(&row, &value); err != nil {
			return nil, err
		}
		if row < 0 || row >= rowCount {
			return nil, fmt.Errorf("cell row %d out of range", row)
		}
		values[row] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch dtype {
	case "int":
		return decodeInt(values)
	case "float":
		return decodeFloat(values)
	case "text":
		return decodeText(values), nil
	case "category":
		dict, err := s.loadDictionary(ctx, slug, colName)
		if err != nil {
			return nil, err
		}
		return decodeCategory(dict, values)
	case "timestamp":
		return decodeTime(values)
	default:
		return nil, fmt.Errorf("unknown dtype %q", dtype)
	}
}

func (s *Store) loadDictionary(ctx context.Context, slug, colName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT value FROM tab_categories
		WHERE tab_slug = ? AND col_name = ?
		ORDER BY position
	`, slug, colName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var dict []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		dict = append(dict, v)
	}
	return dict, rows.Err()
}

func decodeInt(cells []*string) (table.Series, error) {
	out := make([]int64, len(cells))
	for i, c := range cells {
		if c == nil {
			return nil, fmt.Errorf("row %d: null in int column", i)
		}
		v, err := strconv.ParseInt(*c, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return table.NewInt(out), nil
}

func decodeFloat(cells []*string) (table.Series, error) {
	out := make([]float64, len(cells))
	valid, hasNull := validityOf(cells)
	for i, c := range cells {
		if c == nil {
			continue
		}
		v, err := strconv.ParseFloat(*c, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	if !hasNull {
		valid = nil
	}
	return table.NewFloatWithNulls(out, valid), nil
}

func decodeText(cells []*string) table.Series {
	out := make([]string, len(cells))
	valid, hasNull := validityOf(cells)
	for i, c := range cells {
		if c != nil {
			out[i] = *c
		}
	}
	if !hasNull {
		valid = nil
	}
	return table.NewTextWithNulls(out, valid)
}

func decodeCategory(dict []string, cells []*string) (table.Series, error) {
	index := make(map[string]int, len(dict))
	for i, v := range dict {
		index[v] = i
	}
	codes := make([]int, len(cells))
	for i, c := range cells {
		if c == nil {
			codes[i] = -1
			continue
		}
		code, ok := index[*c]
		if !ok {
			return nil, fmt.Errorf("row %d: value %q not in dictionary", i, *c)
		}
		codes[i] = code
	}
	return table.NewCategory(dict, codes), nil
}

func decodeTime(cells []*string) (table.Series, error) {
	out := make([]time.Time, len(cells))
	valid, hasNull := validityOf(cells)
	for i, c := range cells {
		if c == nil {
			continue
		}
		v, err := time.Parse(time.RFC3339Nano, *c)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	if !hasNull {
		valid = nil
	}
	return table.NewTimeWithNulls(out, valid), nil
}

func validityOf(cells []*string) ([]bool, bool) {
	valid := make([]bool, len(cells))
	hasNull := false
	for i, c := range cells {
		if c == nil {
			hasNull = true
		} else {
			valid[i] = true
		}
	}
	return valid, hasNull
}
