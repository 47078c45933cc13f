package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workbenchdata/concattabs/internal/schema"
	"github.com/workbenchdata/concattabs/internal/table"
)

// CreateTab stores a new tab at the end of the document's tab order
// and returns its generated slug. The declared columns must satisfy
// the tab invariant against tbl (every declared column physically
// present and vice versa).
func (s *Store) CreateTab(ctx context.Context, name string, cols []schema.Column, tbl *table.Table) (string, error) {
	slug := "tab-" + strings.Split(uuid.NewString(), "-")[0]
	tab := schema.Tab{Slug: slug, Name: name, Columns: cols, Table: tbl}
	if err := tab.Validate(); err != nil {
		return "", fmt.Errorf("create tab: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("create tab: %w", err)
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM tabs`,
	).Scan(&position); err != nil {
		return "", fmt.Errorf("create tab: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tabs (slug, name, position, row_count) VALUES (?, ?, ?, ?)`,
		slug, name, position, tbl.NumRows(),
	); err != nil {
		return "", fmt.Errorf("create tab: %w", err)
	}

	for i, col := range cols {
		data, _ := tbl.Column(col.Name)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tab_columns (tab_slug, position, name, col_type, dtype, format)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			slug, i, col.Name, string(col.Type), data.Dtype().String(), col.Format,
		); err != nil {
			return "", fmt.Errorf("create tab: column %q: %w", col.Name, err)
		}
		if err := writeSeries(ctx, tx, slug, col.Name, data); err != nil {
			return "", fmt.Errorf("create tab: column %q: %w", col.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("create tab: %w", err)
	}
	return slug, nil
}

func writeSeries(ctx context.Context, tx *sql.Tx, slug, colName string, data table.Series) error {
	if cat, ok := data.(*table.CategorySeries); ok {
		for i, v := range cat.Categories() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tab_categories (tab_slug, col_name, position, value) VALUES (?, ?, ?, ?)`,
				slug, colName, i, v,
			); err != nil {
				return err
			}
		}
	}
	for i := 0; i < data.Len(); i++ {
		var value any
		if !data.IsNull(i) {
			value = encodeCell(data, i)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tab_cells (tab_slug, col_name, row, value) VALUES (?, ?, ?, ?)`,
			slug, colName, i, value,
		); err != nil {
			return err
		}
	}
	return nil
}

// encodeCell renders a non-null cell to its text encoding for storage.
func encodeCell(data table.Series, i int) string {
	switch s := data.(type) {
	case *table.IntSeries:
		return strconv.FormatInt(s.Int(i), 10)
	case *table.FloatSeries:
		return strconv.FormatFloat(s.Float(i), 'g', -1, 64)
	case *table.TextSeries:
		return s.Text(i)
	case *table.CategorySeries:
		return s.Text(i)
	default:
		return data.Value(i).(time.Time).Format(time.RFC3339Nano)
	}
}
