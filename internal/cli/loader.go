package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/workbenchdata/concattabs/internal/concat"
	"github.com/workbenchdata/concattabs/internal/schema"
	"github.com/workbenchdata/concattabs/internal/store"
	"github.com/workbenchdata/concattabs/internal/table"
)

// Error codes reported by the loader and commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNotFound      = "E002" // Workflow or data file not found
	ErrCodeParse         = "E003" // CUE or YAML parse/validation failure
	ErrCodeBadParam      = "E004" // Invalid workflow parameters
	ErrCodeStore         = "E005" // Workbench store error
	ErrCodeTypeConflict  = "E010" // Declared types differ between tabs
	ErrCodeConcatFailure = "E011" // Stacking failure (invariant violation)
)

// LoadError represents an error that occurred during workflow loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// workflowSchema is the CUE definition every workflow file must
// satisfy. A tab reference is either a slug into the workbench store
// or a YAML data file; source_column_name must be non-empty whenever
// add_source_column is set.
const workflowSchema = `
#TabRef: {
	slug?: string & !=""
	file?: string & !=""
}

#Workflow: {
	store?: string & !=""
	primary: #TabRef
	tabs: [...#TabRef] | *[]
	add_source_column: bool | *false
	source_column_name: string | *""
	if add_source_column {
		source_column_name: !=""
	}
}
`

// workflowFile mirrors #Workflow for decoding.
type workflowFile struct {
	Store            string   `json:"store"`
	Primary          tabRef   `json:"primary"`
	Tabs             []tabRef `json:"tabs"`
	AddSourceColumn  bool     `json:"add_source_column"`
	SourceColumnName string   `json:"source_column_name"`
}

type tabRef struct {
	Slug string `json:"slug,omitempty"`
	File string `json:"file,omitempty"`
}

// Workflow is a fully resolved invocation: every tab reference pulled
// into memory, ready for the engine.
type Workflow struct {
	Primary schema.Tab
	Tabs    []schema.Tab
	Options concat.Options
}

// LoadWorkflow reads a CUE workflow file, validates it against the
// embedded schema, and resolves every tab reference (store slugs and
// YAML data files, paths relative to the workflow file).
func LoadWorkflow(ctx context.Context, path string) (*Workflow, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("workflow file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading workflow: %v", err)}
	}

	cuectx := cuecontext.New()
	schemaVal := cuectx.CompileString(workflowSchema)
	if err := schemaVal.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("internal workflow schema: %v", err)}
	}
	fileVal := cuectx.CompileBytes(src, cue.Filename(path))
	if err := fileVal.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing workflow: %v", err)}
	}

	unified := schemaVal.LookupPath(cue.ParsePath("#Workflow")).Unify(fileVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("invalid workflow: %v", err)}
	}

	var wf workflowFile
	if err := unified.Decode(&wf); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("decoding workflow: %v", err)}
	}

	// CUE enforces this too; re-check so the boundary guarantee does
	// not depend on schema evaluation details.
	if wf.AddSourceColumn && wf.SourceColumnName == "" {
		return nil, &LoadError{Code: ErrCodeBadParam, Message: "source_column_name must be non-empty when add_source_column is set"}
	}

	return resolveWorkflow(ctx, filepath.Dir(path), wf)
}

func resolveWorkflow(ctx context.Context, baseDir string, wf workflowFile) (*Workflow, error) {
	var st *store.Store
	if wf.Store != "" {
		var err error
		st, err = store.Open(resolvePath(baseDir, wf.Store))
		if err != nil {
			return nil, &LoadError{Code: ErrCodeStore, Message: fmt.Sprintf("opening store: %v", err)}
		}
		defer st.Close()
	}

	primary, err := resolveTab(ctx, baseDir, st, wf.Primary)
	if err != nil {
		return nil, err
	}
	tabs := make([]schema.Tab, 0, len(wf.Tabs))
	for _, ref := range wf.Tabs {
		tab, err := resolveTab(ctx, baseDir, st, ref)
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, tab)
	}

	return &Workflow{
		Primary: primary,
		Tabs:    tabs,
		Options: concat.Options{
			AddSourceColumn:  wf.AddSourceColumn,
			SourceColumnName: wf.SourceColumnName,
		},
	}, nil
}

func resolveTab(ctx context.Context, baseDir string, st *store.Store, ref tabRef) (schema.Tab, error) {
	switch {
	case ref.Slug != "" && ref.File != "":
		return schema.Tab{}, &LoadError{Code: ErrCodeBadParam, Message: fmt.Sprintf("tab reference has both slug %q and file %q", ref.Slug, ref.File)}
	case ref.Slug != "":
		if st == nil {
			return schema.Tab{}, &LoadError{Code: ErrCodeBadParam, Message: fmt.Sprintf("tab slug %q requires a store", ref.Slug)}
		}
		tab, err := st.LoadTab(ctx, ref.Slug)
		if err != nil {
			return schema.Tab{}, &LoadError{Code: ErrCodeStore, Message: err.Error()}
		}
		return tab, nil
	case ref.File != "":
		return LoadTabFile(resolvePath(baseDir, ref.File))
	default:
		return schema.Tab{}, &LoadError{Code: ErrCodeBadParam, Message: "tab reference needs a slug or a file"}
	}
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// tabYAML mirrors a YAML tab data file.
type tabYAML struct {
	Name    string `yaml:"name"`
	Columns []struct {
		Name   string `yaml:"name"`
		Type   string `yaml:"type"`
		Format string `yaml:"format"`
	} `yaml:"columns"`
	Rows [][]any `yaml:"rows"`
}

// LoadTabFile reads a tab from a YAML data file. Column types are
// declared metadata; cell values are decoded against the declaration.
// A number column is stored as int when every value is integral and
// present, as float otherwise; text and timestamp columns carry a
// null mask.
func LoadTabFile(path string) (schema.Tab, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return schema.Tab{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("tab file not found: %s", path)}
		}
		return schema.Tab{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading tab file: %v", err)}
	}

	var raw tabYAML
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return schema.Tab{}, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	if raw.Name == "" {
		return schema.Tab{}, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("%s: tab has no name", path)}
	}

	cols := make([]schema.Column, len(raw.Columns))
	for i, c := range raw.Columns {
		cols[i] = schema.Column{Name: c.Name, Type: schema.ColumnType(c.Type), Format: c.Format}
	}

	for r, row := range raw.Rows {
		if len(row) != len(cols) {
			return schema.Tab{}, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("%s: row %d has %d values, want %d", path, r, len(row), len(cols))}
		}
	}

	tableCols := make([]table.Column, len(cols))
	for j, col := range cols {
		cells := make([]any, len(raw.Rows))
		for r, row := range raw.Rows {
			cells[r] = row[j]
		}
		data, err := decodeYAMLColumn(col, cells)
		if err != nil {
			return schema.Tab{}, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("%s: column %q: %v", path, col.Name, err)}
		}
		tableCols[j] = table.Column{Name: col.Name, Data: data}
	}

	tbl, err := table.New(tableCols...)
	if err != nil {
		return schema.Tab{}, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	tab := schema.Tab{Slug: "file-" + filepath.Base(path), Name: raw.Name, Columns: cols, Table: tbl}
	if err := tab.Validate(); err != nil {
		return schema.Tab{}, &LoadError{Code: ErrCodeParse, Message: err.Error()}
	}
	return tab, nil
}

func decodeYAMLColumn(col schema.Column, cells []any) (table.Series, error) {
	switch col.Type {
	case schema.TypeNumber:
		return decodeYAMLNumber(cells)
	case schema.TypeText:
		return decodeYAMLText(cells)
	case schema.TypeTimestamp:
		return decodeYAMLTimestamp(cells)
	default:
		return nil, fmt.Errorf("invalid declared type %q", col.Type)
	}
}

func decodeYAMLNumber(cells []any) (table.Series, error) {
	values := make([]float64, len(cells))
	valid := make([]bool, len(cells))
	ints := make([]int64, len(cells))
	allInt := true
	hasNull := false
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
			hasNull = true
		case int:
			ints[i] = int64(v)
			values[i] = float64(v)
			valid[i] = true
		case int64:
			ints[i] = v
			values[i] = float64(v)
			valid[i] = true
		case float64:
			values[i] = v
			valid[i] = true
			allInt = false
		default:
			return nil, fmt.Errorf("row %d: %T is not a number", i, c)
		}
	}
	if allInt && !hasNull {
		return table.NewInt(ints), nil
	}
	if !hasNull {
		valid = nil
	}
	return table.NewFloatWithNulls(values, valid), nil
}

func decodeYAMLText(cells []any) (table.Series, error) {
	values := make([]string, len(cells))
	valid := make([]bool, len(cells))
	hasNull := false
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
			hasNull = true
		case string:
			values[i] = v
			valid[i] = true
		default:
			return nil, fmt.Errorf("row %d: %T is not text", i, c)
		}
	}
	if !hasNull {
		valid = nil
	}
	return table.NewTextWithNulls(values, valid), nil
}

func decodeYAMLTimestamp(cells []any) (table.Series, error) {
	values := make([]time.Time, len(cells))
	valid := make([]bool, len(cells))
	hasNull := false
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
			hasNull = true
		case time.Time:
			values[i] = v
			valid[i] = true
		case string:
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			values[i] = t
			valid[i] = true
		default:
			return nil, fmt.Errorf("row %d: %T is not a timestamp", i, c)
		}
	}
	if !hasNull {
		valid = nil
	}
	return table.NewTimeWithNulls(values, valid), nil
}
