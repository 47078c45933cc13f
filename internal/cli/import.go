package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workbenchdata/concattabs/internal/store"
)

// ImportResult reports a newly imported tab.
type ImportResult struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

// String renders the text form of the result.
func (r ImportResult) String() string {
	return fmt.Sprintf("imported %q as %s (%d rows, %d cols)", r.Name, r.Slug, r.Rows, r.Cols)
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "import <store.sqlite> <tab.yaml>",
		Short:         "Import a YAML tab definition into a workbench store",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runImport(opts *RootOptions, storePath, tabPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	tab, err := LoadTabFile(tabPath)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	st, err := store.Open(storePath)
	if err != nil {
		return reportLoadError(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}
	defer st.Close()

	slug, err := st.CreateTab(cmd.Context(), tab.Name, tab.Columns, tab.Table)
	if err != nil {
		return reportLoadError(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}

	return formatter.Success(ImportResult{
		Slug: slug,
		Name: tab.Name,
		Rows: tab.Table.NumRows(),
		Cols: tab.Table.NumCols(),
	})
}
