package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workbenchdata/concattabs/internal/store"
)

// NewTabsCommand creates the tabs command.
func NewTabsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tabs <store.sqlite>",
		Short:         "List the tabs in a workbench store",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTabs(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTabs(opts *RootOptions, storePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(storePath)
	if err != nil {
		return reportLoadError(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}
	defer st.Close()

	infos, err := st.ListTabs(cmd.Context())
	if err != nil {
		return reportLoadError(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}
	for _, info := range infos {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %q  %d rows, %d cols\n", info.Slug, info.Name, info.Rows, info.Cols)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "(%d tabs)\n", len(infos))
	return nil
}
