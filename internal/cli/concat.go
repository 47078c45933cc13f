package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/workbenchdata/concattabs/internal/concat"
	"github.com/workbenchdata/concattabs/internal/i18n"
	"github.com/workbenchdata/concattabs/internal/schema"
)

// NewConcatCommand creates the concat command.
func NewConcatCommand(rootOpts *RootOptions) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "concat <workflow.cue>",
		Short: "Concatenate a workflow's tabs into one table",
		Long: `Load a workflow file, resolve its tabs, and stack their rows into a
single table. The result is printed as a text grid or as JSON; on a
declared-type conflict the localized conflict message is printed and
the command exits with status 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConcat(rootOpts, args[0], lang, cmd)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "en", "language for user-facing messages (BCP 47)")

	return cmd
}

func runConcat(opts *RootOptions, workflowPath, lang string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	wf, err := LoadWorkflow(cmd.Context(), workflowPath)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded workflow: primary %q plus %d tab(s)", wf.Primary.Name, len(wf.Tabs))

	result, err := concat.Concat(wf.Primary, wf.Tabs, wf.Options)
	if err != nil {
		var conflict *schema.TypeConflictError
		if errors.As(err, &conflict) {
			msg := conflict.Message()
			if outErr := formatter.Error(ErrCodeTypeConflict, i18n.Localize(i18n.MatchLang(lang), msg), msg); outErr != nil {
				return outErr
			}
			return NewExitError(ExitFailure, "declared types differ between tabs")
		}
		if outErr := formatter.Error(ErrCodeConcatFailure, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "concatenation failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(TableJSON(result))
	}
	return RenderText(cmd.OutOrStdout(), result)
}

// reportLoadError prints a loader failure and converts it to a
// command-error exit code.
func reportLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if outErr := formatter.Error(loadErr.Code, loadErr.Message, nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitCommandError, loadErr.Message)
	}
	if outErr := formatter.Error(ErrCodeGeneric, err.Error(), nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, "load failed", err)
}
