package cli

import (
	"github.com/spf13/cobra"

	"github.com/workbenchdata/concattabs/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                      `json:"valid"`
	Conflict *schema.TypeConflictError `json:"conflict,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <workflow.cue>",
		Short: "Check a workflow's tabs for declared-type conflicts",
		Long: `Load a workflow and reconcile its declared column types without
concatenating. Reports ok, or the first conflict in scan order
(sources in input order, columns in declaration order).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, workflowPath string, cmd *cobra.Command) error {
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

	if conflict := schema.Reconcile(wf.Primary, wf.Tabs); conflict != nil {
		if opts.Format == "json" {
			if err := formatter.Success(ValidationResult{Valid: false, Conflict: conflict}); err != nil {
				return err
			}
		} else if err := formatter.Error(ErrCodeTypeConflict, conflict.Error(), nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "declared types differ between tabs")
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	return formatter.Success("ok")
}
