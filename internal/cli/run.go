package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contextops/ctxctl/internal/dispatch"
)

var runCmd = &cobra.Command{
	Use:   "run <verb> <target> [args...]",
	Short: "Dispatch one remediation action",
	Long: `Run a single verb against a target path.

The preview handler always runs so you can see what would happen; whether the
apply handler runs depends on --dry-run, --ci, --force and the policy's verb
allowlist for the target.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			PrintError(err.Error())
			return err
		}

		verb, target := args[0], args[1]
		if err := a.fs.ValidateRelPath(target); err != nil {
			PrintError(err.Error())
			return err
		}

		result, err := a.dispatcher.Dispatch(target, verb, args[2:])
		if err != nil {
			switch {
			case errors.Is(err, dispatch.ErrVerbNotAllowed), errors.Is(err, dispatch.ErrTargetImmutable):
				PrintWarning(err.Error())
			case errors.Is(err, dispatch.ErrVerbNotRegistered):
				PrintError(fmt.Sprintf("%v (registered verbs: %v)", err, a.registry.Names()))
			default:
				PrintError(err.Error())
			}
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		switch result.Outcome {
		case dispatch.OutcomeApplied:
			PrintSuccess(fmt.Sprintf("Applied %q to %s", verb, target))
			if result.BackupPath != "" {
				PrintLabelValue("Backup", result.BackupPath)
			}
		case dispatch.OutcomeSkippedDryRun:
			PrintInfo("Skipped (dry-run)")
		case dispatch.OutcomeSkippedCI:
			PrintWarning("Skipped (CI mode; re-run with --force to apply)")
		}
		return nil
	},
}
