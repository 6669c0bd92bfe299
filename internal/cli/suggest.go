package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/contextops/ctxctl/internal/analysis"
	"github.com/contextops/ctxctl/internal/dispatch"
)

var (
	suggestApply  bool
	suggestReport string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Propose remediation actions from the analyzer report",
	Long: `Read the analyzer's token-usage report and propose verb/target pairs that
would bring the project back under budget.

Proposals are pre-filtered against the policy, so everything suggested is
dispatchable. With --apply, each proposal is dispatched sequentially.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			PrintError(err.Error())
			return err
		}

		reportPath := suggestReport
		if reportPath == "" {
			reportPath = a.paths.Report
		}
		report, err := analysis.LoadReport(reportPath)
		if err != nil {
			PrintError(err.Error())
			return err
		}

		settingsTarget, relErr := filepath.Rel(a.paths.Root, a.paths.Settings)
		if relErr != nil {
			return relErr
		}
		ignoreTarget, relErr := filepath.Rel(a.paths.Root, a.paths.IgnoreFile)
		if relErr != nil {
			return relErr
		}

		suggestions := analysis.Suggest(report, a.policy, a.registry, ignoreTarget, settingsTarget)

		if jsonOutput && !suggestApply {
			if suggestions == nil {
				suggestions = []analysis.Suggestion{}
			}
			return outputJSON(suggestions)
		}

		if !report.OverBudget() {
			PrintSuccess(fmt.Sprintf("Within budget: %d of %d estimated tokens", report.TotalEstimatedTokens, report.Budget))
			return nil
		}

		PrintSection("Suggestions")
		PrintLabelValue("Usage", fmt.Sprintf("%d of %d estimated tokens", report.TotalEstimatedTokens, report.Budget))
		if len(suggestions) == 0 {
			PrintWarning("Over budget, but policy leaves nothing to remediate")
			return nil
		}
		for _, s := range suggestions {
			PrintInfo(fmt.Sprintf("  %s %s %v — %s", s.Verb, s.Target, s.Args, s.Reason))
		}

		if !suggestApply {
			PrintInfo("\nRe-run with --apply to dispatch these actions.")
			return nil
		}

		// Batched dispatch: authorization failures skip the one action and
		// the batch continues; the shared policy document is read-only.
		failed := 0
		for _, s := range suggestions {
			if _, err := a.dispatcher.Dispatch(s.Target, s.Verb, s.Args); err != nil {
				failed++
				if errors.Is(err, dispatch.ErrVerbNotAllowed) || errors.Is(err, dispatch.ErrTargetImmutable) {
					PrintWarning(err.Error())
					continue
				}
				PrintError(err.Error())
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d suggested actions failed", failed, len(suggestions))
		}
		PrintSuccess(fmt.Sprintf("Dispatched %d action(s)", len(suggestions)))
		return nil
	},
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestApply, "apply", false, "Dispatch the suggested actions")
	suggestCmd.Flags().StringVar(&suggestReport, "report", "", "Path to the analyzer report (default: <state-dir>/report.json)")
}
