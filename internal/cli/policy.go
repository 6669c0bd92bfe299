package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Show the loaded policy document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			PrintError(err.Error())
			return err
		}

		doc := a.policy.Document()
		if jsonOutput {
			return outputJSON(doc)
		}

		PrintSection("Policy")
		PrintLabelValue("Source", a.paths.Policy)

		if len(doc.Immutable) == 0 {
			PrintInfo("  No immutable patterns.")
		} else {
			PrintInfo("  Immutable patterns:")
			for _, p := range doc.Immutable {
				PrintInfo(fmt.Sprintf("    %s", p))
			}
		}

		if len(doc.Editable) == 0 {
			PrintInfo("  No per-target verb restrictions.")
			return nil
		}
		PrintInfo("  Verb allowlists:")
		for target, verbs := range doc.Editable {
			if len(verbs) == 0 {
				PrintInfo(fmt.Sprintf("    %s: (all verbs denied)", target))
				continue
			}
			PrintInfo(fmt.Sprintf("    %s: %s", target, strings.Join(verbs, ", ")))
		}
		return nil
	},
}
