package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	rootFlag         string
	jsonOutput       bool
	dryRunFlag       bool
	ciFlag           bool
	forceFlag        bool
	yesAllFlag       bool
	strictPolicyFlag bool
)

// rootCmd is the root command for ctxctl.
var rootCmd = &cobra.Command{
	Use:     "ctxctl",
	Version: "dev",
	Short:   "Context-budget maintenance for coding-agent projects",
	Long: `ctxctl keeps a project inside its context budget.

It reads the analyzer's token-usage report, suggests remediation actions
(ignore rules, settings changes), and dispatches them through a policy layer
that restricts which verbs may touch which files, snapshots files before
mutation, and requires typed confirmation for destructive actions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion overrides the build version shown by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "Project root directory")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Preview only, never apply")
	rootCmd.PersistentFlags().BoolVar(&ciFlag, "ci", false, "CI mode: require --force before applying (auto-detected from $CI)")
	rootCmd.PersistentFlags().BoolVarP(&forceFlag, "force", "f", false, "Apply without confirmation prompts")
	rootCmd.PersistentFlags().BoolVarP(&yesAllFlag, "yes", "y", false, "Auto-approve non-critical confirmations")
	rootCmd.PersistentFlags().BoolVar(&strictPolicyFlag, "strict-policy", false, "Fail closed when no policy is loaded")

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "actions",
		Title: "Remediation Actions:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspection",
		Title: "Inspection:",
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the ctxctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(os.Stdout, rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	runCmd.GroupID = "actions"
	suggestCmd.GroupID = "actions"
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(suggestCmd)

	policyCmd.GroupID = "inspection"
	backupsCmd.GroupID = "inspection"
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(backupsCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
