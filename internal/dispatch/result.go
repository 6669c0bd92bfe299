package dispatch

// Outcome is the terminal state of one dispatched action. Every authorized
// action reaches preview; what happens after depends on the execution mode
// and the apply handler.
type Outcome string

const (
	// OutcomeApplied means the apply handler ran and succeeded.
	OutcomeApplied Outcome = "applied"

	// OutcomeSkippedDryRun means apply was withheld because of dry-run.
	OutcomeSkippedDryRun Outcome = "skipped-dry-run"

	// OutcomeSkippedCI means apply was withheld because CI mode requires
	// an explicit force.
	OutcomeSkippedCI Outcome = "skipped-ci"

	// OutcomeFailed means the preview or apply handler returned an error.
	OutcomeFailed Outcome = "failed"
)

// Result describes one completed dispatch call.
type Result struct {
	Target  string  `json:"target"`
	Verb    string  `json:"verb"`
	AbsPath string  `json:"abs_path"`
	Outcome Outcome `json:"outcome"`

	// BackupPath is set when the apply handler snapshotted an existing
	// file before mutating it.
	BackupPath string `json:"backup_path,omitempty"`
}
