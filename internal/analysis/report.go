// Package analysis reads the token-estimation report produced by the
// external analyzer and turns it into dispatchable remediation suggestions.
//
// The analyzer itself is a separate tool; this package treats its JSON
// output as an opaque collaborator format and only reads the fields the
// suggestion logic needs.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrReportNotFound indicates no analyzer report exists yet.
var ErrReportNotFound = errors.New("analysis report not found")

// FileUsage is one entry in the analyzer's ranked list of largest files.
type FileUsage struct {
	Path            string `json:"path"`
	EstimatedTokens int    `json:"estimated_tokens"`
	AutoIncluded    bool   `json:"auto_included"`
	Ignored         bool   `json:"ignored"`
}

// Report is the analyzer's output for one project.
type Report struct {
	Root                 string      `json:"root"`
	Budget               int         `json:"budget"`
	TotalEstimatedTokens int         `json:"total_estimated_tokens"`
	Headroom             int         `json:"headroom"`
	LargestFiles         []FileUsage `json:"largest_files"`
	AutoIncludePatterns  []string    `json:"auto_include_patterns"`
}

// LoadReport reads the analyzer report at path.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run the analyzer first)", ErrReportNotFound, path)
		}
		return nil, fmt.Errorf("failed to read analysis report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse analysis report: %w", err)
	}
	return &report, nil
}

// OverBudget reports whether the project exceeds its context budget.
func (r *Report) OverBudget() bool {
	return r.TotalEstimatedTokens > r.Budget
}
