package analysis

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"

	"github.com/contextops/ctxctl/internal/policy"
	"github.com/contextops/ctxctl/internal/verbs"
)

// maxIgnoreSuggestions caps how many files one suggestion pass proposes
// ignoring; the operator can re-run after applying.
const maxIgnoreSuggestions = 5

// Suggestion is a proposed verb/target pair plus the reason it was chosen.
type Suggestion struct {
	Verb   string   `json:"verb"`
	Target string   `json:"target"`
	Args   []string `json:"args"`
	Reason string   `json:"reason"`
}

// Suggest builds remediation proposals from the report. Every proposal is
// pre-filtered against the policy store and the verb registry, so a
// suggestion is always dispatchable: suggest never proposes a verb/target
// pair the dispatcher would reject.
func Suggest(report *Report, pol *policy.Store, reg *verbs.Registry, ignoreTarget, settingsTarget string) []Suggestion {
	if !report.OverBudget() {
		return nil
	}

	var suggestions []Suggestion
	if authorized(pol, reg, ignoreTarget, "ignore-add") {
		count := 0
		for _, f := range report.LargestFiles {
			if f.AutoIncluded || f.Ignored {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				Verb:   "ignore-add",
				Target: ignoreTarget,
				Args:   []string{f.Path},
				Reason: fmt.Sprintf("%s is ~%d tokens and not auto-included", f.Path, f.EstimatedTokens),
			})
			count++
			if count == maxIgnoreSuggestions {
				break
			}
		}
	}

	// When nothing can be ignored, the only remediation left is raising
	// the budget itself.
	if len(suggestions) == 0 && authorized(pol, reg, settingsTarget, "settings-set") {
		suggestions = append(suggestions, Suggestion{
			Verb:   "settings-set",
			Target: settingsTarget,
			Args:   []string{"budget", strconv.Itoa(report.TotalEstimatedTokens)},
			Reason: fmt.Sprintf("no ignorable files found; usage is %d against a budget of %d", report.TotalEstimatedTokens, report.Budget),
		})
	}

	return suggestions
}

func authorized(pol *policy.Store, reg *verbs.Registry, target, verb string) bool {
	// Same canonical form the dispatcher authorizes against.
	target = path.Clean(filepath.ToSlash(target))
	if _, _, found := reg.Resolve(verb); !found {
		return false
	}
	if pol.IsImmutable(target) {
		return false
	}
	if allowed, present := pol.AllowedVerbs(target); present {
		for _, v := range allowed {
			if v == verb {
				return true
			}
		}
		return false
	}
	return true
}
