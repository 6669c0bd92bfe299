// Package dispatch orchestrates one policy-gated action invocation
// end-to-end: authorize against the policy store, resolve the verb's
// handlers, always run preview, then run apply subject to the execution
// mode.
//
// The engine is single-threaded and synchronous: one action at a time, no
// background work. A batch of actions reuses one Dispatcher (and therefore
// one loaded policy document) across sequential Dispatch calls.
package dispatch

import (
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/contextops/ctxctl/internal/backup"
	"github.com/contextops/ctxctl/internal/gate"
	"github.com/contextops/ctxctl/internal/policy"
	"github.com/contextops/ctxctl/internal/verbs"
)

// Dispatcher runs actions through the authorize → preview → apply pipeline.
type Dispatcher struct {
	root     string
	policy   *policy.Store
	registry *verbs.Registry
	backups  *backup.Manager
	flags    gate.Flags
	out      io.Writer
}

// New creates a Dispatcher for the project rooted at root. All collaborators
// are injected; the Dispatcher holds no global state.
func New(root string, pol *policy.Store, reg *verbs.Registry, backups *backup.Manager, flags gate.Flags, out io.Writer) *Dispatcher {
	return &Dispatcher{
		root:     root,
		policy:   pol,
		registry: reg,
		backups:  backups,
		flags:    flags,
		out:      out,
	}
}

// Dispatch runs one action. Preview always runs for authorized actions, even
// in dry-run and CI mode, so the operator can see what would happen. Apply
// errors propagate verbatim; there is no retry, since apply actions are not
// assumed idempotent.
func (d *Dispatcher) Dispatch(target, verb string, args []string) (*Result, error) {
	// Policy entries are keyed by canonical relative paths, so equivalent
	// spellings (./x, a/../x) must collapse to the same form before any
	// authorization check.
	target = path.Clean(filepath.ToSlash(target))
	absPath := target
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(d.root, filepath.FromSlash(target))
	}
	result := &Result{Target: target, Verb: verb, AbsPath: absPath}

	if d.policy.IsImmutable(target) {
		result.Outcome = OutcomeFailed
		return result, fmt.Errorf("%w: %s", ErrTargetImmutable, target)
	}
	if allowed, present := d.policy.AllowedVerbs(target); present && !contains(allowed, verb) {
		result.Outcome = OutcomeFailed
		return result, fmt.Errorf("%w: %q on %s (allowed: %v)", ErrVerbNotAllowed, verb, target, allowed)
	}

	preview, apply, found := d.registry.Resolve(verb)
	if !found {
		result.Outcome = OutcomeFailed
		return result, fmt.Errorf("%w: %q", ErrVerbNotRegistered, verb)
	}

	if err := preview(target, absPath, args); err != nil {
		result.Outcome = OutcomeFailed
		return result, fmt.Errorf("preview of %q on %s failed: %w", verb, target, err)
	}

	if d.flags.DryRun {
		result.Outcome = OutcomeSkippedDryRun
		fmt.Fprintf(d.out, "dry-run: skipped apply of %q on %s\n", verb, target)
		return result, nil
	}
	if d.flags.CIMode && !d.flags.Force {
		result.Outcome = OutcomeSkippedCI
		fmt.Fprintf(d.out, "ci: skipped apply of %q on %s (re-run with --force to apply)\n", verb, target)
		return result, nil
	}

	d.backups.ClearLast()
	if err := apply(target, absPath, args); err != nil {
		result.Outcome = OutcomeFailed
		d.recordBackup(result)
		return result, err
	}

	result.Outcome = OutcomeApplied
	d.recordBackup(result)
	return result, nil
}

// recordBackup notes the snapshot the apply handler took, if any. Safe here
// because dispatch is strictly one action at a time.
func (d *Dispatcher) recordBackup(result *Result) {
	if res, ok := d.backups.Last(); ok && res.Created {
		result.BackupPath = res.Path
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
