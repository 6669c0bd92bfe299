// Package gate decides whether a pending action may proceed.
//
// Both gates are pure functions over the execution flags plus whatever the
// operator types on the injected reader, so tests drive them with canned
// input streams instead of a terminal.
package gate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmWord is the literal phrase a critical action requires on the second
// gate. A bare "y" never approves a critical action.
const ConfirmWord = "yes-delete"

// Flags are the process-wide execution-mode flags. They are read-only for
// the duration of a run.
type Flags struct {
	// DryRun disables all apply handlers.
	DryRun bool

	// CIMode requires an explicit Force before any apply handler runs.
	CIMode bool

	// Force approves both gates without prompting.
	Force bool

	// YesAll approves the primary gate for non-critical actions.
	YesAll bool
}

// Gate prompts the operator for confirmation of pending actions.
type Gate struct {
	flags Flags
	in    *bufio.Reader
	out   io.Writer
}

// New creates a Gate reading operator responses from in and writing prompts
// to out.
func New(flags Flags, in io.Reader, out io.Writer) *Gate {
	return &Gate{flags: flags, in: bufio.NewReader(in), out: out}
}

// Confirm is the primary gate. Approval order: yesAll covers non-critical
// actions, force covers everything, actions not requiring confirmation pass,
// otherwise the operator is prompted y/N.
func (g *Gate) Confirm(requireConfirm, critical bool) bool {
	if g.flags.YesAll && !critical {
		return true
	}
	if g.flags.Force {
		return true
	}
	if !requireConfirm {
		return true
	}

	fmt.Fprint(g.out, "Proceed? [y/N]: ")
	line, err := g.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// DoubleConfirm is the secondary gate for critical actions. It requires the
// operator to type ConfirmWord exactly. Non-critical actions and forced runs
// skip it.
func (g *Gate) DoubleConfirm(critical bool) bool {
	if !critical {
		return true
	}
	if g.flags.Force {
		return true
	}

	fmt.Fprintf(g.out, "This action is destructive. Type %q to confirm: ", ConfirmWord)
	line, err := g.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(line) == ConfirmWord
}
