// Package backup produces timestamped pre-mutation snapshots of files.
//
// Snapshots accumulate under the project's backup directory and are never
// pruned automatically. Backing up is best-effort: a failed copy is surfaced
// as a warning on the Result, not as an error, so remediation is never
// blocked by an unwritable backup directory.
package backup

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/contextops/ctxctl/internal/clock"
	"github.com/contextops/ctxctl/internal/fsops"
)

// stampLayout formats the UTC timestamp embedded in backup names.
// Nanosecond precision keeps repeated backups of the same file distinct.
const stampLayout = "20060102T150405.000000000"

// Result describes the outcome of one Backup call.
type Result struct {
	// Path is the backup file path. Empty when no backup was needed.
	Path string

	// Created reports whether a backup file was actually written.
	Created bool

	// Warn carries a non-fatal copy failure. The action should proceed;
	// callers decide whether to escalate.
	Warn error
}

// Manager copies files into the backup directory before mutation.
type Manager struct {
	fs    fsops.FS
	clock clock.Clock
	dir   string

	last    Result
	hasLast bool
}

// NewManager creates a Manager writing snapshots to dir.
func NewManager(fs fsops.FS, clk clock.Clock, dir string) *Manager {
	return &Manager{fs: fs, clock: clk, dir: dir}
}

// Backup snapshots the file at path into the backup directory, naming the
// copy <basename-without-extension>_<UTC timestamp>Z.bak. A nonexistent path
// is a successful no-op, so deletion and creation verbs need no special
// casing. The returned error is reserved for failures to even determine
// whether the file exists; copy failures arrive via Result.Warn.
func (m *Manager) Backup(path string) (Result, error) {
	exists, err := m.fs.Exists(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !exists {
		res := Result{}
		m.record(res)
		return res, nil
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stamp := m.clock.Now().UTC().Format(stampLayout)
	dest := filepath.Join(m.dir, fmt.Sprintf("%s_%sZ.bak", stem, stamp))

	res := Result{Path: dest}
	if err := m.fs.MkdirAll(m.dir, 0755); err != nil {
		res.Warn = fmt.Errorf("backup of %s skipped: %w", path, err)
		m.record(res)
		return res, nil
	}
	if err := m.fs.Copy(path, dest); err != nil {
		res.Warn = fmt.Errorf("backup of %s failed: %w", path, err)
		m.record(res)
		return res, nil
	}

	res.Created = true
	m.record(res)
	return res, nil
}

func (m *Manager) record(res Result) {
	m.last = res
	m.hasLast = true
}

// Last returns the most recent Backup result since ClearLast. The engine is
// single-threaded, one action at a time, so this is how the dispatcher
// learns which snapshot an apply handler took.
func (m *Manager) Last() (Result, bool) {
	return m.last, m.hasLast
}

// ClearLast resets the last-result marker before a new action runs.
func (m *Manager) ClearLast() {
	m.last = Result{}
	m.hasLast = false
}
