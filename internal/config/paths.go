// Package config manages the filesystem layout of ctxctl's per-project state.
//
// All tool state lives under a single dot-directory at the project root
// (default .ctxctl/), containing the policy document, tool settings, the
// analyzer report, and the backup directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDirName is the per-project tool-state directory.
const StateDirName = ".ctxctl"

// Paths contains all filesystem paths used by ctxctl for one project.
type Paths struct {
	// Root is the project root directory.
	Root string

	// StateDir is the tool-state directory under Root.
	StateDir string

	// Policy is the path to the policy document.
	Policy string

	// Settings is the path to the tool settings file.
	Settings string

	// Report is the path to the analyzer's report.
	Report string

	// Backups is the directory pre-mutation snapshots are written to.
	Backups string

	// IgnoreFile is the project context-ignore file (lives at the root,
	// not inside StateDir, so editors and the analyzer both see it).
	IgnoreFile string
}

// ProjectPaths returns the paths for the project rooted at root.
// The state directory name can be overridden with CTXCTL_STATE_DIR.
func ProjectPaths(root string) (*Paths, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	stateName := os.Getenv("CTXCTL_STATE_DIR")
	if stateName == "" {
		stateName = StateDirName
	}
	stateDir := filepath.Join(abs, stateName)

	return &Paths{
		Root:       abs,
		StateDir:   stateDir,
		Policy:     filepath.Join(stateDir, "policy.yaml"),
		Settings:   filepath.Join(stateDir, "settings.json"),
		Report:     filepath.Join(stateDir, "report.json"),
		Backups:    filepath.Join(stateDir, "backups"),
		IgnoreFile: filepath.Join(abs, ".ctxignore"),
	}, nil
}

// EnsureDirectories creates the state and backup directories if missing.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.StateDir, p.Backups} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
