package verbs

import (
	"fmt"
	"io"

	"github.com/contextops/ctxctl/internal/backup"
	"github.com/contextops/ctxctl/internal/fsops"
	"github.com/contextops/ctxctl/internal/gate"
)

// Mutator bundles the collaborators apply handlers need: filesystem access,
// the backup manager, and the confirmation gate. One Mutator is built during
// wiring and shared by all built-in verbs.
type Mutator struct {
	FS      fsops.FS
	Backups *backup.Manager
	Gate    *gate.Gate
	Out     io.Writer
}

// snapshot backs up path before mutation. Backup failures are warnings, not
// errors: they are printed and the action proceeds.
func (m *Mutator) snapshot(path string) {
	res, err := m.Backups.Backup(path)
	if err != nil {
		fmt.Fprintf(m.Out, "warning: %v\n", err)
		return
	}
	if res.Warn != nil {
		fmt.Fprintf(m.Out, "warning: %v\n", res.Warn)
		return
	}
	if res.Created {
		fmt.Fprintf(m.Out, "backed up to %s\n", res.Path)
	}
}

// RegisterBuiltins registers the built-in remediation verbs on r.
func RegisterBuiltins(r *Registry, m *Mutator) {
	registerIgnoreAdd(r, m)
	registerSettingsSet(r, m)
	registerDelete(r, m)
}
