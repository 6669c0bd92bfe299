package verbs

import (
	"fmt"
)

// delete removes the target file. It is critical: apply requires the primary
// gate plus the typed confirmation word. The snapshot is a no-op when the
// file is already gone.

func registerDelete(r *Registry, m *Mutator) {
	v := &deleteVerb{m: m}
	r.Register("delete", v.preview, v.apply)
}

type deleteVerb struct {
	m *Mutator
}

func (v *deleteVerb) preview(target, absPath string, args []string) error {
	exists, err := v.m.FS.Exists(absPath)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", target, err)
	}
	if !exists {
		fmt.Fprintf(v.m.Out, "%s: nothing to remove (missing)\n", target)
		return nil
	}
	fmt.Fprintf(v.m.Out, "%s: would remove %s\n", target, absPath)
	return nil
}

func (v *deleteVerb) apply(target, absPath string, args []string) error {
	if !v.m.Gate.Confirm(true, true) {
		return fmt.Errorf("delete of %s: %w", target, ErrDeclined)
	}
	if !v.m.Gate.DoubleConfirm(true) {
		return fmt.Errorf("delete of %s: %w", target, ErrDeclined)
	}

	exists, err := v.m.FS.Exists(absPath)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", target, err)
	}
	if !exists {
		fmt.Fprintf(v.m.Out, "%s already removed\n", target)
		return nil
	}

	v.m.snapshot(absPath)

	if err := v.m.FS.Remove(absPath); err != nil {
		return fmt.Errorf("failed to remove %s: %w", target, err)
	}
	fmt.Fprintf(v.m.Out, "removed %s\n", target)
	return nil
}
