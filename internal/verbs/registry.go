// Package verbs defines the remediation verbs and the registry that maps
// verb names to their preview and apply handlers.
//
// Every verb has a non-mutating preview handler and a mutating apply
// handler. Preview runs unconditionally on every dispatch; apply runs only
// once the execution mode and the confirmation gate allow it. Apply handlers
// own their own backup and confirmation calls, so each verb declares its own
// criticality.
package verbs

import (
	"errors"
	"sort"
)

// ErrDeclined indicates the operator declined a confirmation prompt.
var ErrDeclined = errors.New("confirmation declined")

// Handler is the uniform signature shared by preview and apply handlers.
// target is the policy-facing identifier, absPath the resolved filesystem
// path, args verb-specific arguments.
type Handler func(target, absPath string, args []string) error

type entry struct {
	preview Handler
	apply   Handler
}

// Registry maps verb names to handler pairs. It is constructed once during
// process wiring and injected into the dispatcher; there is no package-level
// registration.
type Registry struct {
	entries map[string]entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a verb. The last registration for a given name wins.
func (r *Registry) Register(name string, preview, apply Handler) {
	r.entries[name] = entry{preview: preview, apply: apply}
}

// Resolve returns the handler pair for name.
func (r *Registry) Resolve(name string) (preview, apply Handler, found bool) {
	e, ok := r.entries[name]
	return e.preview, e.apply, ok
}

// Names returns the registered verb names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
