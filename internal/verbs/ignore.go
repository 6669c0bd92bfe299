package verbs

import (
	"fmt"
	"strings"
)

// ignore-add appends patterns to the project's context-ignore file. Adding a
// pattern that is already present is a no-op, so repeated applies converge.

func registerIgnoreAdd(r *Registry, m *Mutator) {
	v := &ignoreAdd{m: m}
	r.Register("ignore-add", v.preview, v.apply)
}

type ignoreAdd struct {
	m *Mutator
}

func (v *ignoreAdd) preview(target, absPath string, args []string) error {
	additions, err := v.missing(absPath, args)
	if err != nil {
		return err
	}
	if len(additions) == 0 {
		fmt.Fprintf(v.m.Out, "%s: all patterns already present\n", target)
		return nil
	}
	fmt.Fprintf(v.m.Out, "%s: would add %d pattern(s):\n", target, len(additions))
	for _, p := range additions {
		fmt.Fprintf(v.m.Out, "  + %s\n", p)
	}
	return nil
}

func (v *ignoreAdd) apply(target, absPath string, args []string) error {
	additions, err := v.missing(absPath, args)
	if err != nil {
		return err
	}
	if len(additions) == 0 {
		return nil
	}

	v.m.snapshot(absPath)

	existing, err := v.read(absPath)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		b.WriteString("\n")
	}
	for _, p := range additions {
		b.WriteString(p)
		b.WriteString("\n")
	}

	if err := v.m.FS.AtomicWrite(absPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to update %s: %w", target, err)
	}
	fmt.Fprintf(v.m.Out, "added %d pattern(s) to %s\n", len(additions), target)
	return nil
}

// missing returns the requested patterns not already present in the file.
func (v *ignoreAdd) missing(absPath string, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("ignore-add requires at least one pattern")
	}

	existing, err := v.read(absPath)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool)
	for _, line := range strings.Split(existing, "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var additions []string
	seen := make(map[string]bool)
	for _, raw := range args {
		p := strings.TrimSpace(raw)
		if p == "" || present[p] || seen[p] {
			continue
		}
		seen[p] = true
		additions = append(additions, p)
	}
	return additions, nil
}

func (v *ignoreAdd) read(absPath string) (string, error) {
	exists, err := v.m.FS.Exists(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to check ignore file: %w", err)
	}
	if !exists {
		return "", nil
	}
	data, err := v.m.FS.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read ignore file: %w", err)
	}
	return string(data), nil
}
