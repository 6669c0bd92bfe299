package verbs

import (
	"encoding/json"
	"fmt"
)

// settings-set updates one key in the tool settings file. The primary
// confirmation gate runs before the write; the verb is not critical, so the
// second gate is skipped.

func registerSettingsSet(r *Registry, m *Mutator) {
	v := &settingsSet{m: m}
	r.Register("settings-set", v.preview, v.apply)
}

type settingsSet struct {
	m *Mutator
}

func (v *settingsSet) preview(target, absPath string, args []string) error {
	key, value, err := parseKeyValue(args)
	if err != nil {
		return err
	}
	settings, err := v.read(absPath)
	if err != nil {
		return err
	}

	if current, ok := settings[key]; ok {
		fmt.Fprintf(v.m.Out, "%s: %s: %v -> %v\n", target, key, current, value)
	} else {
		fmt.Fprintf(v.m.Out, "%s: %s: (unset) -> %v\n", target, key, value)
	}
	return nil
}

func (v *settingsSet) apply(target, absPath string, args []string) error {
	key, value, err := parseKeyValue(args)
	if err != nil {
		return err
	}

	if !v.m.Gate.Confirm(true, false) {
		return fmt.Errorf("settings-set on %s: %w", target, ErrDeclined)
	}

	settings, err := v.read(absPath)
	if err != nil {
		return err
	}

	v.m.snapshot(absPath)

	settings[key] = value
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	data = append(data, '\n')

	if err := v.m.FS.AtomicWrite(absPath, data, 0644); err != nil {
		return fmt.Errorf("failed to update %s: %w", target, err)
	}
	fmt.Fprintf(v.m.Out, "set %s in %s\n", key, target)
	return nil
}

func (v *settingsSet) read(absPath string) (map[string]any, error) {
	exists, err := v.m.FS.Exists(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check settings file: %w", err)
	}
	if !exists {
		return map[string]any{}, nil
	}
	data, err := v.m.FS.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	settings := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("settings file is not valid JSON: %w", err)
		}
	}
	return settings, nil
}

// parseKeyValue expects exactly two args: key and value. Values that parse
// as JSON scalars (numbers, booleans, null) keep their type; everything else
// stays a string.
func parseKeyValue(args []string) (string, any, error) {
	if len(args) != 2 {
		return "", nil, fmt.Errorf("settings-set requires exactly two arguments: key value")
	}
	key := args[0]
	if key == "" {
		return "", nil, fmt.Errorf("settings key is empty")
	}

	var value any
	if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
		value = args[1]
	}
	return key, value, nil
}
