package cli

import (
	"encoding/json"
	"os"

	"github.com/contextops/ctxctl/internal/backup"
	"github.com/contextops/ctxctl/internal/clock"
	"github.com/contextops/ctxctl/internal/config"
	"github.com/contextops/ctxctl/internal/dispatch"
	"github.com/contextops/ctxctl/internal/fsops"
	"github.com/contextops/ctxctl/internal/gate"
	"github.com/contextops/ctxctl/internal/policy"
	"github.com/contextops/ctxctl/internal/verbs"
)

// app bundles the wired engine for one command invocation. Everything is
// constructed here and injected; no package holds global state.
type app struct {
	paths      *config.Paths
	policy     *policy.Store
	registry   *verbs.Registry
	dispatcher *dispatch.Dispatcher
	fs         fsops.FS
	flags      gate.Flags
}

// newApp wires the engine with real implementations of all dependencies.
// When loadPolicy is set, a missing or invalid policy document is a fatal
// setup error (distinct exit codes, mapped in main).
func newApp(loadPolicy bool) (*app, error) {
	paths, err := config.ProjectPaths(rootFlag)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	strict := strictPolicyFlag || os.Getenv("CTXCTL_STRICT_POLICY") == "1"
	pol := policy.NewStore(strict)
	if loadPolicy {
		if err := pol.Load(paths.Policy); err != nil {
			return nil, err
		}
	}

	flags := gate.Flags{
		DryRun: dryRunFlag,
		CIMode: ciFlag || os.Getenv("CI") != "",
		Force:  forceFlag,
		YesAll: yesAllFlag,
	}

	fs := fsops.NewRealFS()
	clk := &clock.RealClock{}
	backups := backup.NewManager(fs, clk, paths.Backups)
	g := gate.New(flags, os.Stdin, os.Stdout)

	registry := verbs.NewRegistry()
	verbs.RegisterBuiltins(registry, &verbs.Mutator{
		FS:      fs,
		Backups: backups,
		Gate:    g,
		Out:     os.Stdout,
	})

	return &app{
		paths:      paths,
		policy:     pol,
		registry:   registry,
		dispatcher: dispatch.New(paths.Root, pol, registry, backups, flags, os.Stdout),
		fs:         fs,
		flags:      flags,
	}, nil
}

// outputJSON outputs a value as indented JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
