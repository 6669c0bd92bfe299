package dispatch

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/contextops/ctxctl/internal/backup"
	"github.com/contextops/ctxctl/internal/clock"
	"github.com/contextops/ctxctl/internal/fsops"
	"github.com/contextops/ctxctl/internal/gate"
	"github.com/contextops/ctxctl/internal/policy"
	"github.com/contextops/ctxctl/internal/verbs"
)

// recordingVerb counts handler invocations so tests can assert which stages
// of the pipeline ran.
type recordingVerb struct {
	previews int
	applies  int
	applyErr error
}

func (r *recordingVerb) preview(target, absPath string, args []string) error {
	r.previews++
	return nil
}

func (r *recordingVerb) apply(target, absPath string, args []string) error {
	r.applies++
	return r.applyErr
}

type fixture struct {
	dispatcher *Dispatcher
	verb       *recordingVerb
	backups    *backup.Manager
	root       string
}

func newFixture(t *testing.T, policyYAML string, flags gate.Flags) *fixture {
	t.Helper()
	root := t.TempDir()

	pol := policy.NewStore(false)
	if policyYAML != "" {
		path := filepath.Join(root, "policy.yaml")
		if err := os.WriteFile(path, []byte(policyYAML), 0644); err != nil {
			t.Fatal(err)
		}
		if err := pol.Load(path); err != nil {
			t.Fatalf("failed to load policy: %v", err)
		}
	}

	v := &recordingVerb{}
	reg := verbs.NewRegistry()
	reg.Register("edit", v.preview, v.apply)

	clk := clock.NewFakeClock(time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC))
	backups := backup.NewManager(fsops.NewRealFS(), clk, filepath.Join(root, "backups"))

	return &fixture{
		dispatcher: New(root, pol, reg, backups, flags, &bytes.Buffer{}),
		verb:       v,
		backups:    backups,
		root:       root,
	}
}

func TestDispatch_VerbNotInExplicitListNeverApplies(t *testing.T) {
	f := newFixture(t, "editable:\n  config.json: [edit]\n", gate.Flags{})

	result, err := f.dispatcher.Dispatch("config.json", "delete", nil)
	if !errors.Is(err, ErrVerbNotAllowed) {
		t.Fatalf("expected ErrVerbNotAllowed, got %v", err)
	}
	if result.Outcome != OutcomeFailed {
		t.Errorf("outcome = %s, want %s", result.Outcome, OutcomeFailed)
	}
	if f.verb.previews != 0 || f.verb.applies != 0 {
		t.Errorf("unauthorized dispatch must have no side effects: previews=%d applies=%d", f.verb.previews, f.verb.applies)
	}
}

func TestDispatch_EmptyAllowlistDeniesAllVerbs(t *testing.T) {
	f := newFixture(t, "editable:\n  locked.json: []\n", gate.Flags{})

	_, err := f.dispatcher.Dispatch("locked.json", "edit", nil)
	if !errors.Is(err, ErrVerbNotAllowed) {
		t.Fatalf("expected ErrVerbNotAllowed, got %v", err)
	}
}

func TestDispatch_AbsentTargetIsUnrestricted(t *testing.T) {
	f := newFixture(t, "editable:\n  config.json: [edit]\n", gate.Flags{})

	result, err := f.dispatcher.Dispatch("other.json", "edit", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeApplied {
		t.Errorf("outcome = %s, want %s", result.Outcome, OutcomeApplied)
	}
	if f.verb.previews != 1 || f.verb.applies != 1 {
		t.Errorf("previews=%d applies=%d, want 1/1", f.verb.previews, f.verb.applies)
	}
}

func TestDispatch_ImmutableTargetIsRejected(t *testing.T) {
	f := newFixture(t, "immutable: [\"generated/\"]\n", gate.Flags{})

	_, err := f.dispatcher.Dispatch("generated/out.json", "edit", nil)
	if !errors.Is(err, ErrTargetImmutable) {
		t.Fatalf("expected ErrTargetImmutable, got %v", err)
	}
	if f.verb.previews != 0 {
		t.Error("immutable target must not reach preview")
	}
}

func TestDispatch_EquivalentSpellingsCannotBypassImmutable(t *testing.T) {
	f := newFixture(t, "immutable: [\"generated/\"]\n", gate.Flags{})

	spellings := []string{
		"generated/out.json",
		"./generated/out.json",
		"x/../generated/out.json",
		"generated/./out.json",
		"generated//out.json",
	}
	for _, target := range spellings {
		result, err := f.dispatcher.Dispatch(target, "edit", nil)
		if !errors.Is(err, ErrTargetImmutable) {
			t.Errorf("Dispatch(%q) err = %v, want ErrTargetImmutable", target, err)
		}
		if result.Outcome != OutcomeFailed {
			t.Errorf("Dispatch(%q) outcome = %s, want %s", target, result.Outcome, OutcomeFailed)
		}
	}
	if f.verb.previews != 0 || f.verb.applies != 0 {
		t.Errorf("no spelling may reach the handlers: previews=%d applies=%d", f.verb.previews, f.verb.applies)
	}
}

func TestDispatch_EquivalentSpellingsCannotBypassAllowlist(t *testing.T) {
	f := newFixture(t, "editable:\n  config.json: [edit]\n", gate.Flags{})

	for _, target := range []string{"./config.json", "x/../config.json"} {
		_, err := f.dispatcher.Dispatch(target, "delete", nil)
		if !errors.Is(err, ErrVerbNotAllowed) {
			t.Errorf("Dispatch(%q, delete) err = %v, want ErrVerbNotAllowed", target, err)
		}
	}
	if f.verb.applies != 0 {
		t.Errorf("applies = %d, want 0", f.verb.applies)
	}
}

func TestDispatch_NormalizesTargetInResult(t *testing.T) {
	f := newFixture(t, "", gate.Flags{})

	result, err := f.dispatcher.Dispatch("./config.json", "edit", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Target != "config.json" {
		t.Errorf("Target = %q, want canonical %q", result.Target, "config.json")
	}
	if result.AbsPath != filepath.Join(f.root, "config.json") {
		t.Errorf("AbsPath = %q, want %q", result.AbsPath, filepath.Join(f.root, "config.json"))
	}
}

func TestDispatch_UnregisteredVerb(t *testing.T) {
	f := newFixture(t, "", gate.Flags{})

	_, err := f.dispatcher.Dispatch("config.json", "nope", nil)
	if !errors.Is(err, ErrVerbNotRegistered) {
		t.Fatalf("expected ErrVerbNotRegistered, got %v", err)
	}
	// Distinct from authorization failures.
	if errors.Is(err, ErrVerbNotAllowed) {
		t.Error("registration errors must not read as authorization errors")
	}
}

func TestDispatch_DryRunPreviewsButNeverApplies(t *testing.T) {
	f := newFixture(t, "", gate.Flags{DryRun: true, Force: true, YesAll: true})

	result, err := f.dispatcher.Dispatch("config.json", "edit", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeSkippedDryRun {
		t.Errorf("outcome = %s, want %s", result.Outcome, OutcomeSkippedDryRun)
	}
	if f.verb.previews != 1 {
		t.Error("preview must run even in dry-run")
	}
	if f.verb.applies != 0 {
		t.Error("dry-run must never invoke apply, regardless of other flags")
	}
}

func TestDispatch_CIModeRequiresForce(t *testing.T) {
	f := newFixture(t, "", gate.Flags{CIMode: true})
	result, err := f.dispatcher.Dispatch("config.json", "edit", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeSkippedCI {
		t.Errorf("outcome = %s, want %s", result.Outcome, OutcomeSkippedCI)
	}
	if f.verb.previews != 1 || f.verb.applies != 0 {
		t.Errorf("ci without force: previews=%d applies=%d, want 1/0", f.verb.previews, f.verb.applies)
	}

	forced := newFixture(t, "", gate.Flags{CIMode: true, Force: true})
	result, err = forced.dispatcher.Dispatch("config.json", "edit", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeApplied {
		t.Errorf("ci with force: outcome = %s, want %s", result.Outcome, OutcomeApplied)
	}
	if forced.verb.applies != 1 {
		t.Error("ci with force must invoke apply")
	}
}

func TestDispatch_ApplyErrorPropagatesVerbatim(t *testing.T) {
	f := newFixture(t, "", gate.Flags{})
	sentinel := errors.New("disk full")
	f.verb.applyErr = sentinel

	result, err := f.dispatcher.Dispatch("config.json", "edit", nil)
	if !errors.Is(err, sentinel) {
		t.Fatalf("apply errors must propagate, got %v", err)
	}
	if result.Outcome != OutcomeFailed {
		t.Errorf("outcome = %s, want %s", result.Outcome, OutcomeFailed)
	}
	if f.verb.applies != 1 {
		t.Errorf("applies = %d, want exactly 1 (no retry)", f.verb.applies)
	}
}

func TestDispatch_RecordsBackupTakenByApply(t *testing.T) {
	f := newFixture(t, "", gate.Flags{})

	target := "settings.json"
	abs := filepath.Join(f.root, target)
	if err := os.WriteFile(abs, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	// A verb whose apply snapshots before mutating, as the built-ins do.
	reg := verbs.NewRegistry()
	reg.Register("edit",
		func(_, _ string, _ []string) error { return nil },
		func(_, absPath string, _ []string) error {
			_, err := f.backups.Backup(absPath)
			return err
		},
	)
	d := New(f.root, policy.NewStore(false), reg, f.backups, gate.Flags{}, &bytes.Buffer{})

	result, err := d.Dispatch(target, "edit", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BackupPath == "" {
		t.Error("result should carry the backup path taken during apply")
	}
	if _, err := os.Stat(result.BackupPath); err != nil {
		t.Errorf("recorded backup missing: %v", err)
	}
}

func TestDispatch_LastWriterWinsInRegistry(t *testing.T) {
	f := newFixture(t, "", gate.Flags{})

	second := &recordingVerb{}
	// Re-registering the same name replaces the first handlers silently.
	reg := verbs.NewRegistry()
	reg.Register("edit", f.verb.preview, f.verb.apply)
	reg.Register("edit", second.preview, second.apply)
	d := New(f.root, policy.NewStore(false), reg, f.backups, gate.Flags{}, &bytes.Buffer{})

	if _, err := d.Dispatch("x", "edit", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.verb.previews != 0 || second.previews != 1 {
		t.Errorf("last registration must win: first=%d second=%d", f.verb.previews, second.previews)
	}
}
