package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	ok, err := fs.Exists(filepath.Join(dir, "nope"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}

	path := filepath.Join(dir, "file")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	ok, err = fs.Exists(path)
	if err != nil || !ok {
		t.Errorf("Exists(present) = %v, %v", ok, err)
	}
}

func TestAtomicWrite(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	if err := fs.AtomicWrite(path, []byte("{}"), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{}" {
		t.Fatalf("content = %q, err %v", data, err)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the written file, found %d entries", len(entries))
	}
}

func TestCopy(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("payload"), 0640); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "sub", "dst.txt")
	if err := fs.Copy(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "payload" {
		t.Fatalf("content = %q, err %v", data, err)
	}
	info, _ := os.Stat(dst)
	if info.Mode().Perm() != 0640 {
		t.Errorf("mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestCopy_RejectsDirectories(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	if err := fs.Copy(dir, filepath.Join(dir, "copy")); err == nil {
		t.Error("copying a directory should fail")
	}
}

func TestValidateRelPath(t *testing.T) {
	fs := NewRealFS()
	tests := []struct {
		path  string
		valid bool
	}{
		{"config.json", true},
		{"a/b/c.txt", true},
		{"", false},
		{"/etc/passwd", false},
		{"..", false},
		{"../outside", false},
		{"a/../../outside", false},
		{"a/../b", true},
	}
	for _, tt := range tests {
		err := fs.ValidateRelPath(tt.path)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateRelPath(%q) err = %v, want valid=%v", tt.path, err, tt.valid)
		}
	}
}
