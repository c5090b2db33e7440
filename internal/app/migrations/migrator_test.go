package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVersion(t *testing.T) {
	tests := map[string]string{
		"001_init.sql":                 "001",
		"migrations/002_add_notes.sql": "002",
		"003.sql":                      "003.sql",
	}
	for in, want := range tests {
		if got := Version(in); got != want {
			t.Errorf("Version(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSQLFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md", "010_c.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000_dir.sql"), 0o700); err != nil {
		t.Fatal(err)
	}

	files, err := SQLFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"001_a.sql", "002_b.sql", "010_c.sql"}
	if len(files) != len(want) {
		t.Fatalf("files = %v", files)
	}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, f, want[i])
		}
	}
}

func TestRepositoryMigrationsAreVersioned(t *testing.T) {
	files, err := SQLFiles(filepath.Join("..", "..", "..", "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no migrations found")
	}
	seen := map[string]bool{}
	for _, f := range files {
		v := Version(f)
		if seen[v] {
			t.Errorf("duplicate migration version %s", v)
		}
		seen[v] = true
	}
}
