package database

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDSNQuotesSpecialValues(t *testing.T) {
	cfg := Config{User: "bot", Password: "p a'ss", Host: "db", Port: "5432", Name: "tours", SSLMode: "disable"}
	want := `user=bot password='p a\'ss' host=db port=5432 dbname=tours sslmode=disable`
	if got := cfg.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
	if got := (Config{}).DSN(); got != `user='' password='' host='' port='' dbname='' sslmode=''` {
		t.Fatalf("empty DSN = %q", got)
	}
}

func TestURLEscapesCredentials(t *testing.T) {
	cfg := Config{User: "bot", Password: "p@ss/word", Host: "db", Port: "5432", Name: "tours", SSLMode: "require"}
	want := "postgres://bot:p%40ss%2Fword@db:5432/tours?sslmode=require"
	if got := cfg.URL(); got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
}

func TestMigrationFilesBetweenVersions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_orders.up.sql", "000001_init.up.sql", "000001_init.down.sql",
		"000003_index.up.sql", "README.md",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000009_dir.up.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	files := readMigrations(dir)
	want := migrationFiles{"000001_init.up.sql", "000002_orders.up.sql", "000003_index.up.sql"}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v", files)
	}
	if got := files.between(1, 3); !reflect.DeepEqual(got, want[1:]) {
		t.Fatalf("between(1,3) = %v", got)
	}
	if got := files.between(3, 3); len(got) != 0 {
		t.Fatalf("nothing applied = %v", got)
	}
	if v := migrationVersion("000002_orders.up.sql"); v != 2 {
		t.Fatalf("version = %d", v)
	}
	if readMigrations(filepath.Join(dir, "missing")) != nil {
		t.Fatal("missing dir must yield no files")
	}
}
