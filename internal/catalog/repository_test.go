package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRepositoryMissingFilesAreEmpty(t *testing.T) {
	r := NewRepository(t.TempDir(), filepath.Join(t.TempDir(), "absent"))

	events, err := r.Events()
	if err != nil || events.Len() != 0 {
		t.Fatalf("Events = %+v, %v", events, err)
	}
	tours, err := r.Tours()
	if err != nil || len(tours) != 0 {
		t.Fatalf("Tours = %+v, %v", tours, err)
	}
	materials, err := r.Materials()
	if err != nil || len(materials) != 0 {
		t.Fatalf("Materials = %v, %v", materials, err)
	}
	if got := r.Message("welcome", "Добро пожаловать!"); got != "Добро пожаловать!" {
		t.Fatalf("Message fallback = %q", got)
	}
}

func TestRepositoryCachesUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ToursFile, `[{"id":"T1","date":"2024-06-01","time":"10:00","name":"Old","price":100}]`)
	r := NewRepository(dir, dir)

	first := func() string {
		t.Helper()
		tours, err := r.Tours()
		if err != nil || len(tours) != 1 {
			t.Fatalf("Tours = %+v, %v", tours, err)
		}
		return tours[0].Name
	}
	if got := first(); got != "Old" {
		t.Fatalf("Tours = %q", got)
	}

	writeFile(t, dir, ToursFile, `[{"id":"T1","date":"2024-06-01","time":"10:00","name":"New","price":100}]`)
	if got := first(); got != "Old" {
		t.Fatalf("expected cached tour, got %q", got)
	}

	r.Invalidate(ToursFile)
	if got := first(); got != "New" {
		t.Fatalf("expected reloaded tour, got %q", got)
	}
}

func TestRepositoryParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ContactsFile, `{"broken":`)
	r := NewRepository(dir, dir)
	if _, err := r.Contacts(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRepositoryMessageTrimmed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "souvenirs.txt", "\n  Магнитики и открытки  \n")
	r := NewRepository(dir, dir)
	if got := r.Message("souvenirs", "fallback"); got != "Магнитики и открытки" {
		t.Fatalf("Message = %q", got)
	}
}

func TestMaterialPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "map.pdf", "pdf")
	writeFile(t, dir, ".hidden", "x")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	r := NewRepository(t.TempDir(), dir)

	names, err := r.Materials()
	if err != nil || len(names) != 1 || names[0] != "map.pdf" {
		t.Fatalf("Materials = %v, %v", names, err)
	}
	if p, err := r.MaterialPath("map.pdf"); err != nil || p != filepath.Join(dir, "map.pdf") {
		t.Fatalf("MaterialPath = %q, %v", p, err)
	}
	for _, bad := range []string{"", "../map.pdf", "sub", "missing.pdf"} {
		if _, err := r.MaterialPath(bad); !errors.Is(err, ErrMaterialNotFound) {
			t.Fatalf("MaterialPath(%q) err = %v", bad, err)
		}
	}
}
