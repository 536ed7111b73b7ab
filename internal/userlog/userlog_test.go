package userlog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecordAppends(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)
	j.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	j.Record(context.Background(), 42, "ivan", "📅 Мероприятия")
	j.Record(context.Background(), 42, "", "WebApp data: {}")

	b, err := os.ReadFile(filepath.Join(dir, "42.log"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "2024-05-01T10:00:00.000000 - @ivan: 📅 Мероприятия" {
		t.Fatalf("line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "@unknown: WebApp data") {
		t.Fatalf("line = %q", lines[1])
	}
}

func TestDisabledJournal(t *testing.T) {
	var j *Journal
	j.Record(context.Background(), 1, "x", "y")
	New("").Record(context.Background(), 1, "x", "y")
}
