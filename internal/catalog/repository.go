package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/m3rciful/tourbot/core/logger"
)

// Source file names inside the data directory.
const (
	EventsFile   = "events.json"
	ToursFile    = "tours.json"
	GuideFile    = "guide.json"
	ContactsFile = "contacts.json"
)

// ErrMaterialNotFound is returned when a requested material is not a file in the materials directory.
var ErrMaterialNotFound = errors.New("catalog: material not found")

// Repository reads catalogs from a data directory and caches the parsed result
// until the underlying file changes (see Watch). A missing file yields an empty catalog.
type Repository struct {
	dataDir      string
	materialsDir string

	mu    sync.RWMutex
	cache map[string]any
}

// NewRepository builds a repository over dataDir and materialsDir.
func NewRepository(dataDir, materialsDir string) *Repository {
	return &Repository{
		dataDir:      dataDir,
		materialsDir: materialsDir,
		cache:        make(map[string]any),
	}
}

// Events returns the events catalog grouped by date, in document order.
func (r *Repository) Events() (Snapshot[Event], error) {
	return load(r, EventsFile, func(b []byte) (Snapshot[Event], error) {
		var s Snapshot[Event]
		err := json.Unmarshal(b, &s)
		return s, err
	})
}

// Tours returns the flat tour list.
func (r *Repository) Tours() ([]Tour, error) {
	return load(r, ToursFile, func(b []byte) ([]Tour, error) {
		var tours []Tour
		err := json.Unmarshal(b, &tours)
		return tours, err
	})
}

// Guide returns guide places grouped by category.
func (r *Repository) Guide() (Snapshot[Place], error) {
	return load(r, GuideFile, func(b []byte) (Snapshot[Place], error) {
		var s Snapshot[Place]
		err := json.Unmarshal(b, &s)
		return s, err
	})
}

// Contacts returns contacts grouped by category.
func (r *Repository) Contacts() (Snapshot[Contact], error) {
	return load(r, ContactsFile, func(b []byte) (Snapshot[Contact], error) {
		var s Snapshot[Contact]
		err := json.Unmarshal(b, &s)
		return s, err
	})
}

// Message returns the trimmed contents of <name>.txt or fallback when it is missing or empty.
func (r *Repository) Message(name, fallback string) string {
	text, err := load(r, name+".txt", func(b []byte) (string, error) {
		return strings.TrimSpace(string(b)), nil
	})
	if err != nil || text == "" {
		return fallback
	}
	return text
}

// Materials lists the regular files in the materials directory, sorted by name.
func (r *Repository) Materials() ([]string, error) {
	entries, err := os.ReadDir(r.materialsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: list materials: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// MaterialPath resolves a material file name to its path. Names with directory parts are rejected.
func (r *Repository) MaterialPath(name string) (string, error) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", ErrMaterialNotFound
	}
	p := filepath.Join(r.materialsDir, name)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrMaterialNotFound
	}
	return p, nil
}

// Invalidate drops the cached copy of a data file, or everything when name is empty.
func (r *Repository) Invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		r.cache = make(map[string]any)
		return
	}
	delete(r.cache, name)
}

func load[T any](r *Repository, name string, parse func([]byte) (T, error)) (T, error) {
	r.mu.RLock()
	if v, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return v.(T), nil
	}
	r.mu.RUnlock()

	var zero T
	b, err := os.ReadFile(filepath.Join(r.dataDir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, nil
		}
		return zero, fmt.Errorf("catalog: read %s: %w", name, err)
	}
	v, err := parse(b)
	if err != nil {
		logger.Catalog.LogAttrs(context.Background(), slog.LevelError, "catalog.parse_failed",
			slog.String("path", name),
			slog.String("err", err.Error()),
		)
		return zero, fmt.Errorf("catalog: parse %s: %w", name, err)
	}

	r.mu.Lock()
	r.cache[name] = v
	r.mu.Unlock()
	logger.Catalog.LogAttrs(context.Background(), slog.LevelDebug, "catalog.loaded",
		slog.String("path", name),
		slog.String("cache", "miss"),
	)
	return v, nil
}
