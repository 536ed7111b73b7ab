package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m3rciful/tourbot/core/logger"
)

const (
	defaultMigrationsDir = "migrations"
	readyTimeout         = 30 * time.Second
	migrationsPreview    = 6
)

// RunMigrations waits for the server and applies every pending up migration.
func RunMigrations(cfg Config) error {
	if err := WaitForPostgres(cfg.DSN(), readyTimeout); err != nil {
		logger.MIG.Error("db not ready",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("database not ready: %w", err)
	}

	dir, err := migrationsDir(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	set := readMigrations(dir)
	logger.MIG.Debug("migrations resolved", migrationAttrs("resolve", set)...)

	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.URL())
	if err != nil {
		logger.MIG.Error("init failed",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	from := currentVersion(m)
	start := time.Now()
	err = m.Up()
	took := logger.RoundMS(time.Since(start))
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.MIG.Error("migration failed",
			slog.String("event", "apply"),
			slog.String("err", err.Error()),
			slog.Duration("duration", took),
		)
		return fmt.Errorf("migration execution failed: %w", err)
	}

	to := currentVersion(m)
	applied := set.between(from, to)
	if len(applied) > 0 {
		logger.MIG.Debug("applied files", migrationAttrs("apply", applied)...)
	}
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Int("files", len(applied)),
		slog.Duration("duration", took),
	)
	return nil
}

func currentVersion(m *migrate.Migrate) uint {
	v, _, err := m.Version()
	if err != nil {
		return 0
	}
	return v
}

func migrationsDir(dir string) (string, error) {
	if dir == "" {
		dir = defaultMigrationsDir
	}
	return filepath.Abs(dir)
}

// migrationFiles holds the *.up.sql names of a directory sorted by name.
type migrationFiles []string

func readMigrations(dir string) migrationFiles {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files migrationFiles
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

// between returns the files with from < version <= to.
func (f migrationFiles) between(from, to uint) migrationFiles {
	var out migrationFiles
	for _, name := range f {
		if v := migrationVersion(name); v > from && v <= to {
			out = append(out, name)
		}
	}
	return out
}

func migrationAttrs(event string, files migrationFiles) []any {
	args := []any{
		slog.String("event", event),
		slog.Int("files_total", len(files)),
	}
	preview, truncated := logger.SummarizeStrings(files, migrationsPreview)
	if preview != "" {
		args = append(args, slog.String("files_preview", preview))
	}
	if truncated {
		args = append(args, slog.Bool("files_truncated", true))
	}
	return args
}

func migrationVersion(name string) uint {
	prefix, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(prefix, 10, 64)
	return uint(v)
}
