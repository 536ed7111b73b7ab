package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/tourbot/core/config"
	coredatabase "github.com/m3rciful/tourbot/core/database"
	"github.com/m3rciful/tourbot/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options[T any] struct {
	Config *coreconfig.Config
	// Database enables the PostgreSQL step when non-nil.
	Database *coredatabase.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error

	Modules Modules[T]
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result[T any] struct {
	Storage  Storage
	Services T
}

// Close releases infrastructure opened by Run.
func (r *Result[T]) Close() error {
	if r == nil || r.Storage.DB == nil {
		return nil
	}
	return r.Storage.DB.Close()
}

// Run initializes the logger, opens storage, runs seeders in order and
// finally builds services. Storage opened by Run is closed on failure.
func Run[T any](ctx context.Context, opts Options[T]) (*Result[T], error) {
	if opts.Config == nil {
		return nil, errors.New("bootstrap: nil config provided")
	}
	initLogger := opts.LoggerInit
	if initLogger == nil {
		initLogger = logger.InitLogger
	}
	if err := initLogger(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	storage, err := openStorage(ctx, opts)
	if err != nil {
		return nil, err
	}
	res := &Result[T]{Storage: storage}
	if err := res.build(ctx, opts.Modules); err != nil {
		_ = res.Close()
		return nil, err
	}
	return res, nil
}

func (r *Result[T]) build(ctx context.Context, m Modules[T]) error {
	for i, s := range m.Seeders {
		if s == nil {
			continue
		}
		if err := s.Seed(ctx, r.Storage); err != nil {
			return fmt.Errorf("bootstrap: seeder %d failed: %w", i, err)
		}
	}
	if m.Services == nil {
		return nil
	}
	svc, err := m.Services.Provide(ctx, r.Storage)
	if err != nil {
		return fmt.Errorf("bootstrap: services init failed: %w", err)
	}
	r.Services = svc
	return nil
}

// openStorage connects and migrates PostgreSQL when opts.Database is set.
func openStorage[T any](ctx context.Context, opts Options[T]) (Storage, error) {
	if opts.Database == nil {
		logger.Info(ctx, "app", "storage", slog.String("mode", "file"))
		return Storage{}, nil
	}
	connect, migrate := opts.Connect, opts.Migrate
	if connect == nil {
		connect = coredatabase.Connect
	}
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}

	db, err := connect(*opts.Database)
	if err != nil {
		return Storage{}, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}
	if err := migrate(*opts.Database); err != nil {
		_ = db.Close()
		return Storage{}, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}
	logger.Info(ctx, "app", "storage", slog.String("mode", "postgres"))
	return Storage{DB: db}, nil
}
